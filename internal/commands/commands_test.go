package commands

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func testNode() *scene.Node {
	n := scene.NewNode("core-switch", geometry.Point2D{}, []string{"VLAN_100", "VLAN_200"})
	n.VLANs["VLAN_200"] = "10.0.1.5"
	n.RemoteDesktopAddress = "10.0.1.5"
	n.FilePath = `\\share\docs`
	n.WebConfigURL = "https://10.0.1.5"
	return n
}

func TestExpandPlaceholders(t *testing.T) {
	n := testNode()
	order := []string{"VLAN_100", "VLAN_200"}

	for _, tc := range []struct {
		template string
		want     string
	}{
		{"ping {ip}", "ping 10.0.1.5"},
		{"echo {name}", "echo core-switch"},
		{"open {web}", "open https://10.0.1.5"},
		{"mstsc /v:{rdp}", "mstsc /v:10.0.1.5"},
		{"explorer {file}", `explorer \\share\docs`},
		{"ssh {vlan_200}", "ssh 10.0.1.5"},
		{"check {vlan_100}", "check "},
		{"no placeholders", "no placeholders"},
	} {
		got, err := Expand(tc.template, n, order)
		require.NoError(t, err, tc.template)
		require.Equal(t, tc.want, got)
	}
}

func TestExpandIPIsFirstNonEmpty(t *testing.T) {
	n := testNode()
	// VLAN_100 is empty, so {ip} falls through to VLAN_200.
	got, err := Expand("{ip}", n, []string{"VLAN_100", "VLAN_200"})
	require.NoError(t, err)
	require.Equal(t, "10.0.1.5", got)

	// Reversed order changes the winner once VLAN_100 has an address.
	n.VLANs["VLAN_100"] = "192.168.0.1"
	got, err = Expand("{ip}", n, []string{"VLAN_100", "VLAN_200"})
	require.NoError(t, err)
	require.Equal(t, "192.168.0.1", got)
}

func TestExpandUnknownPlaceholder(t *testing.T) {
	n := testNode()
	_, err := Expand("run {bogus}", n, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus")
}

func TestAppliesTo(t *testing.T) {
	all := Command{Name: "all", Template: "x"}
	require.True(t, all.AppliesTo("anything"))

	scoped := Command{Name: "scoped", Template: "x", ApplicableNodes: []string{"A", "B"}}
	require.True(t, scoped.AppliesTo("A"))
	require.False(t, scoped.AppliesTo("C"))

	// An empty (non-nil) list applies to no node.
	none := Command{Name: "none", Template: "x", ApplicableNodes: []string{}}
	require.False(t, none.AppliesTo("A"))
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.json")
	s := NewStore(path)
	require.NoError(t, s.Load()) // absent file is empty

	s.Set(Command{Name: "ssh", Template: "ssh {ip}"})
	s.Set(Command{Name: "trace", Template: "traceroute {ip}", ApplicableNodes: []string{"core-switch"}})
	require.NoError(t, s.Save())

	other := NewStore(path)
	require.NoError(t, other.Load())

	cmd, ok := other.Get("ssh")
	require.True(t, ok)
	require.Equal(t, "ssh {ip}", cmd.Template)
	require.Nil(t, cmd.ApplicableNodes)

	cmd, ok = other.Get("trace")
	require.True(t, ok)
	require.Equal(t, []string{"core-switch"}, cmd.ApplicableNodes)
}

func TestStoreLegacyStringForm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.json")
	require.NoError(t, writeFile(path, `{"legacy": "ping {ip}", "new": {"template": "ssh {ip}", "applicable_nodes": ["A"]}}`))

	s := NewStore(path)
	require.NoError(t, s.Load())

	cmd, ok := s.Get("legacy")
	require.True(t, ok)
	require.Equal(t, "ping {ip}", cmd.Template)
	require.Nil(t, cmd.ApplicableNodes)

	cmd, ok = s.Get("new")
	require.True(t, ok)
	require.Equal(t, []string{"A"}, cmd.ApplicableNodes)
}

func TestStoreReplaceAndForNode(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "commands.json"))
	s.Set(Command{Name: "old", Template: "x"})

	s.Replace(map[string]Command{
		"everywhere": {Template: "ping {ip}"},
		"scoped":     {Template: "ssh {ip}", ApplicableNodes: []string{"A"}},
	})

	_, ok := s.Get("old")
	require.False(t, ok)

	forA := s.ForNode("A")
	require.Len(t, forA, 2)
	forB := s.ForNode("B")
	require.Len(t, forB, 1)
	require.Equal(t, "everywhere", forB[0].Name)

	s.Replace(nil)
	require.Empty(t, s.List())
}

func TestLaunch(t *testing.T) {
	n := testNode()

	var spawned string
	err := Launch(Command{Name: "ssh", Template: "ssh {ip}"}, n, []string{"VLAN_200"}, func(line string) error {
		spawned = line
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "ssh 10.0.1.5", spawned)

	// Expansion failure never spawns.
	err = Launch(Command{Name: "bad", Template: "{nope}"}, n, nil, func(string) error {
		t.Fatal("spawn called for failed expansion")
		return nil
	})
	require.Error(t, err)

	// Spawn failure propagates with the command name.
	err = Launch(Command{Name: "ssh", Template: "ssh {ip}"}, n, nil, func(string) error {
		return errors.New("no terminal")
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "ssh")
}
