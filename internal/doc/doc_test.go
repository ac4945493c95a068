package doc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

func writeMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := scene.New()
	a := s.AddNode("A", geometry.Point2D{X: 100, Y: 100})
	a.VLANs["VLAN_100"] = "10.0.0.1"
	a.RemoteDesktopAddress = "10.0.0.1"
	b := s.AddNode("B", geometry.Point2D{X: 300, Y: 100})
	c, err := s.AddConnection(a, b, "link", "trunk port")
	require.NoError(t, err)
	c.Waypoints = []geometry.Point2D{{X: 200, Y: 150}}
	c.LabelPos = 0.25
	s.AddNote("note text", geometry.Point2D{X: 50, Y: 50})
	g := s.AddGroup("rack", 0, 0, 400, 200)
	g.PresetID = "slate"
	s.GroupWindowHeight = 420
	s.NodeWindowHeight = 360

	cmds := map[string]CommandRecord{
		"ssh": {Template: "ssh {ip}"},
	}

	path := filepath.Join(t.TempDir(), "map.json")
	require.NoError(t, Save(path, s, cmds))

	loaded, res, err := Load(path)
	require.NoError(t, err)
	require.False(t, res.Backfilled)
	require.Zero(t, res.SkippedNodes)
	require.Zero(t, res.SkippedConnections)

	require.Len(t, loaded.Nodes, 2)
	la := loaded.NodeByName("A")
	require.NotNil(t, la)
	require.Equal(t, geometry.Point2D{X: 100, Y: 100}, la.Pos)
	require.Equal(t, "10.0.0.1", la.VLANs["VLAN_100"])
	require.Equal(t, "10.0.0.1", la.RemoteDesktopAddress)

	require.Len(t, loaded.Connections, 1)
	lc := loaded.Connections[0]
	require.Equal(t, "link", lc.Label)
	require.Equal(t, "trunk port", lc.Info)
	require.Equal(t, 0.25, lc.LabelPos)
	require.Equal(t, []geometry.Point2D{{X: 200, Y: 150}}, lc.Waypoints)

	require.Len(t, loaded.Notes, 1)
	require.Equal(t, "note text", loaded.Notes[0].Text)

	require.Len(t, loaded.Groups, 1)
	require.Equal(t, "slate", loaded.Groups[0].PresetID)

	require.Equal(t, s.VLANOrder, loaded.VLANOrder)
	require.Equal(t, 420, loaded.GroupWindowHeight)
	require.Equal(t, 360, loaded.NodeWindowHeight)
	require.Equal(t, "ssh {ip}", res.Commands["ssh"].Template)
}

func TestLoadScenarioCreateSaveLoad(t *testing.T) {
	s := scene.New()
	a := s.AddNode("A", geometry.Point2D{X: 100, Y: 100})
	b := s.AddNode("B", geometry.Point2D{X: 300, Y: 100})
	_, err := s.AddConnection(a, b, "link", "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "f1.json")
	require.NoError(t, Save(path, s, nil))

	loaded, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 2)
	require.Len(t, loaded.Connections, 1)

	c := loaded.Connections[0]
	require.Equal(t, "link", c.Label)
	require.Equal(t, 0.5, c.LabelPos)
	require.Empty(t, c.Waypoints)
}

func TestLoadBackfillRewritesOnce(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [
			{"name": "A", "x": 1, "y": 2, "VLAN_100": "10.0.0.1"},
			{"name": "B", "x": 3, "y": 4, "VLAN_100": "10.0.0.2", "VLAN_200": "10.0.1.2"}
		],
		"vlan_labels": {"VLAN_100": "Prod", "VLAN_200": "Lab"},
		"vlan_label_order": ["VLAN_100", "VLAN_200"]
	}`)

	loaded, res, err := Load(path)
	require.NoError(t, err)
	require.True(t, res.Backfilled)
	require.Equal(t, "", loaded.NodeByName("A").VLANs["VLAN_200"])

	// The rewritten file needs no second backfill.
	again, res2, err := Load(path)
	require.NoError(t, err)
	require.False(t, res2.Backfilled)
	require.Equal(t, "", again.NodeByName("A").VLANs["VLAN_200"])
}

func TestLoadSkipsBadConnections(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [
			{"name": "A", "x": 0, "y": 0},
			{"name": "B", "x": 1, "y": 1}
		],
		"connections": [
			{"from": 0, "to": 1, "label": "ok"},
			{"from": 0, "to": 9, "label": "out of range"},
			{"from": 1, "to": 1, "label": "self"},
			{"from": -1, "to": 0, "label": "negative"}
		]
	}`)

	loaded, res, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Connections, 1)
	require.Equal(t, "ok", loaded.Connections[0].Label)
	require.Equal(t, 3, res.SkippedConnections)
}

func TestLoadSkipsNamelessNodes(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [
			{"name": "", "x": 0, "y": 0},
			{"name": "B", "x": 1, "y": 1}
		],
		"connections": [
			{"from": 0, "to": 1}
		]
	}`)

	loaded, res, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 1)
	require.Equal(t, 1, res.SkippedNodes)
	// The connection referenced the skipped node, so it is skipped too.
	require.Empty(t, loaded.Connections)
	require.Equal(t, 1, res.SkippedConnections)
}

func TestLoadSynthesizesLegacyVLANOrder(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [
			{"name": "A", "x": 0, "y": 0, "VLAN_200": "", "VLAN_30": "", "VLAN_100": "", "VLAN_X": ""}
		]
	}`)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	// Numeric suffixes sort numerically, non-numeric keys sort last.
	require.Equal(t, []string{"VLAN_30", "VLAN_100", "VLAN_200", "VLAN_X"}, loaded.VLANOrder)
}

func TestLoadClampsLabelPos(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [
			{"name": "A", "x": 0, "y": 0},
			{"name": "B", "x": 1, "y": 1}
		],
		"connections": [
			{"from": 0, "to": 1, "label_pos": 1.7}
		]
	}`)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Connections, 1)
	require.Equal(t, 0.5, loaded.Connections[0].LabelPos)
}

func TestCommandRecordLegacyForms(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"custom_commands": {
			"legacy": "ping {ip}",
			"scoped": {"template": "ssh {ip}", "applicable_nodes": ["A", "B"]},
			"open": {"template": "traceroute {ip}", "applicable_nodes": null}
		}
	}`), &doc))

	require.Equal(t, "ping {ip}", doc.CustomCommands["legacy"].Template)
	require.Nil(t, doc.CustomCommands["legacy"].ApplicableNodes)

	require.Equal(t, []string{"A", "B"}, doc.CustomCommands["scoped"].ApplicableNodes)
	require.Nil(t, doc.CustomCommands["open"].ApplicableNodes)
}

func TestNodeRecordFlattening(t *testing.T) {
	rec := NodeRecord{
		Name:  "A",
		X:     1,
		Y:     2,
		VLANs: map[string]string{"VLAN_100": "10.0.0.1"},
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &obj))
	require.Equal(t, "10.0.0.1", obj["VLAN_100"])
	require.NotContains(t, obj, "VLANs")

	var back NodeRecord
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, rec.Name, back.Name)
	require.Equal(t, rec.VLANs, back.VLANs)
}

func TestLoadGroupNormalization(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [],
		"groups": [
			{"x1": 100, "y1": 100, "x2": 0, "y2": 0, "name": "G"}
		]
	}`)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Groups, 1)
	g := loaded.Groups[0]
	require.Equal(t, 0.0, g.X1)
	require.Equal(t, 100.0, g.X2)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestNodeRecordOmitsEmptyOptionalFields(t *testing.T) {
	rec := NodeRecord{Name: "A", X: 1, Y: 2}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &obj))
	require.NotContains(t, obj, "remote_desktop_address")
	require.NotContains(t, obj, "file_path")
	require.NotContains(t, obj, "web_config_url")

	rec.RemoteDesktopAddress = "host-a"
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &obj))
	require.Equal(t, "host-a", obj["remote_desktop_address"])
	require.NotContains(t, obj, "file_path")
}

func TestLegacyGroupColorSurvivesRoundTrip(t *testing.T) {
	path := writeMap(t, `{
		"nodes": [],
		"groups": [
			{"x1": 0, "y1": 0, "x2": 100, "y2": 100, "name": "G", "color": "#ffcc00"}
		]
	}`)

	loaded, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Groups, 1)
	require.Equal(t, "#ffcc00", loaded.Groups[0].Color)

	d := FromScene(loaded, nil)
	require.Len(t, d.Groups, 1)
	require.Equal(t, "#ffcc00", d.Groups[0].Color)
}

func TestFromSceneSkipsDanglingConnections(t *testing.T) {
	s := scene.New()
	a := s.AddNode("A", geometry.Point2D{})
	b := s.AddNode("B", geometry.Point2D{X: 1})
	_, err := s.AddConnection(a, b, "", "")
	require.NoError(t, err)

	// Remove the node without the cascade, leaving the connection dangling.
	s.Nodes = s.Nodes[:1]

	d := FromScene(s, nil)
	require.Empty(t, d.Connections)
}
