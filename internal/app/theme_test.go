package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"nodesailor/internal/scene"
	"nodesailor/pkg/colorutil"
)

func TestTokenSetRoundTrip(t *testing.T) {
	orig := DarkTokens()
	orig.Name = "midnight"
	orig.Accent = colorutil.Magenta
	orig.Status[scene.StatusFailure] = colorutil.Black

	path := filepath.Join(t.TempDir(), "scheme.json")
	require.NoError(t, SaveTokenSet(path, orig))

	got, err := LoadTokenSet(path)
	require.NoError(t, err)
	require.Equal(t, "midnight", got.Name)
	require.Equal(t, orig.CanvasBackground, got.CanvasBackground)
	require.Equal(t, orig.Accent, got.Accent)
	require.Equal(t, colorutil.Black, got.StatusColor(scene.StatusFailure))
	require.Equal(t, colorutil.Green, got.StatusColor(scene.StatusSuccess))
}

func TestLoadTokenSetFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheme.json")
	data := `{"name":"partial","accent":"#112233","node_text":"not-a-color","status":{"success":"#010203","failure":"bogus"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	got, err := LoadTokenSet(path)
	require.NoError(t, err)
	base := LightTokens()

	// Parseable tokens are taken, everything else keeps the light defaults.
	require.Equal(t, colorutil.ParseHexOr("#112233", base.Accent), got.Accent)
	require.Equal(t, base.NodeText, got.NodeText)
	require.Equal(t, base.CanvasBackground, got.CanvasBackground)
	require.Equal(t, colorutil.ParseHexOr("#010203", base.StatusColor(scene.StatusSuccess)), got.StatusColor(scene.StatusSuccess))
	require.Equal(t, base.StatusColor(scene.StatusFailure), got.StatusColor(scene.StatusFailure))
}

func TestLoadTokenSetErrors(t *testing.T) {
	_, err := LoadTokenSet(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))
	_, err = LoadTokenSet(path)
	require.Error(t, err)
}

func TestStatusColorUnknown(t *testing.T) {
	tokens := LightTokens()
	require.Equal(t, tokens.Status[scene.StatusDefault], tokens.StatusColor(scene.Status(99)))
}

func TestNetworkThemeTokens(t *testing.T) {
	st := NewState()
	th := &NetworkTheme{State: st, Light: LightTokens(), Dark: DarkTokens()}

	require.Equal(t, "light", th.Tokens().Name)
	st.SetDark(true)
	require.Equal(t, "dark", th.Tokens().Name)
}
