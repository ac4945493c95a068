package app

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"nodesailor/internal/scene"
	"nodesailor/pkg/colorutil"
)

// TokenSet is one named color scheme for the map canvas. Schemes can be
// edited in the color scheme editor and saved as JSON.
type TokenSet struct {
	Name string

	CanvasBackground color.RGBA
	ConnectionLine   color.RGBA
	ConnectionLabel  color.RGBA
	NodeText         color.RGBA
	StickyText       color.RGBA
	StickyBackground color.RGBA
	GroupName        color.RGBA
	Accent           color.RGBA
	Highlight        color.RGBA

	Status map[scene.Status]color.RGBA
}

// LightTokens returns the built-in light scheme.
func LightTokens() *TokenSet {
	return &TokenSet{
		Name:             "light",
		CanvasBackground: color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
		ConnectionLine:   color.RGBA{R: 0x50, G: 0x50, B: 0x50, A: 0xff},
		ConnectionLabel:  color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
		NodeText:         colorutil.Black,
		StickyText:       color.RGBA{R: 0x40, G: 0x36, B: 0x00, A: 0xff},
		StickyBackground: color.RGBA{R: 0xff, G: 0xf3, B: 0xa6, A: 0xff},
		GroupName:        color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff},
		Accent:           color.RGBA{R: 0x1f, G: 0x6f, B: 0xb2, A: 0xff},
		Highlight:        colorutil.Yellow,
		Status:           defaultStatusColors(),
	}
}

// DarkTokens returns the built-in dark scheme.
func DarkTokens() *TokenSet {
	return &TokenSet{
		Name:             "dark",
		CanvasBackground: color.RGBA{R: 0x1e, G: 0x1e, B: 0x22, A: 0xff},
		ConnectionLine:   color.RGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff},
		ConnectionLabel:  color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff},
		NodeText:         colorutil.White,
		StickyText:       color.RGBA{R: 0xff, G: 0xf3, B: 0xa6, A: 0xff},
		StickyBackground: color.RGBA{R: 0x3a, G: 0x36, B: 0x1e, A: 0xff},
		GroupName:        color.RGBA{R: 0xc0, G: 0xc0, B: 0xc0, A: 0xff},
		Accent:           color.RGBA{R: 0x4f, G: 0x9f, B: 0xe2, A: 0xff},
		Highlight:        colorutil.Yellow,
		Status:           defaultStatusColors(),
	}
}

func defaultStatusColors() map[scene.Status]color.RGBA {
	return map[scene.Status]color.RGBA{
		scene.StatusDefault:   colorutil.Blue,
		scene.StatusSuccess:   colorutil.Green,
		scene.StatusPartial:   colorutil.Yellow,
		scene.StatusFailure:   colorutil.Red,
		scene.StatusHost:      colorutil.Magenta,
		scene.StatusHighlight: colorutil.Yellow,
		scene.StatusGreyed:    colorutil.Grey,
	}
}

// StatusColor returns the fill for a node status, falling back to the
// default status color for unknown values.
func (t *TokenSet) StatusColor(st scene.Status) color.RGBA {
	if c, ok := t.Status[st]; ok {
		return c
	}
	return t.Status[scene.StatusDefault]
}

// tokenFile is the JSON shape of a saved scheme: hex strings per token.
type tokenFile struct {
	Name             string            `json:"name"`
	CanvasBackground string            `json:"canvas_background"`
	ConnectionLine   string            `json:"connection_line"`
	ConnectionLabel  string            `json:"connection_label"`
	NodeText         string            `json:"node_text"`
	StickyText       string            `json:"sticky_text"`
	StickyBackground string            `json:"sticky_background"`
	GroupName        string            `json:"group_name"`
	Accent           string            `json:"accent"`
	Highlight        string            `json:"highlight"`
	Status           map[string]string `json:"status"`
}

var statusNames = map[scene.Status]string{
	scene.StatusDefault:   "default",
	scene.StatusSuccess:   "success",
	scene.StatusPartial:   "partial",
	scene.StatusFailure:   "failure",
	scene.StatusHost:      "host",
	scene.StatusHighlight: "highlight",
	scene.StatusGreyed:    "greyed",
}

// LoadTokenSet reads a scheme from a JSON file. Missing or malformed
// tokens fall back to the light scheme's values.
func LoadTokenSet(path string) (*TokenSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read color scheme: %w", err)
	}
	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse color scheme: %w", err)
	}

	base := LightTokens()
	t := &TokenSet{
		Name:             f.Name,
		CanvasBackground: colorutil.ParseHexOr(f.CanvasBackground, base.CanvasBackground),
		ConnectionLine:   colorutil.ParseHexOr(f.ConnectionLine, base.ConnectionLine),
		ConnectionLabel:  colorutil.ParseHexOr(f.ConnectionLabel, base.ConnectionLabel),
		NodeText:         colorutil.ParseHexOr(f.NodeText, base.NodeText),
		StickyText:       colorutil.ParseHexOr(f.StickyText, base.StickyText),
		StickyBackground: colorutil.ParseHexOr(f.StickyBackground, base.StickyBackground),
		GroupName:        colorutil.ParseHexOr(f.GroupName, base.GroupName),
		Accent:           colorutil.ParseHexOr(f.Accent, base.Accent),
		Highlight:        colorutil.ParseHexOr(f.Highlight, base.Highlight),
		Status:           defaultStatusColors(),
	}
	for st, name := range statusNames {
		if hex, ok := f.Status[name]; ok {
			t.Status[st] = colorutil.ParseHexOr(hex, t.Status[st])
		}
	}
	return t, nil
}

// SaveTokenSet writes a scheme as JSON.
func SaveTokenSet(path string, t *TokenSet) error {
	f := tokenFile{
		Name:             t.Name,
		CanvasBackground: colorutil.Hex(t.CanvasBackground),
		ConnectionLine:   colorutil.Hex(t.ConnectionLine),
		ConnectionLabel:  colorutil.Hex(t.ConnectionLabel),
		NodeText:         colorutil.Hex(t.NodeText),
		StickyText:       colorutil.Hex(t.StickyText),
		StickyBackground: colorutil.Hex(t.StickyBackground),
		GroupName:        colorutil.Hex(t.GroupName),
		Accent:           colorutil.Hex(t.Accent),
		Highlight:        colorutil.Hex(t.Highlight),
		Status:           make(map[string]string, len(t.Status)),
	}
	for st, name := range statusNames {
		f.Status[name] = colorutil.Hex(t.StatusColor(st))
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NetworkTheme adapts the active token set to the widget toolkit and
// forces the chosen light/dark variant.
type NetworkTheme struct {
	State *State
	Light *TokenSet
	Dark  *TokenSet
}

var _ fyne.Theme = (*NetworkTheme)(nil)

// Tokens returns the token set for the active variant.
func (t *NetworkTheme) Tokens() *TokenSet {
	if t.State != nil && t.State.Dark() {
		return t.Dark
	}
	return t.Light
}

func (t *NetworkTheme) variant() fyne.ThemeVariant {
	if t.State != nil && t.State.Dark() {
		return theme.VariantDark
	}
	return theme.VariantLight
}

func (t *NetworkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	tokens := t.Tokens()
	switch name {
	case theme.ColorNamePrimary:
		return tokens.Accent
	case theme.ColorNameSelection:
		c := tokens.Highlight
		c.A = 0x80
		return c
	default:
		return theme.DefaultTheme().Color(name, t.variant())
	}
}

func (t *NetworkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *NetworkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *NetworkTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
