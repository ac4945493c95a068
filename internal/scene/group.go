package scene

import (
	"github.com/google/uuid"

	"nodesailor/pkg/geometry"
)

// ColorPreset is a named four-color set applied to group rectangles.
type ColorPreset struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	LightBG     string `json:"light_bg"`
	LightBorder string `json:"light_border"`
	DarkBG      string `json:"dark_bg"`
	DarkBorder  string `json:"dark_border"`
}

// DefaultPresets returns the built-in group color presets.
func DefaultPresets() []ColorPreset {
	return []ColorPreset{
		{ID: "slate", Name: "Slate", LightBG: "#dbe2ea", LightBorder: "#6b7a8f", DarkBG: "#2e3440", DarkBorder: "#81a1c1"},
		{ID: "moss", Name: "Moss", LightBG: "#dcebd4", LightBorder: "#6f8f5f", DarkBG: "#2f3a2c", DarkBorder: "#8fbc7f"},
		{ID: "sand", Name: "Sand", LightBG: "#f0e6d2", LightBorder: "#a88f5f", DarkBG: "#3a342a", DarkBorder: "#c8ad7f"},
		{ID: "rose", Name: "Rose", LightBG: "#f2dde2", LightBorder: "#a86f7d", DarkBG: "#3a2c31", DarkBorder: "#c88fa0"},
	}
}

// Group is a labeled axis-aligned rectangle grouping part of the map.
// Corner coordinates are kept normalized: X1 <= X2 and Y1 <= Y2.
type Group struct {
	ID   uuid.UUID
	Name string

	X1, Y1, X2, Y2 float64

	// PresetID selects a scene color preset; the explicit colors are
	// fallbacks used when the preset is missing from the document.
	PresetID    string
	LightBG     string
	LightBorder string
	DarkBG      string
	DarkBorder  string

	// Color is the single-color field older documents carry. It is never
	// rendered but written back on save so old files survive a round trip.
	Color string
}

// NewGroup creates a normalized group from two opposite corners.
func NewGroup(name string, x1, y1, x2, y2 float64) *Group {
	g := &Group{ID: uuid.New(), Name: name, X1: x1, Y1: y1, X2: x2, Y2: y2}
	g.Normalize()
	return g
}

// Normalize restores X1 <= X2 and Y1 <= Y2 after a resize.
func (g *Group) Normalize() {
	if g.X1 > g.X2 {
		g.X1, g.X2 = g.X2, g.X1
	}
	if g.Y1 > g.Y2 {
		g.Y1, g.Y2 = g.Y2, g.Y1
	}
}

// Rect returns the group rectangle.
func (g *Group) Rect() geometry.Rect {
	return geometry.RectFromCorners(g.X1, g.Y1, g.X2, g.Y2)
}

// Contains reports whether p lies inside the group rectangle.
func (g *Group) Contains(p geometry.Point2D) bool {
	return g.Rect().Contains(p)
}

// Corners returns the four corner points in the order top-left, top-right,
// bottom-left, bottom-right, matching the resize handle layout.
func (g *Group) Corners() [4]geometry.Point2D {
	return [4]geometry.Point2D{
		{X: g.X1, Y: g.Y1},
		{X: g.X2, Y: g.Y1},
		{X: g.X1, Y: g.Y2},
		{X: g.X2, Y: g.Y2},
	}
}
