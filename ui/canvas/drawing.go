package canvas

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
	"nodesailor/pkg/colorutil"
	"nodesailor/pkg/geometry"
)

const (
	nodePadX = 10
	nodePadY = 6

	labelPadX = 4
	labelPadY = 2

	notePadX = 6
	notePadY = 4

	handleRadius = 5
	cornerSize   = 8

	vlanSquare = 8
	vlanGap    = 2

	lineThickness = 2
)

var face = basicfont.Face7x13

func measureText(s string) (w, h int) {
	return font.MeasureString(face, s).Ceil(), face.Metrics().Height.Ceil()
}

// measureLines measures multi-line text: max line width plus total height.
func measureLines(s string) (w, h int, lines []string) {
	lines = strings.Split(s, "\n")
	lineH := face.Metrics().Height.Ceil()
	for _, l := range lines {
		lw := font.MeasureString(face, l).Ceil()
		if lw > w {
			w = lw
		}
	}
	return w, lineH * len(lines), lines
}

func drawText(img *image.RGBA, s string, x, y int, col color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// draw is the raster drawing function. Layers render bottom-up: groups,
// connection lines, connection labels, sticky notes, nodes, handles.
func (nc *NetworkCanvas) draw(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	tokens := nc.theme.Tokens()

	fillRect(out, 0, 0, w, h, tokens.CanvasBackground)

	dark := nc.state.Dark()
	for _, g := range nc.scene.Groups {
		nc.drawGroup(out, g, dark, tokens.GroupName)
	}

	for _, c := range nc.scene.Connections {
		nc.drawConnectionLine(out, c, tokens.ConnectionLine)
	}
	for _, c := range nc.scene.Connections {
		nc.drawConnectionLabel(out, c, tokens)
	}

	for _, note := range nc.scene.Notes {
		nc.drawNote(out, note, tokens)
	}

	draft := nc.state.Draft()
	selNode := nc.state.SelectedNode()
	for _, n := range nc.scene.Nodes {
		selected := n.ID == selNode ||
			(draft.Phase == app.DraftAwaitingSecond && n.ID == draft.Start)
		nc.drawNode(out, n, tokens, selected)
	}

	if nc.state.CanEdit() {
		nc.drawHandles(out, tokens)
	}

	if nc.drag.kind == dragGroupDraw {
		r := geometry.RectFromCorners(nc.drag.origin.X, nc.drag.origin.Y,
			nc.drag.cur.X, nc.drag.cur.Y)
		drawDashedRect(out, int(r.X), int(r.Y),
			int(r.X+r.Width), int(r.Y+r.Height), tokens.Highlight)
	}

	return out
}

func (nc *NetworkCanvas) groupColors(g *scene.Group, dark bool) (bg, border color.RGBA) {
	bgHex, borderHex := g.LightBG, g.LightBorder
	if dark {
		bgHex, borderHex = g.DarkBG, g.DarkBorder
	}
	if preset := nc.scene.PresetByID(g.PresetID); preset != nil {
		if dark {
			bgHex, borderHex = preset.DarkBG, preset.DarkBorder
		} else {
			bgHex, borderHex = preset.LightBG, preset.LightBorder
		}
	}
	bg = colorutil.ParseHexOr(bgHex, colorutil.Grey)
	border = colorutil.ParseHexOr(borderHex, colorutil.Black)
	return bg, border
}

func (nc *NetworkCanvas) drawGroup(out *image.RGBA, g *scene.Group, dark bool, nameCol color.RGBA) {
	bg, border := nc.groupColors(g, dark)
	x1, y1 := int(g.X1), int(g.Y1)
	x2, y2 := int(g.X2), int(g.Y2)

	// Stipple fill: every third pixel on alternating rows.
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			if (x+2*y)%4 == 0 {
				setPx(out, x, y, bg)
			}
		}
	}
	drawRectOutline(out, x1, y1, x2, y2, border, lineThickness)
	drawText(out, g.Name, x1+notePadX, y1+notePadY, nameCol)
}

func (nc *NetworkCanvas) drawConnectionLine(out *image.RGBA, c *scene.Connection, col color.RGBA) {
	pl := c.Polyline()
	for i := 0; i+1 < len(pl); i++ {
		drawLine(out, int(pl[i].X), int(pl[i].Y),
			int(pl[i+1].X), int(pl[i+1].Y), col, lineThickness)
	}
}

// connLabelRect returns the label's background rectangle, sized to the
// text bounding box plus padding and centered at the label point.
func connLabelRect(c *scene.Connection) (geometry.Rect, bool) {
	if c.Label == "" {
		return geometry.Rect{}, false
	}
	tw, th := measureText(c.Label)
	p := c.LabelPoint()
	return geometry.Rect{
		X:      p.X - float64(tw)/2 - labelPadX,
		Y:      p.Y - float64(th)/2 - labelPadY,
		Width:  float64(tw) + 2*labelPadX,
		Height: float64(th) + 2*labelPadY,
	}, true
}

func (nc *NetworkCanvas) drawConnectionLabel(out *image.RGBA, c *scene.Connection, tokens *app.TokenSet) {
	r, ok := connLabelRect(c)
	if !ok {
		return
	}
	fillRect(out, int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height), tokens.CanvasBackground)
	drawRectOutline(out, int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height), tokens.ConnectionLine, 1)
	drawText(out, c.Label, int(r.X)+labelPadX, int(r.Y)+labelPadY, tokens.ConnectionLabel)
}

// noteRect returns the note's background rectangle.
func noteRect(note *scene.StickyNote) geometry.Rect {
	w, h, _ := measureLines(note.Text)
	return geometry.Rect{
		X:      note.Pos.X,
		Y:      note.Pos.Y,
		Width:  float64(w) + 2*notePadX,
		Height: float64(h) + 2*notePadY,
	}
}

func (nc *NetworkCanvas) drawNote(out *image.RGBA, note *scene.StickyNote, tokens *app.TokenSet) {
	r := noteRect(note)
	fillRect(out, int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height), tokens.StickyBackground)
	_, _, lines := measureLines(note.Text)
	lineH := face.Metrics().Height.Ceil()
	for i, l := range lines {
		drawText(out, l, int(r.X)+notePadX, int(r.Y)+notePadY+i*lineH, tokens.StickyText)
	}
}

// nodeRect returns the node's rectangle: text bounding box plus padding,
// centered on the node position.
func nodeRect(n *scene.Node) geometry.Rect {
	tw, th := measureText(n.Name)
	w := float64(tw) + 2*nodePadX
	h := float64(th) + 2*nodePadY
	return geometry.Rect{X: n.Pos.X - w/2, Y: n.Pos.Y - h/2, Width: w, Height: h}
}

func (nc *NetworkCanvas) drawNode(out *image.RGBA, n *scene.Node, tokens *app.TokenSet, selected bool) {
	r := nodeRect(n)
	x1, y1 := int(r.X), int(r.Y)
	x2, y2 := int(r.X+r.Width), int(r.Y+r.Height)

	fillRect(out, x1, y1, x2, y2, tokens.StatusColor(n.Status))
	outline := tokens.ConnectionLine
	thickness := 1
	if selected {
		outline = tokens.Highlight
		thickness = 2 * lineThickness
	}
	drawRectOutline(out, x1, y1, x2, y2, outline, thickness)
	drawText(out, n.Name, x1+nodePadX, y1+nodePadY, tokens.NodeText)

	// Per-VLAN indicator squares under the box, in schema order.
	x := x1
	y := y2 + vlanGap
	for _, key := range nc.scene.VLANOrder {
		st, ok := n.VLANStatus[key]
		if !ok {
			st = scene.StatusDefault
		}
		fillRect(out, x, y, x+vlanSquare, y+vlanSquare, tokens.StatusColor(st))
		drawRectOutline(out, x, y, x+vlanSquare, y+vlanSquare, tokens.ConnectionLine, 1)
		x += vlanSquare + vlanGap
	}
}

// drawHandles draws the Configuration-only transient items: waypoint
// circles and, when resize is on, the selected group's corner squares.
func (nc *NetworkCanvas) drawHandles(out *image.RGBA, tokens *app.TokenSet) {
	for _, c := range nc.scene.Connections {
		for _, wp := range c.Waypoints {
			drawCircle(out, int(wp.X), int(wp.Y), handleRadius, tokens.Accent)
		}
	}

	if !nc.state.ResizeMode() {
		return
	}
	g := nc.selectedGroup()
	if g == nil {
		return
	}
	for _, corner := range g.Corners() {
		x, y := int(corner.X), int(corner.Y)
		fillRect(out, x-cornerSize/2, y-cornerSize/2,
			x+cornerSize/2, y+cornerSize/2, tokens.Highlight)
		drawRectOutline(out, x-cornerSize/2, y-cornerSize/2,
			x+cornerSize/2, y+cornerSize/2, tokens.ConnectionLine, 1)
	}
}

func setPx(img *image.RGBA, x, y int, col color.RGBA) {
	b := img.Bounds()
	if x >= b.Min.X && x < b.Max.X && y >= b.Min.Y && y < b.Max.Y {
		img.SetRGBA(x, y, col)
	}
}

func fillRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			setPx(img, x, y, col)
		}
	}
}

func drawRectOutline(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPx(img, x, y1+t, col)
			setPx(img, x, y2-t, col)
		}
		for y := y1; y <= y2; y++ {
			setPx(img, x1+t, y, col)
			setPx(img, x2-t, y, col)
		}
	}
}

func drawDashedRect(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			setPx(img, x, y1, col)
		}
		if (x+y2)%4 < 2 {
			setPx(img, x, y2, col)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			setPx(img, x1, y, col)
		}
		if (x2+y)%4 < 2 {
			setPx(img, x2, y, col)
		}
	}
}

// drawLine draws a thick line using Bresenham's algorithm.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				setPx(img, x1+s, y1+t, col)
			}
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func drawCircle(img *image.RGBA, cx, cy, r int, col color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			ddx, ddy := x-cx, y-cy
			if ddx*ddx+ddy*ddy <= r*r {
				setPx(img, x, y, col)
			}
		}
	}
}
