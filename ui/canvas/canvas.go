// Package canvas provides the network map canvas with pan, zoom, and
// mode-gated pointer interaction.
package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/google/uuid"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	panStep       = 25
	contentMargin = 200
)

// ContextTarget names what a right-click landed on.
type ContextTarget struct {
	Node       *scene.Node
	Connection *scene.Connection
	Note       *scene.StickyNote
	Group      *scene.Group
}

// NetworkCanvas renders the scene into a raster and translates pointer
// events into scene mutations according to the active mode.
type NetworkCanvas struct {
	widget.BaseWidget

	scene *scene.Scene
	state *app.State
	theme *app.NetworkTheme

	raster  *fynecanvas.Raster
	content *canvasContent
	scroll  *container.Scroll

	zoom      float64
	shiftDown bool

	drag dragState

	panning  bool
	panMoved bool
	panLast  fyne.Position

	// Callbacks into the window layer.
	OnProbeNode     func(n *scene.Node)
	OnCreateNode    func(at geometry.Point2D)
	OnCreateNote    func(at geometry.Point2D)
	OnNewConnection func(from, to *scene.Node)
	OnContextMenu   func(target ContextTarget, at geometry.Point2D, abs fyne.Position)
	OnGroupDrawn    func(g *scene.Group)
	OnBeforeZoom    func()
	OnLabelHover    func(c *scene.Connection, abs fyne.Position)

	hoverConn *scene.Connection
}

type dragKind int

const (
	dragNone dragKind = iota
	dragNode
	dragWaypoint
	dragLabel
	dragGroupDraw
	dragGroupResize
)

// dragState stores the entity under drag plus its coordinates at press
// time; positions are updated from the delta to the initial event point.
type dragState struct {
	kind dragKind

	node    *scene.Node
	conn    *scene.Connection
	wpIndex int
	group   *scene.Group
	corner  int

	origin   geometry.Point2D
	startPos geometry.Point2D
	rect0    [4]float64
	cur      geometry.Point2D
}

// New creates the canvas over the given scene and application state.
func New(sc *scene.Scene, st *app.State, th *app.NetworkTheme) *NetworkCanvas {
	nc := &NetworkCanvas{
		scene: sc,
		state: st,
		theme: th,
		zoom:  1.0,
	}

	nc.raster = fynecanvas.NewRaster(nc.draw)
	nc.raster.ScaleMode = fynecanvas.ImageScalePixels
	nc.content = newCanvasContent(nc, nc.raster)
	nc.scroll = container.NewScroll(nc.content)
	nc.scroll.Direction = container.ScrollBoth

	redraw := func(interface{}) { nc.Refresh() }
	for _, ev := range []scene.EventType{
		scene.EventNodesChanged, scene.EventConnectionsChanged,
		scene.EventNotesChanged, scene.EventGroupsChanged,
		scene.EventStatusChanged, scene.EventCleared, scene.EventLoaded,
	} {
		sc.On(ev, redraw)
	}
	st.On(app.EventModeChanged, redraw)
	st.On(app.EventSelectionChanged, redraw)
	st.On(app.EventThemeChanged, redraw)
	st.On(app.EventResizeModeChanged, redraw)
	st.On(app.EventDraftChanged, redraw)

	nc.updateContentSize()
	nc.ExtendBaseWidget(nc)
	return nc
}

// Container returns the scrollable canvas for embedding in layouts.
func (nc *NetworkCanvas) Container() fyne.CanvasObject {
	return nc.scroll
}

// Zoom returns the current zoom scalar.
func (nc *NetworkCanvas) Zoom() float64 {
	return nc.zoom
}

// SetShiftDown tracks the shift modifier; the window layer feeds key
// events here because pointer events carry no modifier state.
func (nc *NetworkCanvas) SetShiftDown(down bool) {
	nc.shiftDown = down
}

// ZoomAt scales every scene coordinate about center by f, clamped so the
// cumulative zoom stays within limits.
func (nc *NetworkCanvas) ZoomAt(center geometry.Point2D, f float64) {
	target := nc.zoom * f
	if target < minZoom {
		target = minZoom
	}
	if target > maxZoom {
		target = maxZoom
	}
	f = target / nc.zoom
	if f == 1 {
		return
	}
	if nc.OnBeforeZoom != nil {
		nc.OnBeforeZoom()
	}
	nc.scene.ZoomAbout(center, f)
	nc.zoom = target
	nc.updateContentSize()
	nc.Refresh()
}

// ZoomIn zooms one step about the scene center.
func (nc *NetworkCanvas) ZoomIn() {
	nc.ZoomAt(nc.scene.BoundingBox().Center(), zoomStep)
}

// ZoomOut zooms out one step about the scene center.
func (nc *NetworkCanvas) ZoomOut() {
	nc.ZoomAt(nc.scene.BoundingBox().Center(), 1/zoomStep)
}

// ZoomReset returns zoom to 1.0 by applying the inverse about the scene
// center.
func (nc *NetworkCanvas) ZoomReset() {
	if nc.zoom == 1.0 {
		return
	}
	nc.ZoomAt(nc.scene.BoundingBox().Center(), 1/nc.zoom)
}

// ResetView restores zoom bookkeeping after a document load replaced the
// scene contents.
func (nc *NetworkCanvas) ResetView() {
	nc.zoom = 1.0
	nc.scroll.Offset = fyne.Position{}
	nc.updateContentSize()
	nc.Refresh()
}

// Nudge pans the viewport by the given number of steps.
func (nc *NetworkCanvas) Nudge(dx, dy int) {
	off := nc.scroll.Offset
	off.X += float32(dx * panStep)
	off.Y += float32(dy * panStep)
	if off.X < 0 {
		off.X = 0
	}
	if off.Y < 0 {
		off.Y = 0
	}
	nc.scroll.Offset = off
	nc.scroll.Refresh()
}

// Refresh redraws the raster.
func (nc *NetworkCanvas) Refresh() {
	nc.raster.Refresh()
}

func (nc *NetworkCanvas) updateContentSize() {
	bbox := nc.scene.BoundingBox()
	w := float32(bbox.X+bbox.Width) + contentMargin
	h := float32(bbox.Y+bbox.Height) + contentMargin
	if w < 800 {
		w = 800
	}
	if h < 600 {
		h = 600
	}
	size := fyne.NewSize(w, h)
	nc.raster.SetMinSize(size)
	nc.raster.Resize(size)
	if nc.content != nil {
		nc.content.Resize(size)
	}
	if nc.scroll != nil {
		nc.scroll.Refresh()
	}
}

func pt(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

// CreateRenderer implements fyne.Widget.
func (nc *NetworkCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(nc.scroll)
}

// canvasContent wraps the raster to receive pointer events.
type canvasContent struct {
	widget.BaseWidget
	canvas *NetworkCanvas
	raster *fynecanvas.Raster
}

var (
	_ fyne.Tappable          = (*canvasContent)(nil)
	_ fyne.SecondaryTappable = (*canvasContent)(nil)
	_ fyne.DoubleTappable    = (*canvasContent)(nil)
	_ fyne.Draggable         = (*canvasContent)(nil)
	_ fyne.Scrollable        = (*canvasContent)(nil)
	_ desktop.Mouseable      = (*canvasContent)(nil)
	_ desktop.Hoverable      = (*canvasContent)(nil)
)

func newCanvasContent(nc *NetworkCanvas, raster *fynecanvas.Raster) *canvasContent {
	cc := &canvasContent{canvas: nc, raster: raster}
	cc.ExtendBaseWidget(cc)
	return cc
}

func (cc *canvasContent) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(cc.raster)
}

func (cc *canvasContent) MinSize() fyne.Size {
	return cc.raster.MinSize()
}

// Tapped handles left click.
func (cc *canvasContent) Tapped(ev *fyne.PointEvent) {
	nc := cc.canvas
	p := pt(ev.Position)

	if nc.state.Mode() == app.ModeOperator {
		if n := nc.nodeAt(p); n != nil && nc.OnProbeNode != nil {
			nc.OnProbeNode(n)
		}
		return
	}

	if nc.state.GroupsMode() {
		// Selecting groups is suppressed while resize is active.
		if nc.state.ResizeMode() {
			return
		}
		if g := nc.scene.GroupAt(p); g != nil {
			nc.state.SelectGroup(g.ID)
		}
		return
	}

	if n := nc.nodeAt(p); n != nil {
		nc.state.SelectNode(n.ID)
	} else {
		nc.state.SelectNode(uuid.Nil)
	}
}

// DoubleTapped opens the create-node dialog on empty canvas, or the
// create-sticky dialog with shift held.
func (cc *canvasContent) DoubleTapped(ev *fyne.PointEvent) {
	nc := cc.canvas
	if !nc.state.CanEdit() || nc.state.GroupsMode() {
		return
	}
	p := pt(ev.Position)
	if nc.nodeAt(p) != nil || nc.noteAt(p) != nil {
		return
	}
	if nc.shiftDown {
		if nc.OnCreateNote != nil {
			nc.OnCreateNote(p)
		}
	} else if nc.OnCreateNode != nil {
		nc.OnCreateNode(p)
	}
}

// TappedSecondary handles right click: waypoint deletion in Configuration,
// context menus otherwise.
func (cc *canvasContent) TappedSecondary(ev *fyne.PointEvent) {
	nc := cc.canvas
	if nc.panMoved {
		nc.panMoved = false
		return
	}
	p := pt(ev.Position)

	if nc.state.CanEdit() {
		if conn, idx, ok := nc.waypointAt(p); ok {
			conn.RemoveWaypoint(idx)
			nc.scene.Emit(scene.EventConnectionsChanged, conn)
			nc.state.SetModified(true)
			nc.Refresh()
			return
		}
	}

	if nc.OnContextMenu == nil {
		return
	}
	var target ContextTarget
	switch {
	case nc.nodeAt(p) != nil:
		target.Node = nc.nodeAt(p)
	case nc.connectionAt(p) != nil:
		target.Connection = nc.connectionAt(p)
	case nc.noteAt(p) != nil:
		target.Note = nc.noteAt(p)
	case nc.scene.GroupAt(p) != nil:
		target.Group = nc.scene.GroupAt(p)
	}
	nc.OnContextMenu(target, p, ev.AbsolutePosition)
}

// MouseDown handles middle click (connection drafting, waypoints) and
// starts right-button panning.
func (cc *canvasContent) MouseDown(ev *desktop.MouseEvent) {
	nc := cc.canvas
	switch ev.Button {
	case desktop.MouseButtonTertiary:
		nc.handleMiddleClick(pt(ev.Position))
	case desktop.MouseButtonSecondary:
		nc.panning = true
		nc.panMoved = false
		nc.panLast = ev.AbsolutePosition
	}
}

func (cc *canvasContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonSecondary {
		cc.canvas.panning = false
	}
}

func (cc *canvasContent) MouseIn(*desktop.MouseEvent) {}

func (cc *canvasContent) MouseOut() {
	nc := cc.canvas
	nc.panning = false
	if nc.hoverConn != nil {
		nc.hoverConn = nil
		if nc.OnLabelHover != nil {
			nc.OnLabelHover(nil, fyne.Position{})
		}
	}
}

// MouseMoved applies right-drag panning via the scroll offset, and tracks
// hover over connection labels for the info popup.
func (cc *canvasContent) MouseMoved(ev *desktop.MouseEvent) {
	nc := cc.canvas
	if !nc.panning {
		conn := nc.labelAt(pt(ev.Position))
		if conn != nil && conn.Info == "" {
			conn = nil
		}
		if conn != nc.hoverConn {
			nc.hoverConn = conn
			if nc.OnLabelHover != nil {
				nc.OnLabelHover(conn, ev.AbsolutePosition)
			}
		}
		return
	}
	dx := ev.AbsolutePosition.X - nc.panLast.X
	dy := ev.AbsolutePosition.Y - nc.panLast.Y
	if dx == 0 && dy == 0 {
		return
	}
	nc.panLast = ev.AbsolutePosition
	nc.panMoved = true

	off := nc.scroll.Offset
	off.X -= dx
	off.Y -= dy
	if off.X < 0 {
		off.X = 0
	}
	if off.Y < 0 {
		off.Y = 0
	}
	nc.scroll.Offset = off
	nc.scroll.Refresh()
}

func (nc *NetworkCanvas) handleMiddleClick(p geometry.Point2D) {
	if !nc.state.CanEdit() {
		return
	}

	if n := nc.nodeAt(p); n != nil {
		draft := nc.state.Draft()
		if draft.Phase == app.DraftAwaitingSecond {
			if draft.Start == n.ID {
				return // remain in AwaitingSecond
			}
			startID, ok := nc.state.CompleteDraft()
			if !ok {
				return
			}
			if from := nc.scene.NodeByID(startID); from != nil && nc.OnNewConnection != nil {
				nc.OnNewConnection(from, n)
			}
		} else {
			nc.state.StartDraft(n.ID)
		}
		nc.Refresh()
		return
	}

	if conn := nc.connectionAt(p); conn != nil {
		if nc.shiftDown {
			nc.scene.RemoveConnection(conn)
		} else {
			conn.InsertWaypoint(p)
			nc.scene.Emit(scene.EventConnectionsChanged, conn)
		}
		nc.state.SetModified(true)
		nc.Refresh()
		return
	}

	nc.state.CancelDraft()
	nc.Refresh()
}

// Scrolled zooms at the cursor point.
func (cc *canvasContent) Scrolled(ev *fyne.ScrollEvent) {
	nc := cc.canvas
	cursor := pt(ev.Position)
	if ev.Scrolled.DY > 0 {
		nc.ZoomAt(cursor, zoomStep)
	} else if ev.Scrolled.DY < 0 {
		nc.ZoomAt(cursor, 1/zoomStep)
	}
}

// Dragged routes primary-button drags to the entity under the press point.
func (cc *canvasContent) Dragged(ev *fyne.DragEvent) {
	nc := cc.canvas
	cur := pt(ev.Position)

	if nc.drag.kind == dragNone {
		start := geometry.Point2D{
			X: float64(ev.Position.X - ev.Dragged.DX),
			Y: float64(ev.Position.Y - ev.Dragged.DY),
		}
		nc.beginDrag(start)
		if nc.drag.kind == dragNone {
			return
		}
	}

	d := &nc.drag
	d.cur = cur
	delta := cur.Sub(d.origin)

	switch d.kind {
	case dragNode:
		d.node.Pos = d.startPos.Add(delta)
	case dragWaypoint:
		if d.wpIndex < len(d.conn.Waypoints) {
			d.conn.Waypoints[d.wpIndex] = d.startPos.Add(delta)
		}
	case dragLabel:
		d.conn.SetLabelPos(d.conn.Polyline().Project(cur))
	case dragGroupResize:
		nc.applyCornerDrag(delta)
	}
	nc.Refresh()
}

func (nc *NetworkCanvas) beginDrag(start geometry.Point2D) {
	if !nc.state.CanEdit() {
		return
	}
	d := &nc.drag
	d.origin = start
	d.cur = start

	if nc.state.ResizeMode() {
		if g := nc.selectedGroup(); g != nil {
			if corner := nc.cornerAt(g, start); corner >= 0 {
				d.kind = dragGroupResize
				d.group = g
				d.corner = corner
				d.rect0 = [4]float64{g.X1, g.Y1, g.X2, g.Y2}
				return
			}
		}
		return
	}

	if nc.state.GroupsMode() {
		if nc.scene.GroupAt(start) == nil {
			d.kind = dragGroupDraw
		}
		return
	}

	if conn, idx, ok := nc.waypointAt(start); ok {
		d.kind = dragWaypoint
		d.conn = conn
		d.wpIndex = idx
		d.startPos = conn.Waypoints[idx]
		return
	}
	if conn := nc.labelAt(start); conn != nil {
		d.kind = dragLabel
		d.conn = conn
		return
	}
	if n := nc.nodeAt(start); n != nil {
		d.kind = dragNode
		d.node = n
		d.startPos = n.Pos
		nc.state.SelectNode(n.ID)
		return
	}
}

// applyCornerDrag moves one corner of the group by the drag delta; the
// opposite corner stays fixed.
func (nc *NetworkCanvas) applyCornerDrag(delta geometry.Point2D) {
	d := &nc.drag
	g := d.group
	x1, y1, x2, y2 := d.rect0[0], d.rect0[1], d.rect0[2], d.rect0[3]
	switch d.corner {
	case 0: // top-left
		g.X1, g.Y1, g.X2, g.Y2 = x1+delta.X, y1+delta.Y, x2, y2
	case 1: // top-right
		g.X1, g.Y1, g.X2, g.Y2 = x1, y1+delta.Y, x2+delta.X, y2
	case 2: // bottom-left
		g.X1, g.Y1, g.X2, g.Y2 = x1+delta.X, y1, x2, y2+delta.Y
	case 3: // bottom-right
		g.X1, g.Y1, g.X2, g.Y2 = x1, y1, x2+delta.X, y2+delta.Y
	}
}

// DragEnd commits the in-flight drag.
func (cc *canvasContent) DragEnd() {
	nc := cc.canvas
	d := nc.drag
	nc.drag = dragState{}

	switch d.kind {
	case dragNone:
		return
	case dragNode:
		nc.scene.Emit(scene.EventNodesChanged, d.node)
	case dragWaypoint, dragLabel:
		nc.scene.Emit(scene.EventConnectionsChanged, d.conn)
	case dragGroupDraw:
		r := geometry.RectFromCorners(d.origin.X, d.origin.Y, d.cur.X, d.cur.Y)
		if r.Width < 4 || r.Height < 4 {
			nc.Refresh()
			return
		}
		g := nc.scene.AddGroup("Group", r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		if len(nc.scene.Presets) > 0 {
			g.PresetID = nc.scene.Presets[0].ID
		}
		nc.state.SelectGroup(g.ID)
		if nc.OnGroupDrawn != nil {
			nc.OnGroupDrawn(g)
		}
	case dragGroupResize:
		d.group.Normalize()
		nc.scene.Emit(scene.EventGroupsChanged, d.group)
	}
	nc.state.SetModified(true)
	nc.Refresh()
}

func (nc *NetworkCanvas) selectedGroup() *scene.Group {
	id := nc.state.SelectedGroup()
	if id == uuid.Nil {
		return nil
	}
	for _, g := range nc.scene.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}
