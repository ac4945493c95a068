package scene

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"nodesailor/pkg/geometry"
)

// Layer identifies a z-order stratum. The renderer draws layers in
// ascending order after every structural change.
type Layer int

const (
	LayerGroups Layer = iota
	LayerConnectionLines
	LayerConnectionLabels
	LayerNotes
	LayerNodes
	LayerHandles
)

// EventType identifies scene change notifications.
type EventType int

const (
	EventNodesChanged EventType = iota
	EventConnectionsChanged
	EventNotesChanged
	EventGroupsChanged
	EventVLANSchemaChanged
	EventStatusChanged
	EventCleared
	EventLoaded
	EventModified
)

// EventListener is called when an event occurs. The data argument depends on
// the event type and may be nil.
type EventListener func(data interface{})

var (
	// ErrSelfConnection is returned when both endpoints are the same node.
	ErrSelfConnection = errors.New("connection endpoints must be distinct nodes")
	// ErrDuplicateConnection is returned when the two nodes are already wired.
	ErrDuplicateConnection = errors.New("nodes are already connected")
)

// Scene is the network map. It exclusively owns every entity; all mutation
// happens on the UI thread.
type Scene struct {
	Nodes       []*Node
	Connections []*Connection
	Notes       []*StickyNote
	Groups      []*Group

	// VLAN schema: display names keyed by VLAN key, plus the display order.
	// Order always contains exactly the keys of VLANLabels.
	VLANLabels map[string]string
	VLANOrder  []string

	Presets []ColorPreset

	// Editor window height hints persisted with the document.
	GroupWindowHeight int
	NodeWindowHeight  int

	listeners map[EventType][]EventListener
}

// DefaultVLANKeys is the schema given to a brand-new map.
var DefaultVLANKeys = []string{"VLAN_100", "VLAN_200", "VLAN_300", "VLAN_400"}

// New creates an empty scene with the default VLAN schema and built-in
// group color presets.
func New() *Scene {
	s := &Scene{
		VLANLabels: make(map[string]string, len(DefaultVLANKeys)),
		Presets:    DefaultPresets(),
		listeners:  make(map[EventType][]EventListener),
	}
	for _, key := range DefaultVLANKeys {
		s.VLANLabels[key] = key
		s.VLANOrder = append(s.VLANOrder, key)
	}
	return s
}

// On registers an event listener for the specified event type. The returned
// function unregisters it; windows that re-open must call it on close so
// listeners do not accumulate.
func (s *Scene) On(event EventType, listener EventListener) func() {
	if s.listeners == nil {
		s.listeners = make(map[EventType][]EventListener)
	}
	idx := len(s.listeners[event])
	s.listeners[event] = append(s.listeners[event], listener)
	return func() { s.listeners[event][idx] = nil }
}

// Emit triggers all listeners for the specified event type.
func (s *Scene) Emit(event EventType, data interface{}) {
	for _, listener := range s.listeners[event] {
		if listener != nil {
			listener(data)
		}
	}
}

// AddNode creates a node at pos with empty addresses for the current schema.
func (s *Scene) AddNode(name string, pos geometry.Point2D) *Node {
	n := NewNode(name, pos, s.VLANOrder)
	s.Nodes = append(s.Nodes, n)
	s.Emit(EventNodesChanged, n)
	s.Emit(EventModified, nil)
	return n
}

// AttachNode inserts an already-built node, backfilling missing VLAN keys.
// Used by the document loader.
func (s *Scene) AttachNode(n *Node) {
	if n.VLANs == nil {
		n.VLANs = make(map[string]string, len(s.VLANOrder))
	}
	if n.VLANStatus == nil {
		n.VLANStatus = make(map[string]Status)
	}
	for _, key := range s.VLANOrder {
		if _, ok := n.VLANs[key]; !ok {
			n.VLANs[key] = ""
		}
	}
	s.Nodes = append(s.Nodes, n)
}

// RemoveNode deletes a node and every connection incident to it.
func (s *Scene) RemoveNode(n *Node) {
	kept := s.Connections[:0]
	removed := false
	for _, c := range s.Connections {
		if c.Touches(n) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.Connections = kept

	for i, cand := range s.Nodes {
		if cand == n {
			s.Nodes = append(s.Nodes[:i], s.Nodes[i+1:]...)
			break
		}
	}
	if removed {
		s.Emit(EventConnectionsChanged, nil)
	}
	s.Emit(EventNodesChanged, nil)
	s.Emit(EventModified, nil)
}

// NodeByID returns the node with the given handle, or nil if it has been
// destroyed. Probe results use this as the liveness check.
func (s *Scene) NodeByID(id uuid.UUID) *Node {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeByName returns the first node with the given display name, or nil.
func (s *Scene) NodeByName(name string) *Node {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// NodeIndex returns n's position in the ordered node list, or -1.
func (s *Scene) NodeIndex(n *Node) int {
	for i, cand := range s.Nodes {
		if cand == n {
			return i
		}
	}
	return -1
}

// ConnectionBetween returns the connection joining a and b, or nil.
func (s *Scene) ConnectionBetween(a, b *Node) *Connection {
	for _, c := range s.Connections {
		if (c.From == a && c.To == b) || (c.From == b && c.To == a) {
			return c
		}
	}
	return nil
}

// AddConnection wires two distinct nodes. The label position defaults to
// the midpoint of the line.
func (s *Scene) AddConnection(from, to *Node, label, info string) (*Connection, error) {
	if from == nil || to == nil || from == to {
		return nil, ErrSelfConnection
	}
	if s.ConnectionBetween(from, to) != nil {
		return nil, ErrDuplicateConnection
	}
	c := &Connection{
		ID:       uuid.New(),
		From:     from,
		To:       to,
		Label:    label,
		Info:     info,
		LabelPos: 0.5,
	}
	s.Connections = append(s.Connections, c)
	s.Emit(EventConnectionsChanged, c)
	s.Emit(EventModified, nil)
	return c, nil
}

// AttachConnection inserts an already-built connection without duplicate or
// self-edge checks beyond the endpoint identity rule. Used by the loader.
func (s *Scene) AttachConnection(c *Connection) error {
	if c.From == nil || c.To == nil || c.From == c.To {
		return ErrSelfConnection
	}
	s.Connections = append(s.Connections, c)
	return nil
}

// RemoveConnection deletes a connection.
func (s *Scene) RemoveConnection(c *Connection) {
	for i, cand := range s.Connections {
		if cand == c {
			s.Connections = append(s.Connections[:i], s.Connections[i+1:]...)
			s.Emit(EventConnectionsChanged, nil)
			s.Emit(EventModified, nil)
			return
		}
	}
}

// AddNote creates a sticky note.
func (s *Scene) AddNote(text string, pos geometry.Point2D) *StickyNote {
	note := NewStickyNote(text, pos)
	s.Notes = append(s.Notes, note)
	s.Emit(EventNotesChanged, note)
	s.Emit(EventModified, nil)
	return note
}

// RemoveNote deletes a sticky note.
func (s *Scene) RemoveNote(note *StickyNote) {
	for i, cand := range s.Notes {
		if cand == note {
			s.Notes = append(s.Notes[:i], s.Notes[i+1:]...)
			s.Emit(EventNotesChanged, nil)
			s.Emit(EventModified, nil)
			return
		}
	}
}

// AddGroup creates a normalized group rectangle.
func (s *Scene) AddGroup(name string, x1, y1, x2, y2 float64) *Group {
	g := NewGroup(name, x1, y1, x2, y2)
	s.Groups = append(s.Groups, g)
	s.Emit(EventGroupsChanged, g)
	s.Emit(EventModified, nil)
	return g
}

// RemoveGroup deletes a group.
func (s *Scene) RemoveGroup(g *Group) {
	for i, cand := range s.Groups {
		if cand == g {
			s.Groups = append(s.Groups[:i], s.Groups[i+1:]...)
			s.Emit(EventGroupsChanged, nil)
			s.Emit(EventModified, nil)
			return
		}
	}
}

// GroupAt returns the topmost group containing p, or nil.
func (s *Scene) GroupAt(p geometry.Point2D) *Group {
	for i := len(s.Groups) - 1; i >= 0; i-- {
		if s.Groups[i].Contains(p) {
			return s.Groups[i]
		}
	}
	return nil
}

// PresetByID returns the color preset with the given id, or nil.
func (s *Scene) PresetByID(id string) *ColorPreset {
	for i := range s.Presets {
		if s.Presets[i].ID == id {
			return &s.Presets[i]
		}
	}
	return nil
}

// Clear removes every entity and resets probe state, leaving the VLAN
// schema and presets intact.
func (s *Scene) Clear() {
	s.Nodes = nil
	s.Connections = nil
	s.Notes = nil
	s.Groups = nil
	s.Emit(EventCleared, nil)
}

// Adopt replaces this scene's contents with those of src, keeping the
// registered listeners. Emits Cleared then Loaded.
func (s *Scene) Adopt(src *Scene) {
	s.Nodes = src.Nodes
	s.Connections = src.Connections
	s.Notes = src.Notes
	s.Groups = src.Groups
	s.VLANLabels = src.VLANLabels
	s.VLANOrder = src.VLANOrder
	s.Presets = src.Presets
	s.GroupWindowHeight = src.GroupWindowHeight
	s.NodeWindowHeight = src.NodeWindowHeight
	s.Emit(EventCleared, nil)
	s.Emit(EventLoaded, nil)
}

// SetVLANSchema replaces the VLAN labels and order. Keys absent from the new
// schema are dropped from every node; new keys are propagated with empty
// addresses. The stored order is the given order filtered to known keys,
// with any missing keys appended in sorted order.
func (s *Scene) SetVLANSchema(labels map[string]string, order []string) {
	s.VLANLabels = make(map[string]string, len(labels))
	for key, name := range labels {
		s.VLANLabels[key] = name
	}
	s.VLANOrder = ReconcileOrder(labels, order)

	for _, n := range s.Nodes {
		for key := range n.VLANs {
			if _, ok := s.VLANLabels[key]; !ok {
				delete(n.VLANs, key)
				delete(n.VLANStatus, key)
			}
		}
		for _, key := range s.VLANOrder {
			if _, ok := n.VLANs[key]; !ok {
				n.VLANs[key] = ""
			}
		}
	}
	s.Emit(EventVLANSchemaChanged, nil)
	s.Emit(EventModified, nil)
}

// ReconcileOrder filters order to the keys of labels, dropping unknown and
// duplicate entries, then appends any missing keys in sorted order.
func ReconcileOrder(labels map[string]string, order []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, key := range order {
		if _, ok := labels[key]; ok && !seen[key] {
			out = append(out, key)
			seen[key] = true
		}
	}
	var missing []string
	for key := range labels {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return append(out, missing...)
}

// ApplyProbeResult sets a node's probe state atomically. It returns false
// when the node is no longer in the scene, in which case the stale result
// is discarded.
func (s *Scene) ApplyProbeResult(id uuid.UUID, status Status, vlanStatus map[string]Status) bool {
	n := s.NodeByID(id)
	if n == nil {
		return false
	}
	n.Status = status
	n.VLANStatus = vlanStatus
	s.Emit(EventStatusChanged, n)
	return true
}

// ClearStatus resets probe state on every node.
func (s *Scene) ClearStatus() {
	for _, n := range s.Nodes {
		n.ClearStatus()
	}
	s.Emit(EventStatusChanged, nil)
}

// NodesMatchingAddrs returns every node carrying any of the given addresses.
// Used by the "Who am I?" highlight; multiple matches are all returned.
func (s *Scene) NodesMatchingAddrs(addrs map[string]bool) []*Node {
	var matches []*Node
	for _, n := range s.Nodes {
		for _, v := range n.VLANs {
			if v != "" && addrs[v] {
				matches = append(matches, n)
				break
			}
		}
	}
	return matches
}

// BoundingBox returns the bounding box of every positioned entity.
func (s *Scene) BoundingBox() geometry.Rect {
	var pts []geometry.Point2D
	for _, n := range s.Nodes {
		pts = append(pts, n.Pos)
	}
	for _, c := range s.Connections {
		pts = append(pts, c.Waypoints...)
	}
	for _, note := range s.Notes {
		pts = append(pts, note.Pos)
	}
	for _, g := range s.Groups {
		pts = append(pts, geometry.Point2D{X: g.X1, Y: g.Y1}, geometry.Point2D{X: g.X2, Y: g.Y2})
	}
	return geometry.BoundingBox(pts)
}

// ZoomAbout rescales every entity coordinate by factor f about center.
func (s *Scene) ZoomAbout(center geometry.Point2D, f float64) {
	for _, n := range s.Nodes {
		n.Pos = n.Pos.ZoomAbout(center, f)
	}
	for _, c := range s.Connections {
		for i, wp := range c.Waypoints {
			c.Waypoints[i] = wp.ZoomAbout(center, f)
		}
	}
	for _, note := range s.Notes {
		note.Pos = note.Pos.ZoomAbout(center, f)
	}
	for _, g := range s.Groups {
		p1 := geometry.Point2D{X: g.X1, Y: g.Y1}.ZoomAbout(center, f)
		p2 := geometry.Point2D{X: g.X2, Y: g.Y2}.ZoomAbout(center, f)
		g.X1, g.Y1, g.X2, g.Y2 = p1.X, p1.Y, p2.X, p2.Y
		g.Normalize()
	}
}

// Pan shifts every entity coordinate by (dx, dy).
func (s *Scene) Pan(dx, dy float64) {
	delta := geometry.Point2D{X: dx, Y: dy}
	for _, n := range s.Nodes {
		n.Pos = n.Pos.Add(delta)
	}
	for _, c := range s.Connections {
		for i, wp := range c.Waypoints {
			c.Waypoints[i] = wp.Add(delta)
		}
	}
	for _, note := range s.Notes {
		note.Pos = note.Pos.Add(delta)
	}
	for _, g := range s.Groups {
		g.X1 += dx
		g.X2 += dx
		g.Y1 += dy
		g.Y2 += dy
	}
}
