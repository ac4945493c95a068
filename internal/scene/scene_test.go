package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nodesailor/pkg/geometry"
)

func TestAddConnectionRejectsSelfEdge(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{X: 0, Y: 0})

	_, err := s.AddConnection(a, a, "", "")
	require.ErrorIs(t, err, ErrSelfConnection)

	_, err = s.AddConnection(a, nil, "", "")
	require.ErrorIs(t, err, ErrSelfConnection)
	require.Empty(t, s.Connections)
}

func TestAddConnectionRejectsDuplicate(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{X: 0, Y: 0})
	b := s.AddNode("B", geometry.Point2D{X: 100, Y: 0})

	c, err := s.AddConnection(a, b, "link", "")
	require.NoError(t, err)
	require.Equal(t, 0.5, c.LabelPos)

	_, err = s.AddConnection(a, b, "again", "")
	require.ErrorIs(t, err, ErrDuplicateConnection)

	// Also rejected in the reverse direction.
	_, err = s.AddConnection(b, a, "again", "")
	require.ErrorIs(t, err, ErrDuplicateConnection)
	require.Len(t, s.Connections, 1)
}

func TestRemoveNodeCascadesConnections(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{X: 0, Y: 0})
	b := s.AddNode("B", geometry.Point2D{X: 100, Y: 0})
	c := s.AddNode("C", geometry.Point2D{X: 200, Y: 0})

	_, err := s.AddConnection(a, b, "", "")
	require.NoError(t, err)
	_, err = s.AddConnection(b, c, "", "")
	require.NoError(t, err)
	keep, err := s.AddConnection(a, c, "", "")
	require.NoError(t, err)

	s.RemoveNode(b)

	require.Len(t, s.Nodes, 2)
	require.Len(t, s.Connections, 1)
	require.Same(t, keep, s.Connections[0])
	require.Nil(t, s.NodeByID(b.ID))
}

func TestNewNodeCarriesVLANSchema(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{})

	require.Len(t, n.VLANs, len(DefaultVLANKeys))
	for _, key := range DefaultVLANKeys {
		v, ok := n.VLANs[key]
		require.True(t, ok, "missing key %s", key)
		require.Empty(t, v)
	}
}

func TestSetVLANSchemaPropagates(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{})
	a.VLANs["VLAN_100"] = "10.0.0.1"
	a.VLANs["VLAN_200"] = "10.0.1.1"
	a.VLANStatus["VLAN_200"] = StatusSuccess

	s.SetVLANSchema(map[string]string{
		"VLAN_100": "Production",
		"VLAN_900": "Lab",
	}, []string{"VLAN_900", "VLAN_100"})

	require.Equal(t, []string{"VLAN_900", "VLAN_100"}, s.VLANOrder)

	// Dropped key removed from node state, new key backfilled empty.
	require.NotContains(t, a.VLANs, "VLAN_200")
	require.NotContains(t, a.VLANStatus, "VLAN_200")
	require.Equal(t, "10.0.0.1", a.VLANs["VLAN_100"])
	require.Equal(t, "", a.VLANs["VLAN_900"])
}

func TestReconcileOrder(t *testing.T) {
	labels := map[string]string{"A": "a", "B": "b", "C": "c"}

	// Unknown and duplicate entries dropped, missing keys appended sorted.
	got := ReconcileOrder(labels, []string{"B", "X", "B"})
	require.Equal(t, []string{"B", "A", "C"}, got)

	require.Equal(t, []string{"A", "B", "C"}, ReconcileOrder(labels, nil))
	require.Empty(t, ReconcileOrder(nil, []string{"A"}))
}

func TestApplyProbeResultDiscardsStale(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{})
	id := n.ID

	require.True(t, s.ApplyProbeResult(id, StatusSuccess, map[string]Status{"VLAN_100": StatusSuccess}))
	require.Equal(t, StatusSuccess, n.Status)

	s.RemoveNode(n)
	require.False(t, s.ApplyProbeResult(id, StatusFailure, nil))
}

func TestClearStatus(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{})
	n.Status = StatusFailure
	n.VLANStatus["VLAN_100"] = StatusFailure

	s.ClearStatus()

	require.Equal(t, StatusDefault, n.Status)
	require.Empty(t, n.VLANStatus)
}

func TestNodesMatchingAddrs(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{})
	a.VLANs["VLAN_100"] = "192.168.1.10"
	b := s.AddNode("B", geometry.Point2D{})
	b.VLANs["VLAN_200"] = "192.168.1.10"
	c := s.AddNode("C", geometry.Point2D{})
	c.VLANs["VLAN_100"] = "192.168.1.99"

	matches := s.NodesMatchingAddrs(map[string]bool{"192.168.1.10": true})
	require.ElementsMatch(t, []*Node{a, b}, matches)

	require.Empty(t, s.NodesMatchingAddrs(map[string]bool{"": true}))
}

func TestZoomAboutRescalesEverything(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{X: 100, Y: 100})
	b := s.AddNode("B", geometry.Point2D{X: 300, Y: 100})
	conn, err := s.AddConnection(n, b, "", "")
	require.NoError(t, err)
	conn.Waypoints = []geometry.Point2D{{X: 200, Y: 200}}
	note := s.AddNote("hi", geometry.Point2D{X: 50, Y: 50})
	g := s.AddGroup("G", 0, 0, 100, 100)

	s.ZoomAbout(geometry.Point2D{X: 100, Y: 100}, 2)

	require.Equal(t, geometry.Point2D{X: 100, Y: 100}, n.Pos)
	require.Equal(t, geometry.Point2D{X: 500, Y: 100}, b.Pos)
	require.Equal(t, geometry.Point2D{X: 300, Y: 300}, conn.Waypoints[0])
	require.Equal(t, geometry.Point2D{X: 0, Y: 0}, note.Pos)
	require.Equal(t, -100.0, g.X1)
	require.Equal(t, 100.0, g.X2)
}

func TestZoomAboutInverseRestores(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{X: 123, Y: 456})
	center := geometry.Point2D{X: 10, Y: 20}

	s.ZoomAbout(center, 1.25)
	s.ZoomAbout(center, 1/1.25)

	require.InDelta(t, 123, n.Pos.X, 1e-9)
	require.InDelta(t, 456, n.Pos.Y, 1e-9)
}

func TestPanShiftsEverything(t *testing.T) {
	s := New()
	n := s.AddNode("A", geometry.Point2D{X: 10, Y: 10})
	g := s.AddGroup("G", 0, 0, 50, 50)

	s.Pan(5, -5)

	require.Equal(t, geometry.Point2D{X: 15, Y: 5}, n.Pos)
	require.Equal(t, 5.0, g.X1)
	require.Equal(t, -5.0, g.Y1)
}

func TestAdoptKeepsListeners(t *testing.T) {
	dst := New()
	loads := 0
	dst.On(EventLoaded, func(interface{}) { loads++ })

	src := New()
	src.AddNode("A", geometry.Point2D{X: 1, Y: 2})
	src.SetVLANSchema(map[string]string{"VLAN_1": "one"}, []string{"VLAN_1"})

	dst.Adopt(src)

	require.Equal(t, 1, loads)
	require.Len(t, dst.Nodes, 1)
	require.Equal(t, []string{"VLAN_1"}, dst.VLANOrder)
}

func TestClearKeepsSchema(t *testing.T) {
	s := New()
	s.AddNode("A", geometry.Point2D{})
	s.AddNote("n", geometry.Point2D{})
	s.AddGroup("G", 0, 0, 1, 1)

	s.Clear()

	require.Empty(t, s.Nodes)
	require.Empty(t, s.Notes)
	require.Empty(t, s.Groups)
	require.Equal(t, DefaultVLANKeys, s.VLANOrder)
	require.NotEmpty(t, s.Presets)
}

func TestConnectionWaypoints(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{X: 0, Y: 0})
	b := s.AddNode("B", geometry.Point2D{X: 100, Y: 0})
	c, err := s.AddConnection(a, b, "", "")
	require.NoError(t, err)

	// Insert in path order: the second point lands after the first.
	c.InsertWaypoint(geometry.Point2D{X: 30, Y: 10})
	c.InsertWaypoint(geometry.Point2D{X: 70, Y: 10})
	require.Equal(t, []geometry.Point2D{{X: 30, Y: 10}, {X: 70, Y: 10}}, c.Waypoints)

	c.RemoveWaypoint(0)
	require.Equal(t, []geometry.Point2D{{X: 70, Y: 10}}, c.Waypoints)

	// Out-of-range indices are ignored.
	c.RemoveWaypoint(5)
	c.RemoveWaypoint(-1)
	require.Len(t, c.Waypoints, 1)
}

func TestConnectionLabelPoint(t *testing.T) {
	s := New()
	a := s.AddNode("A", geometry.Point2D{X: 0, Y: 0})
	b := s.AddNode("B", geometry.Point2D{X: 100, Y: 0})
	c, err := s.AddConnection(a, b, "", "")
	require.NoError(t, err)

	require.Equal(t, geometry.Point2D{X: 50, Y: 0}, c.LabelPoint())

	c.SetLabelPos(2)
	require.Equal(t, 1.0, c.LabelPos)
	c.SetLabelPos(-1)
	require.Equal(t, 0.0, c.LabelPos)
}

func TestGroupNormalizeAndCorners(t *testing.T) {
	g := NewGroup("G", 100, 100, 0, 0)

	require.Equal(t, 0.0, g.X1)
	require.Equal(t, 0.0, g.Y1)
	require.Equal(t, 100.0, g.X2)
	require.Equal(t, 100.0, g.Y2)

	corners := g.Corners()
	require.Equal(t, geometry.Point2D{X: 0, Y: 0}, corners[0])
	require.Equal(t, geometry.Point2D{X: 100, Y: 0}, corners[1])
	require.Equal(t, geometry.Point2D{X: 0, Y: 100}, corners[2])
	require.Equal(t, geometry.Point2D{X: 100, Y: 100}, corners[3])

	require.True(t, g.Contains(geometry.Point2D{X: 50, Y: 50}))
	require.False(t, g.Contains(geometry.Point2D{X: 150, Y: 50}))
}

func TestGroupAtReturnsTopmost(t *testing.T) {
	s := New()
	bottom := s.AddGroup("bottom", 0, 0, 100, 100)
	top := s.AddGroup("top", 25, 25, 75, 75)

	require.Same(t, top, s.GroupAt(geometry.Point2D{X: 50, Y: 50}))
	require.Same(t, bottom, s.GroupAt(geometry.Point2D{X: 10, Y: 10}))
	require.Nil(t, s.GroupAt(geometry.Point2D{X: 200, Y: 200}))
}

func TestOnReturnsUnregister(t *testing.T) {
	s := New()
	var first, second int
	off := s.On(EventNodesChanged, func(interface{}) { first++ })
	s.On(EventNodesChanged, func(interface{}) { second++ })

	s.AddNode("A", geometry.Point2D{})
	require.Equal(t, 1, first)
	require.Equal(t, 1, second)

	off()
	s.AddNode("B", geometry.Point2D{})
	require.Equal(t, 1, first, "removed listener must not fire again")
	require.Equal(t, 2, second, "remaining listener keeps firing")

	// Re-registering after removal behaves like a fresh listener, and
	// calling the unregister twice is harmless.
	off()
	s.On(EventNodesChanged, func(interface{}) { first++ })
	s.AddNode("C", geometry.Point2D{})
	require.Equal(t, 2, first)
	require.Equal(t, 3, second)
}
