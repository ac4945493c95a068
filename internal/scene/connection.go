package scene

import (
	"github.com/google/uuid"

	"nodesailor/pkg/geometry"
)

// Connection is an undirected edge between two distinct nodes. The stored
// endpoint order is display-only. The rendered line runs from the first
// endpoint through the waypoints to the second.
type Connection struct {
	ID   uuid.UUID
	From *Node
	To   *Node

	Label     string
	Info      string
	Waypoints []geometry.Point2D

	// LabelPos is the fractional arc length along the polyline at which the
	// label is rendered, in [0,1].
	LabelPos float64
}

// Polyline returns the full rendered path: start, waypoints, end.
func (c *Connection) Polyline() geometry.Polyline {
	pl := make(geometry.Polyline, 0, len(c.Waypoints)+2)
	pl = append(pl, c.From.Pos)
	pl = append(pl, c.Waypoints...)
	pl = append(pl, c.To.Pos)
	return pl
}

// LabelPoint returns the canvas position of the connection label.
func (c *Connection) LabelPoint() geometry.Point2D {
	return c.Polyline().PointAt(c.LabelPos)
}

// Other returns the endpoint opposite n, or nil if n is not an endpoint.
func (c *Connection) Other(n *Node) *Node {
	switch n {
	case c.From:
		return c.To
	case c.To:
		return c.From
	}
	return nil
}

// Touches reports whether n is one of the connection's endpoints.
func (c *Connection) Touches(n *Node) bool {
	return c.From == n || c.To == n
}

// SetLabelPos clamps pos to [0,1] and stores it.
func (c *Connection) SetLabelPos(pos float64) {
	if pos < 0 {
		pos = 0
	} else if pos > 1 {
		pos = 1
	}
	c.LabelPos = pos
}

// InsertWaypoint inserts p as a new vertex on the segment of the polyline
// closest to p, keeping the waypoint sequence in path order.
func (c *Connection) InsertWaypoint(p geometry.Point2D) {
	pl := c.Polyline()
	bestSeg := 0
	bestDist := -1.0
	for i := 0; i < len(pl)-1; i++ {
		seg := geometry.Polyline{pl[i], pl[i+1]}
		d := seg.DistanceTo(p)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			bestSeg = i
		}
	}
	// Segment i of the polyline ends before waypoint index i.
	idx := bestSeg
	if idx > len(c.Waypoints) {
		idx = len(c.Waypoints)
	}
	c.Waypoints = append(c.Waypoints, geometry.Point2D{})
	copy(c.Waypoints[idx+1:], c.Waypoints[idx:])
	c.Waypoints[idx] = p
}

// RemoveWaypoint deletes the waypoint at index i.
func (c *Connection) RemoveWaypoint(i int) {
	if i < 0 || i >= len(c.Waypoints) {
		return
	}
	c.Waypoints = append(c.Waypoints[:i], c.Waypoints[i+1:]...)
}
