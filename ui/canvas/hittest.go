package canvas

import (
	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

const lineHitDistance = 5

// nodeAt returns the topmost node whose rectangle contains p.
func (nc *NetworkCanvas) nodeAt(p geometry.Point2D) *scene.Node {
	for i := len(nc.scene.Nodes) - 1; i >= 0; i-- {
		if nodeRect(nc.scene.Nodes[i]).Contains(p) {
			return nc.scene.Nodes[i]
		}
	}
	return nil
}

// connectionAt returns the topmost connection whose polyline passes within
// hit distance of p.
func (nc *NetworkCanvas) connectionAt(p geometry.Point2D) *scene.Connection {
	for i := len(nc.scene.Connections) - 1; i >= 0; i-- {
		c := nc.scene.Connections[i]
		if c.Polyline().DistanceTo(p) <= lineHitDistance {
			return c
		}
	}
	return nil
}

// labelAt returns the connection whose label background contains p.
func (nc *NetworkCanvas) labelAt(p geometry.Point2D) *scene.Connection {
	for i := len(nc.scene.Connections) - 1; i >= 0; i-- {
		c := nc.scene.Connections[i]
		if r, ok := connLabelRect(c); ok && r.Contains(p) {
			return c
		}
	}
	return nil
}

// noteAt returns the topmost sticky note whose background contains p.
func (nc *NetworkCanvas) noteAt(p geometry.Point2D) *scene.StickyNote {
	for i := len(nc.scene.Notes) - 1; i >= 0; i-- {
		if noteRect(nc.scene.Notes[i]).Contains(p) {
			return nc.scene.Notes[i]
		}
	}
	return nil
}

// waypointAt finds the waypoint handle under p, if any.
func (nc *NetworkCanvas) waypointAt(p geometry.Point2D) (*scene.Connection, int, bool) {
	for i := len(nc.scene.Connections) - 1; i >= 0; i-- {
		c := nc.scene.Connections[i]
		for j, wp := range c.Waypoints {
			if wp.Distance(p) <= handleRadius+1 {
				return c, j, true
			}
		}
	}
	return nil, 0, false
}

// cornerAt returns the group corner handle index under p, or -1.
// Corners are ordered top-left, top-right, bottom-left, bottom-right.
func (nc *NetworkCanvas) cornerAt(g *scene.Group, p geometry.Point2D) int {
	for i, corner := range g.Corners() {
		r := geometry.Rect{
			X:      corner.X - cornerSize,
			Y:      corner.Y - cornerSize,
			Width:  2 * cornerSize,
			Height: 2 * cornerSize,
		}
		if r.Contains(p) {
			return i
		}
	}
	return -1
}
