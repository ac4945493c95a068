// Package scene provides the in-memory network map: nodes, connections,
// sticky notes, groups, and the VLAN schema they share.
package scene

import (
	"github.com/google/uuid"

	"nodesailor/pkg/geometry"
)

// Status is the probe-derived state of a node or a single VLAN indicator.
type Status int

const (
	StatusDefault Status = iota
	StatusSuccess        // every probed address replied
	StatusPartial        // some addresses replied
	StatusFailure        // no address replied
	StatusHost           // this machine ("Who am I?")
	StatusHighlight
	StatusGreyed
)

// Node is a named, probeable point on the map. VLAN addresses are keyed by
// the scene's VLAN schema; values may be empty.
type Node struct {
	ID   uuid.UUID
	Name string
	Pos  geometry.Point2D

	VLANs                map[string]string
	RemoteDesktopAddress string
	FilePath             string
	WebConfigURL         string

	// Transient per-session probe state.
	Status     Status
	VLANStatus map[string]Status
}

// NewNode creates a node with empty addresses for each key in vlanKeys.
func NewNode(name string, pos geometry.Point2D, vlanKeys []string) *Node {
	n := &Node{
		ID:         uuid.New(),
		Name:       name,
		Pos:        pos,
		VLANs:      make(map[string]string, len(vlanKeys)),
		VLANStatus: make(map[string]Status, len(vlanKeys)),
	}
	for _, key := range vlanKeys {
		n.VLANs[key] = ""
	}
	return n
}

// FirstAddress returns the node's first non-empty VLAN address in the given
// key order, or "" if the node has no addresses.
func (n *Node) FirstAddress(order []string) string {
	for _, key := range order {
		if addr := n.VLANs[key]; addr != "" {
			return addr
		}
	}
	return ""
}

// HasAddress reports whether any VLAN value equals addr.
func (n *Node) HasAddress(addr string) bool {
	if addr == "" {
		return false
	}
	for _, v := range n.VLANs {
		if v == addr {
			return true
		}
	}
	return false
}

// ClearStatus resets the node's probe state.
func (n *Node) ClearStatus() {
	n.Status = StatusDefault
	n.VLANStatus = make(map[string]Status, len(n.VLANs))
}
