// Package probe runs concurrent reachability checks against node addresses
// and funnels the results back to the UI thread.
package probe

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"nodesailor/internal/scene"
)

// Pinger issues a single-packet reachability check. Implementations must be
// safe for concurrent use and must never panic; failures are negative
// results.
type Pinger interface {
	Ping(ctx context.Context, addr string) bool
}

// Addr pairs a VLAN key with the node's address for that key. The address
// may be empty.
type Addr struct {
	Key     string
	Address string
}

// NodeView is an immutable snapshot of the fields a probe worker needs.
// Workers never hold scene references.
type NodeView struct {
	ID    uuid.UUID
	Name  string
	Addrs []Addr
}

// Snapshot captures a probe view of a node in VLAN key order. Must be
// called on the UI thread.
func Snapshot(n *scene.Node, order []string) NodeView {
	v := NodeView{ID: n.ID, Name: n.Name, Addrs: make([]Addr, 0, len(order))}
	for _, key := range order {
		v.Addrs = append(v.Addrs, Addr{Key: key, Address: n.VLANs[key]})
	}
	return v
}

// Result is the outcome of probing one node. The node fill status and the
// per-VLAN indicator states are applied together.
type Result struct {
	NodeID     uuid.UUID
	Status     scene.Status
	VLANStatus map[string]scene.Status
}

// Engine fans out one worker goroutine per probe request. Results are
// marshalled back through dispatch, which must run the closure on the UI
// thread; apply performs the scene update and reports whether the node was
// still alive.
type Engine struct {
	pinger   Pinger
	dispatch func(func())
	apply    func(Result) bool
	timeout  time.Duration

	wg sync.WaitGroup
}

// DefaultTimeout bounds a single address check.
const DefaultTimeout = 3 * time.Second

// New creates a probe engine. A nil pinger is tolerated: every check then
// reports unreachable.
func New(pinger Pinger, dispatch func(func()), apply func(Result) bool) *Engine {
	return &Engine{
		pinger:   pinger,
		dispatch: dispatch,
		apply:    apply,
		timeout:  DefaultTimeout,
	}
}

// SetTimeout overrides the per-address timeout.
func (e *Engine) SetTimeout(d time.Duration) {
	e.timeout = d
}

// Probe checks every non-empty address of the node in VLAN order on a
// background goroutine, then schedules one UI update carrying both the node
// fill status and the per-VLAN indicator states.
func (e *Engine) Probe(v NodeView) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		res := e.run(v)
		e.dispatch(func() {
			e.apply(res)
		})
	}()
}

// ProbeAll fans out one worker per view. Ordering between workers is not
// guaranteed.
func (e *Engine) ProbeAll(views []NodeView) {
	for _, v := range views {
		e.Probe(v)
	}
}

// Wait blocks until every in-flight worker has dispatched its result.
// Intended for the headless checker and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) run(v NodeView) Result {
	res := Result{
		NodeID:     v.ID,
		VLANStatus: make(map[string]scene.Status, len(v.Addrs)),
	}
	var checks []bool
	for _, addr := range v.Addrs {
		if addr.Address == "" {
			res.VLANStatus[addr.Key] = scene.StatusDefault
			continue
		}
		ok := false
		if e.pinger != nil {
			ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
			ok = e.pinger.Ping(ctx, addr.Address)
			cancel()
		}
		checks = append(checks, ok)
		if ok {
			res.VLANStatus[addr.Key] = scene.StatusSuccess
		} else {
			res.VLANStatus[addr.Key] = scene.StatusFailure
		}
	}
	res.Status = StatusFor(checks)
	return res
}

// StatusFor applies the fill color rule: every check true is success, some
// true is partial, none true is failure. A node with no addresses is a
// failure.
func StatusFor(checks []bool) scene.Status {
	if len(checks) == 0 {
		return scene.StatusFailure
	}
	any, all := false, true
	for _, ok := range checks {
		if ok {
			any = true
		} else {
			all = false
		}
	}
	switch {
	case all:
		return scene.StatusSuccess
	case any:
		return scene.StatusPartial
	default:
		return scene.StatusFailure
	}
}
