// Command mapcheck loads a map document and probes every node once,
// printing one line per node and exiting non-zero when any node is fully
// unreachable. It is the headless companion to the GUI's "Ping All".
package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"nodesailor/internal/doc"
	"nodesailor/internal/osadapt"
	"nodesailor/internal/probe"
	"nodesailor/internal/scene"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <map.json>\n", os.Args[0])
		os.Exit(2)
	}

	sc, res, err := doc.Load(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "mapcheck:", err)
		os.Exit(2)
	}
	if res.SkippedNodes > 0 || res.SkippedConnections > 0 {
		fmt.Fprintf(os.Stderr, "mapcheck: skipped %d node(s), %d connection(s)\n",
			res.SkippedNodes, res.SkippedConnections)
	}
	if len(sc.Nodes) == 0 {
		fmt.Println("map has no nodes")
		return
	}

	// Results arrive from worker goroutines; a mutex stands in for the
	// GUI's single UI thread.
	var mu sync.Mutex
	results := make(map[uuid.UUID]probe.Result, len(sc.Nodes))

	engine := probe.New(osadapt.SystemPinger{},
		func(f func()) { mu.Lock(); defer mu.Unlock(); f() },
		func(r probe.Result) bool {
			results[r.NodeID] = r
			return true
		})

	views := make([]probe.NodeView, 0, len(sc.Nodes))
	for _, n := range sc.Nodes {
		views = append(views, probe.Snapshot(n, sc.VLANOrder))
	}
	engine.ProbeAll(views)
	engine.Wait()

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	anyDown := false
	names := make([]*scene.Node, len(sc.Nodes))
	copy(names, sc.Nodes)
	sort.Slice(names, func(i, j int) bool { return names[i].Name < names[j].Name })

	for _, n := range names {
		r, ok := results[n.ID]
		if !ok {
			fmt.Printf("%-30s %s\n", n.Name, "no addresses")
			continue
		}
		switch r.Status {
		case scene.StatusSuccess:
			fmt.Printf("%-30s %s\n", n.Name, green("up"))
		case scene.StatusPartial:
			fmt.Printf("%-30s %s\n", n.Name, yellow("partial"))
		case scene.StatusFailure:
			fmt.Printf("%-30s %s\n", n.Name, red("down"))
			anyDown = true
		default:
			fmt.Printf("%-30s %s\n", n.Name, "no addresses")
		}
	}

	if anyDown {
		os.Exit(1)
	}
}
