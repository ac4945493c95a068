package editors

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

// NodeTable is the scrollable node grid: one row per node, write-through
// edits, per-column sorting, and an add-row header.
type NodeTable struct {
	fyneApp fyne.App
	window  fyne.Window
	parent  fyne.Window
	scene   *scene.Scene
	state   *app.State

	sortCol int
	sortAsc bool

	grid *fyne.Container
}

// NewNodeTable creates the editor window.
func NewNodeTable(fyneApp fyne.App, parent fyne.Window, sc *scene.Scene, st *app.State) *NodeTable {
	return &NodeTable{
		fyneApp: fyneApp,
		parent:  parent,
		scene:   sc,
		state:   st,
		sortCol: -1,
		sortAsc: true,
	}
}

// columns returns the current column headers: name, the VLAN schema in
// order, then the remaining node fields.
func (t *NodeTable) columns() []string {
	cols := []string{"Name"}
	for _, key := range t.scene.VLANOrder {
		display := t.scene.VLANLabels[key]
		if display == "" {
			display = key
		}
		cols = append(cols, display)
	}
	return append(cols, "Remote desktop", "File path", "Web URL", "X", "Y")
}

// Show opens (or focuses) the editor window.
func (t *NodeTable) Show() {
	if t.window != nil {
		t.window.RequestFocus()
		return
	}
	t.window = t.fyneApp.NewWindow("Nodes")
	t.grid = container.NewVBox()
	t.rebuild()

	refresh := func(interface{}) {
		if t.window != nil {
			t.rebuild()
		}
	}
	off := []func(){
		t.scene.On(scene.EventNodesChanged, refresh),
		t.scene.On(scene.EventVLANSchemaChanged, refresh),
		t.scene.On(scene.EventLoaded, refresh),
		t.scene.On(scene.EventCleared, refresh),
	}

	height := float32(t.scene.NodeWindowHeight)
	if height < 320 {
		height = 320
	}
	t.window.SetContent(container.NewVScroll(t.grid))
	t.window.Resize(fyne.NewSize(900, height))
	t.window.SetOnClosed(func() {
		for _, fn := range off {
			fn()
		}
		t.window = nil
	})
	t.window.Show()
}

// sortedNodes returns the nodes ordered by the active sort column.
func (t *NodeTable) sortedNodes() []*scene.Node {
	nodes := make([]*scene.Node, len(t.scene.Nodes))
	copy(nodes, t.scene.Nodes)
	if t.sortCol < 0 {
		return nodes
	}
	key := t.cellValue
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := key(nodes[i], t.sortCol), key(nodes[j], t.sortCol)
		// Numeric columns compare numerically when both parse.
		af, aerr := strconv.ParseFloat(a, 64)
		bf, berr := strconv.ParseFloat(b, 64)
		var less bool
		if aerr == nil && berr == nil {
			less = af < bf
		} else {
			less = strings.ToLower(a) < strings.ToLower(b)
		}
		if !t.sortAsc {
			return !less
		}
		return less
	})
	return nodes
}

// cellValue returns the string value of one node column.
func (t *NodeTable) cellValue(n *scene.Node, col int) string {
	nv := len(t.scene.VLANOrder)
	switch {
	case col == 0:
		return n.Name
	case col <= nv:
		return n.VLANs[t.scene.VLANOrder[col-1]]
	case col == nv+1:
		return n.RemoteDesktopAddress
	case col == nv+2:
		return n.FilePath
	case col == nv+3:
		return n.WebConfigURL
	case col == nv+4:
		return strconv.FormatFloat(n.Pos.X, 'f', 0, 64)
	default:
		return strconv.FormatFloat(n.Pos.Y, 'f', 0, 64)
	}
}

// setCellValue writes one column back to the node.
func (t *NodeTable) setCellValue(n *scene.Node, col int, value string) {
	value = strings.TrimSpace(value)
	nv := len(t.scene.VLANOrder)
	switch {
	case col == 0:
		if value != "" {
			n.Name = value
		}
	case col <= nv:
		n.VLANs[t.scene.VLANOrder[col-1]] = value
	case col == nv+1:
		n.RemoteDesktopAddress = value
	case col == nv+2:
		n.FilePath = value
	case col == nv+3:
		n.WebConfigURL = value
	case col == nv+4:
		if x, err := strconv.ParseFloat(value, 64); err == nil {
			n.Pos.X = x
		}
	default:
		if y, err := strconv.ParseFloat(value, 64); err == nil {
			n.Pos.Y = y
		}
	}
	t.state.SetModified(true)
}

func (t *NodeTable) rebuild() {
	t.grid.Objects = nil

	cols := t.columns()
	header := container.NewGridWithColumns(len(cols) + 1)
	for i, name := range cols {
		i := i
		label := name
		if i == t.sortCol {
			if t.sortAsc {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		header.Add(widget.NewButton(label, func() {
			if t.sortCol == i {
				t.sortAsc = !t.sortAsc
			} else {
				t.sortCol, t.sortAsc = i, true
			}
			t.rebuild()
		}))
	}
	header.Add(widget.NewButton("Add row", func() { t.addRow() }))
	t.grid.Add(header)

	for _, n := range t.sortedNodes() {
		n := n
		row := container.NewGridWithColumns(len(cols) + 1)
		for col := range cols {
			col := col
			entry := widget.NewEntry()
			entry.SetText(t.cellValue(n, col))
			commit := func(s string) {
				// Tolerate the node having been deleted underneath us.
				if t.scene.NodeByID(n.ID) == nil {
					return
				}
				t.setCellValue(n, col, s)
				t.scene.Emit(scene.EventNodesChanged, n)
			}
			entry.OnSubmitted = commit
			entry.OnChanged = func(s string) {
				if t.scene.NodeByID(n.ID) == nil {
					return
				}
				t.setCellValue(n, col, s)
			}
			row.Add(entry)
		}
		row.Add(widget.NewButton("Delete", func() { t.deleteNode(n) }))
		t.grid.Add(row)
	}
	t.grid.Refresh()
}

// addRow creates a new node at a default position and lets the row edits
// fill it in.
func (t *NodeTable) addRow() {
	name := fmt.Sprintf("node-%d", len(t.scene.Nodes)+1)
	t.scene.AddNode(name, geometry.Point2D{X: 100, Y: 100})
	t.state.SetModified(true)
	t.rebuild()
}

func (t *NodeTable) deleteNode(n *scene.Node) {
	confirmNodeDelete(t.window, t.scene, t.state, n, func() { t.rebuild() })
}

// confirmNodeDelete removes a node, asking first when connections would be
// cascaded away.
func confirmNodeDelete(win fyne.Window, sc *scene.Scene, st *app.State, n *scene.Node, after func()) {
	incident := 0
	for _, c := range sc.Connections {
		if c.Touches(n) {
			incident++
		}
	}
	remove := func() {
		sc.RemoveNode(n)
		st.SetModified(true)
		if after != nil {
			after()
		}
	}
	if incident == 0 {
		remove()
		return
	}
	dialog.ShowConfirm("Delete Node",
		fmt.Sprintf("Delete %q and its %d connection(s)?", n.Name, incident),
		func(ok bool) {
			if ok {
				remove()
			}
		}, win)
}
