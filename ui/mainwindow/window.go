// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"nodesailor/internal/app"
	"nodesailor/internal/commands"
	"nodesailor/internal/doc"
	"nodesailor/internal/osadapt"
	"nodesailor/internal/probe"
	"nodesailor/internal/scene"
	"nodesailor/internal/settings"
	"nodesailor/internal/version"
	"nodesailor/pkg/geometry"
	"nodesailor/ui/canvas"
	"nodesailor/ui/dialogs"
	"nodesailor/ui/editors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir   = "lastDirectory"
	settingsFlushGap = 30 * time.Second
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	state    *app.State
	scene    *scene.Scene
	theme    *app.NetworkTheme
	settings *settings.Store
	commands *commands.Store

	canvas *canvas.NetworkCanvas
	engine *probe.Engine
	saver  *app.Autosaver

	statusBar   *widget.Label
	modeBtn     *widget.Button
	groupsChk   *widget.Check
	configBar   *fyne.Container
	infoPopup   *widget.PopUp
	infoLabel   *widget.Label
	contextMenu *widget.PopUpMenu

	nodeTable   *editors.NodeTable
	connList    *editors.ConnectionList
	vlanEditor  *editors.VLANEditor
	cmdManager  *editors.CommandManager
	colorEditor *editors.ColorSchemeEditor
	groupEditor *editors.GroupEditor

	stopWatch func()
}

// New creates the main window wired to the given scene, state, theme,
// settings store, and commands store.
func New(fyneApp fyne.App, st *app.State, sc *scene.Scene, th *app.NetworkTheme, set *settings.Store, store *commands.Store) *MainWindow {
	win := fyneApp.NewWindow("NodeSailor")

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    st,
		scene:    sc,
		theme:    th,
		settings: set,
		commands: store,
	}

	mw.setupProbe()
	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()

	// The state may have been put into Configuration before the window
	// existed (--mode flag), so sync the chrome to it once.
	if st.Mode() == app.ModeConfiguration {
		mw.modeBtn.SetText("Operator")
		mw.configBar.Show()
	}

	mw.restoreGeometry()
	mw.setupLifecycle()

	return mw
}

// setupProbe builds the concurrent liveness engine. Results are marshalled
// back onto the UI thread; nodes removed before the result lands are
// discarded by ApplyProbeResult.
func (mw *MainWindow) setupProbe() {
	mw.engine = probe.New(osadapt.SystemPinger{},
		func(f func()) { fyne.Do(f) },
		func(r probe.Result) bool {
			return mw.scene.ApplyProbeResult(r.NodeID, r.Status, r.VLANStatus)
		})
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.scene, mw.state, mw.theme)

	mw.canvas.OnProbeNode = mw.probeNode
	mw.canvas.OnCreateNode = mw.createNodeAt
	mw.canvas.OnCreateNote = mw.createNoteAt
	mw.canvas.OnNewConnection = mw.newConnection
	mw.canvas.OnContextMenu = mw.showContextMenu
	mw.canvas.OnGroupDrawn = mw.editGroup
	mw.canvas.OnBeforeZoom = mw.hideTransients
	mw.canvas.OnLabelHover = mw.hoverConnection

	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	content := container.NewBorder(
		toolbar,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.canvas.Container(),
	)
	mw.SetContent(content)

	mw.saver = app.NewAutosaver(settingsFlushGap, mw.settings.SaveIfDirty)
	mw.saver.Start()

	stop, err := commands.Watch(mw.commands.Path(), func() {
		fyne.Do(func() {
			if err := mw.commands.Load(); err != nil {
				return
			}
			if mw.cmdManager != nil {
				mw.cmdManager.Reload()
			}
		})
	})
	if err == nil {
		mw.stopWatch = stop
	}
}

// createToolbar builds the top button row. The editor buttons live in a
// second row that is only shown in Configuration mode.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	mw.modeBtn = widget.NewButton("Configuration", func() {
		mw.state.ToggleMode()
	})
	mw.groupsChk = widget.NewCheck("Groups", func(on bool) {
		mw.state.SetGroupsMode(on)
	})

	pingAllBtn := widget.NewButton("Ping All", mw.onPingAll)
	clearBtn := widget.NewButton("Clear Status", mw.onClearStatus)
	whoBtn := widget.NewButton("Who am I?", mw.onWhoAmI)

	zoomOutBtn := widget.NewButton("-", mw.canvas.ZoomOut)
	zoomInBtn := widget.NewButton("+", mw.canvas.ZoomIn)
	zoomResetBtn := widget.NewButton("1:1", mw.canvas.ZoomReset)

	themeBtn := widget.NewButton("Theme", mw.onToggleTheme)

	mw.configBar = container.NewHBox(
		mw.groupsChk,
		widget.NewButton("Nodes…", mw.onNodeTable),
		widget.NewButton("Connections…", mw.onConnectionList),
		widget.NewButton("VLANs…", mw.onVLANEditor),
		widget.NewButton("Commands…", mw.onCommandManager),
		widget.NewButton("Colors…", mw.onColorScheme),
	)
	mw.configBar.Hide()

	top := container.NewHBox(
		mw.modeBtn,
		widget.NewSeparator(),
		pingAllBtn,
		clearBtn,
		whoBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		zoomResetBtn,
		widget.NewSeparator(),
		themeBtn,
	)
	return container.NewVBox(top, mw.configBar)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Map", mw.onNewMap),
		fyne.NewMenuItem("Open…", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As…", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Reset Zoom", mw.canvas.ZoomReset),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Theme", mw.onToggleTheme),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Ping All", mw.onPingAll),
		fyne.NewMenuItem("Clear Status", mw.onClearStatus),
		fyne.NewMenuItem("Who am I?", mw.onWhoAmI),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Node Table…", mw.onNodeTable),
		fyne.NewMenuItem("Connections…", mw.onConnectionList),
		fyne.NewMenuItem("VLAN Labels…", mw.onVLANEditor),
		fyne.NewMenuItem("Custom Commands…", mw.onCommandManager),
		fyne.NewMenuItem("Color Scheme…", mw.onColorScheme),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("Legend", func() { mw.showLegend(true) }),
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu, helpMenu))
}

// setupShortcuts registers keyboard handling: save/load/theme shortcuts,
// arrow-key panning, escape, help, and shift tracking for the canvas.
func (mw *MainWindow) setupShortcuts() {
	cv := mw.Canvas()

	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onSave() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyL, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { mw.onOpen() })
	cv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyC, Modifier: fyne.KeyModifierControl | fyne.KeyModifierShift},
		func(fyne.Shortcut) { mw.onToggleTheme() })

	cv.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyUp:
			mw.canvas.Nudge(0, -1)
		case fyne.KeyDown:
			mw.canvas.Nudge(0, 1)
		case fyne.KeyLeft:
			mw.canvas.Nudge(-1, 0)
		case fyne.KeyRight:
			mw.canvas.Nudge(1, 0)
		case fyne.KeyEscape:
			mw.state.CancelDraft()
			mw.hideInfoPopup()
		case fyne.KeyF1:
			mw.showLegend(true)
		}
	})

	// PointEvents carry no modifier state, so the canvas learns about
	// shift from raw key transitions.
	if dc, ok := cv.(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if isShift(ev.Name) {
				mw.canvas.SetShiftDown(true)
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if isShift(ev.Name) {
				mw.canvas.SetShiftDown(false)
			}
		})
	}
}

func isShift(name fyne.KeyName) bool {
	return name == desktop.KeyShiftLeft || name == desktop.KeyShiftRight
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventModeChanged, func(data interface{}) {
		mode, _ := data.(app.Mode)
		if mode == app.ModeConfiguration {
			mw.modeBtn.SetText("Operator")
			mw.configBar.Show()
			mw.showGuidance(app.ModeConfiguration)
		} else {
			mw.modeBtn.SetText("Configuration")
			mw.configBar.Hide()
			if mw.groupEditor != nil {
				mw.groupEditor.Hide()
				mw.groupEditor = nil
			}
			mw.showGuidance(app.ModeOperator)
		}
		mw.updateStatus("Mode: " + mode.String())
	})

	mw.state.On(app.EventGroupsModeChanged, func(data interface{}) {
		on, _ := data.(bool)
		mw.groupsChk.SetChecked(on)
	})

	mw.state.On(app.EventFileChanged, func(data interface{}) {
		path, _ := data.(string)
		if path == "" {
			mw.SetTitle("NodeSailor")
			return
		}
		mw.SetTitle("NodeSailor — " + filepath.Base(path))
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		modified, _ := data.(bool)
		title := mw.Title()
		if modified {
			if len(title) == 0 || title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventThemeChanged, func(data interface{}) {
		// Re-applying the theme forces every widget to repaint with the
		// new variant's tokens.
		mw.app.Settings().SetTheme(mw.theme)
	})

	mw.scene.On(scene.EventModified, func(interface{}) {
		mw.state.SetModified(true)
	})
}

// setupLifecycle persists geometry and settings before the window closes.
func (mw *MainWindow) setupLifecycle() {
	mw.SetCloseIntercept(func() {
		sz := mw.Canvas().Size()
		mw.settings.Set(settings.KeyWindowGeometry,
			fmt.Sprintf("%dx%d+0+0", int(sz.Width), int(sz.Height)))
		mw.settings.SaveIfDirty()
		mw.saver.Stop()
		if mw.stopWatch != nil {
			mw.stopWatch()
		}
		mw.Close()
	})
}

// restoreGeometry applies the persisted window size. Desktop position is
// recorded but not restorable through fyne, so only WxH is honored.
func (mw *MainWindow) restoreGeometry() {
	geom := mw.settings.Get(settings.KeyWindowGeometry)
	var w, h, x, y int
	if _, err := fmt.Sscanf(geom, "%dx%d+%d+%d", &w, &h, &x, &y); err == nil && w > 0 && h > 0 {
		mw.Resize(fyne.NewSize(float32(w), float32(h)))
		return
	}
	mw.Resize(fyne.NewSize(1100, 700))
}

// ShowWithStartup shows the window and the first-run popups (legend and
// operator guidance) unless the settings file suppresses them.
func (mw *MainWindow) ShowWithStartup() {
	mw.Show()
	if !mw.settings.Bool(settings.KeyHideLegend) {
		mw.showLegend(false)
	}
	mw.showGuidance(mw.state.Mode())
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// Probe actions

func (mw *MainWindow) probeNode(n *scene.Node) {
	mw.updateStatus("Pinging " + n.Name)
	mw.engine.Probe(probe.Snapshot(n, mw.scene.VLANOrder))
}

func (mw *MainWindow) onPingAll() {
	views := make([]probe.NodeView, 0, len(mw.scene.Nodes))
	for _, n := range mw.scene.Nodes {
		views = append(views, probe.Snapshot(n, mw.scene.VLANOrder))
	}
	mw.updateStatus(fmt.Sprintf("Pinging %d nodes", len(views)))
	mw.engine.ProbeAll(views)
}

func (mw *MainWindow) onClearStatus() {
	mw.scene.ClearStatus()
	mw.updateStatus("Status cleared")
}

// onWhoAmI greys every node, then marks each node carrying one of this
// machine's addresses with the host color. All matches are marked; ties
// are not broken.
func (mw *MainWindow) onWhoAmI() {
	addrs := osadapt.LocalIPs()
	matches := mw.scene.NodesMatchingAddrs(addrs)
	for _, n := range mw.scene.Nodes {
		n.Status = scene.StatusGreyed
	}
	for _, n := range matches {
		n.Status = scene.StatusHost
	}
	mw.scene.Emit(scene.EventStatusChanged, nil)
	if len(matches) == 0 {
		mw.updateStatus("No node matches this machine's addresses")
	} else {
		mw.updateStatus(fmt.Sprintf("%d node(s) match this machine", len(matches)))
	}
}

// Canvas callbacks

func (mw *MainWindow) createNodeAt(at geometry.Point2D) {
	dialogs.NewNodeDialog(mw.Window, mw.scene, nil, at, func(*scene.Node) {
		mw.state.SetModified(true)
	}).Show()
}

func (mw *MainWindow) createNoteAt(at geometry.Point2D) {
	dialogs.ShowSticky(mw.Window, mw.scene, nil, at, func(*scene.StickyNote) {
		mw.state.SetModified(true)
	})
}

func (mw *MainWindow) newConnection(from, to *scene.Node) {
	dialogs.ShowConnection(mw.Window, "New Connection", "", "", func(label, info string) {
		if _, err := mw.scene.AddConnection(from, to, label, info); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.state.SetModified(true)
	})
}

func (mw *MainWindow) editGroup(g *scene.Group) {
	if mw.groupEditor != nil {
		mw.groupEditor.Hide()
	}
	mw.groupEditor = editors.NewGroupEditor(mw.Window, mw.scene, mw.state, g)
	mw.groupEditor.Show()
}

// hoverConnection shows the connection-info popup near the pointer, or
// hides it when the hover leaves the label.
func (mw *MainWindow) hoverConnection(c *scene.Connection, abs fyne.Position) {
	if c == nil || c.Info == "" {
		mw.hideInfoPopup()
		return
	}
	if mw.infoPopup == nil {
		mw.infoLabel = widget.NewLabel("")
		mw.infoPopup = widget.NewPopUp(mw.infoLabel, mw.Canvas())
	}
	mw.infoLabel.SetText(c.Info)
	mw.infoPopup.ShowAtPosition(abs.Add(fyne.NewPos(12, 12)))
}

func (mw *MainWindow) hideInfoPopup() {
	if mw.infoPopup != nil {
		mw.infoPopup.Hide()
	}
}

// hideTransients dismisses the info popup and any open context menu. The
// canvas calls it before a zoom so popups never float over stale positions.
func (mw *MainWindow) hideTransients() {
	mw.hideInfoPopup()
	if mw.contextMenu != nil {
		mw.contextMenu.Hide()
	}
}

// Context menu

func (mw *MainWindow) showContextMenu(target canvas.ContextTarget, at geometry.Point2D, abs fyne.Position) {
	mw.hideInfoPopup()

	var items []*fyne.MenuItem
	switch {
	case target.Node != nil:
		items = mw.nodeMenuItems(target.Node, at)
	case target.Connection != nil:
		items = mw.connectionMenuItems(target.Connection)
	case target.Note != nil:
		items = mw.noteMenuItems(target.Note)
	case target.Group != nil:
		items = mw.groupMenuItems(target.Group)
	}
	if len(items) == 0 {
		return
	}
	mw.contextMenu = widget.NewPopUpMenu(fyne.NewMenu("", items...), mw.Canvas())
	mw.contextMenu.ShowAtPosition(abs)
}

func (mw *MainWindow) nodeMenuItems(n *scene.Node, at geometry.Point2D) []*fyne.MenuItem {
	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Ping", func() { mw.probeNode(n) }),
	}

	if mw.state.CanEdit() {
		items = append(items,
			fyne.NewMenuItem("Edit…", func() {
				dialogs.NewNodeDialog(mw.Window, mw.scene, n, at, func(*scene.Node) {
					mw.state.SetModified(true)
				}).Show()
			}),
			fyne.NewMenuItem("Delete", func() { mw.confirmDeleteNode(n) }),
		)
	}

	var opens []*fyne.MenuItem
	if n.RemoteDesktopAddress != "" {
		addr := n.RemoteDesktopAddress
		opens = append(opens, fyne.NewMenuItem("Remote Desktop", func() {
			if err := osadapt.OpenRDP(addr); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}))
	}
	if n.FilePath != "" {
		path := n.FilePath
		opens = append(opens, fyne.NewMenuItem("Open File Path", func() {
			if err := osadapt.OpenFile(path); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}))
	}
	if n.WebConfigURL != "" {
		url := n.WebConfigURL
		opens = append(opens, fyne.NewMenuItem("Open Web Config", func() {
			if err := osadapt.OpenURL(url); err != nil {
				dialog.ShowError(err, mw.Window)
			}
		}))
	}
	if len(opens) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
		items = append(items, opens...)
	}

	custom := mw.commands.ForNode(n.Name)
	if len(custom) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
		for _, cmd := range custom {
			cmd := cmd
			items = append(items, fyne.NewMenuItem(cmd.Name, func() {
				if err := commands.Launch(cmd, n, mw.scene.VLANOrder, osadapt.SpawnTerminal); err != nil {
					dialog.ShowError(err, mw.Window)
				}
			}))
		}
	}
	return items
}

func (mw *MainWindow) connectionMenuItems(c *scene.Connection) []*fyne.MenuItem {
	if !mw.state.CanEdit() {
		return nil
	}
	return []*fyne.MenuItem{
		fyne.NewMenuItem("Edit…", func() {
			dialogs.ShowConnection(mw.Window, "Edit Connection", c.Label, c.Info, func(label, info string) {
				c.Label = label
				c.Info = info
				mw.scene.Emit(scene.EventConnectionsChanged, c)
				mw.state.SetModified(true)
			})
		}),
		fyne.NewMenuItem("Delete", func() {
			mw.scene.RemoveConnection(c)
			mw.state.SetModified(true)
		}),
	}
}

func (mw *MainWindow) noteMenuItems(note *scene.StickyNote) []*fyne.MenuItem {
	if !mw.state.CanEdit() {
		return nil
	}
	return []*fyne.MenuItem{
		fyne.NewMenuItem("Edit…", func() {
			dialogs.ShowSticky(mw.Window, mw.scene, note, note.Pos, func(*scene.StickyNote) {
				mw.state.SetModified(true)
			})
		}),
		fyne.NewMenuItem("Delete", func() {
			mw.scene.RemoveNote(note)
			mw.state.SetModified(true)
		}),
	}
}

func (mw *MainWindow) groupMenuItems(g *scene.Group) []*fyne.MenuItem {
	if !mw.state.CanEdit() {
		return nil
	}
	return []*fyne.MenuItem{
		fyne.NewMenuItem("Edit…", func() { mw.editGroup(g) }),
	}
}

func (mw *MainWindow) confirmDeleteNode(n *scene.Node) {
	incident := 0
	for _, c := range mw.scene.Connections {
		if c.Touches(n) {
			incident++
		}
	}
	msg := fmt.Sprintf("Delete %q?", n.Name)
	if incident > 0 {
		msg = fmt.Sprintf("Delete %q and its %d connection(s)?", n.Name, incident)
	}
	dialog.ShowConfirm("Delete Node", msg, func(ok bool) {
		if !ok {
			return
		}
		mw.scene.RemoveNode(n)
		mw.state.SetModified(true)
	}, mw.Window)
}

// File actions

func (mw *MainWindow) onNewMap() {
	apply := func() {
		mw.scene.Clear()
		mw.state.SetFilePath("")
		mw.state.SetModified(false)
		mw.canvas.ResetView()
		mw.updateStatus("New map")
	}
	if mw.state.Modified() {
		dialog.ShowConfirm("New Map", "Discard unsaved changes?", func(ok bool) {
			if ok {
				apply()
			}
		}, mw.Window)
		return
	}
	apply()
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		mw.LoadMap(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// LoadMap replaces the scene contents with the document at path. The
// canvas keeps its listeners because the bound scene adopts the loaded
// one rather than being swapped out.
func (mw *MainWindow) LoadMap(path string) {
	loaded, res, err := doc.Load(path)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	mw.scene.Adopt(loaded)
	mw.state.SetFilePath(path)
	mw.canvas.ResetView()

	// The document's commands are the source of truth; the side file is
	// rewritten to match, or reset when the document carries none.
	mw.commands.Replace(recordsToCommands(res.Commands))
	if err := mw.commands.Save(); err != nil {
		dialog.ShowError(err, mw.Window)
	}
	if mw.cmdManager != nil {
		mw.cmdManager.Reload()
	}

	status := "Loaded " + filepath.Base(path)
	if res.SkippedNodes > 0 || res.SkippedConnections > 0 {
		status = fmt.Sprintf("%s (skipped %d node(s), %d connection(s))",
			status, res.SkippedNodes, res.SkippedConnections)
	}
	mw.updateStatus(status)
}

func (mw *MainWindow) onSave() {
	if mw.state.FilePath() == "" {
		mw.onSaveAs()
		return
	}
	mw.saveMap(mw.state.FilePath())
}

func (mw *MainWindow) onSaveAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		mw.saveLastDir(path)
		mw.saveMap(path)
	}, mw.Window)
	fd.SetFileName("map.json")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveMap(path string) {
	if err := doc.Save(path, mw.scene, commandRecords(mw.commands)); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.SetFilePath(path)
	mw.updateStatus("Saved " + filepath.Base(path))
}

// commandRecords converts the store's commands into document records.
func commandRecords(store *commands.Store) map[string]doc.CommandRecord {
	all := store.All()
	out := make(map[string]doc.CommandRecord, len(all))
	for name, cmd := range all {
		out[name] = doc.CommandRecord{
			Template:        cmd.Template,
			ApplicableNodes: cmd.ApplicableNodes,
		}
	}
	return out
}

// recordsToCommands converts document records into store commands.
func recordsToCommands(records map[string]doc.CommandRecord) map[string]commands.Command {
	out := make(map[string]commands.Command, len(records))
	for name, r := range records {
		out[name] = commands.Command{
			Name:            name,
			Template:        r.Template,
			ApplicableNodes: r.ApplicableNodes,
		}
	}
	return out
}

// Toolbar / menu actions

func (mw *MainWindow) onToggleTheme() {
	mw.state.SetDark(!mw.state.Dark())
}

func (mw *MainWindow) onNodeTable() {
	if mw.nodeTable == nil {
		mw.nodeTable = editors.NewNodeTable(mw.app, mw.Window, mw.scene, mw.state)
	}
	mw.nodeTable.Show()
}

func (mw *MainWindow) onConnectionList() {
	if mw.connList == nil {
		mw.connList = editors.NewConnectionList(mw.app, mw.scene, mw.state)
	}
	mw.connList.Show()
}

func (mw *MainWindow) onVLANEditor() {
	mw.vlanEditor = editors.NewVLANEditor(mw.Window, mw.scene, mw.state)
	mw.vlanEditor.Show()
}

func (mw *MainWindow) onCommandManager() {
	if mw.cmdManager == nil {
		mw.cmdManager = editors.NewCommandManager(mw.app, mw.scene, mw.commands)
	}
	mw.cmdManager.Show()
}

func (mw *MainWindow) onColorScheme() {
	if mw.colorEditor == nil {
		mw.colorEditor = editors.NewColorSchemeEditor(mw.app, mw.state, mw.theme)
	}
	mw.colorEditor.Show()
}

// Legend and guidance

// showLegend opens the status color legend. When forced is false the
// window came from startup and offers a "don't show again" check.
func (mw *MainWindow) showLegend(forced bool) {
	rows := container.NewVBox(
		widget.NewLabelWithStyle("Node colors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Green — every address replied"),
		widget.NewLabel("Yellow — some addresses replied"),
		widget.NewLabel("Red — no address replied"),
		widget.NewLabel("Blue — this machine (Who am I?)"),
		widget.NewLabel("Grey — not probed / greyed out"),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Mouse", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Left click (Operator) — ping node"),
		widget.NewLabel("Middle click (Configuration) — start / finish a connection"),
		widget.NewLabel("Right drag — pan, wheel — zoom"),
	)

	if !forced {
		check := widget.NewCheck("Don't show this again", func(on bool) {
			mw.settings.SetBool(settings.KeyHideLegend, on)
			mw.settings.SaveIfDirty()
		})
		rows.Add(widget.NewSeparator())
		rows.Add(check)
	}

	dialog.ShowCustom("Legend", "Close", rows, mw.Window)
}

// showGuidance opens the per-mode hint popup unless suppressed.
func (mw *MainWindow) showGuidance(mode app.Mode) {
	key := settings.KeyHideOperatorGuidance
	text := "Operator mode: click a node to ping it. Use Ping All to probe the whole map and Who am I? to find this machine."
	if mode == app.ModeConfiguration {
		key = settings.KeyHideConfigurationGuidance
		text = "Configuration mode: double-click to create nodes, shift+double-click for sticky notes, middle-click two nodes to connect them, and drag to move things."
	}
	if mw.settings.Bool(key) {
		return
	}

	check := widget.NewCheck("Don't show this again", func(on bool) {
		mw.settings.SetBool(key, on)
		mw.settings.SaveIfDirty()
	})
	content := container.NewVBox(widget.NewLabel(text), check)
	dialog.ShowCustom("Guidance", "Close", content, mw.Window)
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About NodeSailor",
		fmt.Sprintf("NodeSailor v%s\n\n"+
			"A network map visualization and liveness tool.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

// Preferences helpers

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}
