package editors

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/commands"
	"nodesailor/internal/scene"
)

// CommandManager edits the custom command store: name, template, and the
// applicability filter.
type CommandManager struct {
	fyneApp fyne.App
	window  fyne.Window
	scene   *scene.Scene
	store   *commands.Store

	list     *widget.List
	names    []string
	selected string

	nameEntry     *widget.Entry
	templateEntry *widget.Entry
	allCheck      *widget.Check
	nodeChecks    *widget.CheckGroup
}

// NewCommandManager creates the manager window over the store.
func NewCommandManager(fyneApp fyne.App, sc *scene.Scene, store *commands.Store) *CommandManager {
	return &CommandManager{fyneApp: fyneApp, scene: sc, store: store}
}

// Show opens (or focuses) the manager window.
func (m *CommandManager) Show() {
	if m.window != nil {
		m.window.RequestFocus()
		return
	}
	m.window = m.fyneApp.NewWindow("Custom Commands")

	m.refreshNames()
	m.list = widget.NewList(
		func() int { return len(m.names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(m.names[i])
		})
	m.list.OnSelected = func(i widget.ListItemID) {
		m.selected = m.names[i]
		m.loadSelected()
	}

	m.nameEntry = widget.NewEntry()
	m.templateEntry = widget.NewEntry()
	m.templateEntry.SetPlaceHolder("e.g. ssh admin@{ip}")

	nodeNames := make([]string, 0, len(m.scene.Nodes))
	for _, n := range m.scene.Nodes {
		nodeNames = append(nodeNames, n.Name)
	}
	m.nodeChecks = widget.NewCheckGroup(nodeNames, nil)
	m.allCheck = widget.NewCheck("Applicable to all nodes", func(all bool) {
		if all {
			m.nodeChecks.SetSelected(nil)
		}
	})

	saveBtn := widget.NewButton("Save command", func() { m.saveSelected() })
	newBtn := widget.NewButton("New", func() {
		m.selected = ""
		m.nameEntry.SetText("")
		m.templateEntry.SetText("")
		m.allCheck.SetChecked(true)
		m.nodeChecks.SetSelected(nil)
	})
	deleteBtn := widget.NewButton("Delete", func() {
		if m.selected == "" {
			return
		}
		m.store.Delete(m.selected)
		m.persist()
		m.selected = ""
		m.refreshNames()
		m.list.Refresh()
	})

	form := container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Name", m.nameEntry),
			widget.NewFormItem("Template", m.templateEntry),
		),
		m.allCheck,
		widget.NewLabel("Applicable nodes"),
		container.NewVScroll(m.nodeChecks),
		container.NewHBox(newBtn, saveBtn, deleteBtn),
	)

	split := container.NewHSplit(m.list, form)
	split.SetOffset(0.3)
	m.window.SetContent(split)
	m.window.Resize(fyne.NewSize(640, 420))
	m.window.SetOnClosed(func() { m.window = nil })
	m.window.Show()
}

// Reload refreshes the list after the store was reloaded externally.
func (m *CommandManager) Reload() {
	if m.window == nil {
		return
	}
	m.refreshNames()
	m.list.Refresh()
}

func (m *CommandManager) refreshNames() {
	cmds := m.store.List()
	m.names = m.names[:0]
	for _, c := range cmds {
		m.names = append(m.names, c.Name)
	}
}

func (m *CommandManager) loadSelected() {
	cmd, ok := m.store.Get(m.selected)
	if !ok {
		return
	}
	m.nameEntry.SetText(cmd.Name)
	m.templateEntry.SetText(cmd.Template)
	m.allCheck.SetChecked(cmd.ApplicableNodes == nil)
	m.nodeChecks.SetSelected(cmd.ApplicableNodes)
}

func (m *CommandManager) saveSelected() {
	name := strings.TrimSpace(m.nameEntry.Text)
	if name == "" {
		dialog.ShowInformation("Custom Commands", "Command name must not be empty", m.window)
		return
	}
	cmd := commands.Command{
		Name:     name,
		Template: m.templateEntry.Text,
	}
	if !m.allCheck.Checked {
		cmd.ApplicableNodes = m.nodeChecks.Selected
	}
	if m.selected != "" && m.selected != name {
		m.store.Delete(m.selected)
	}
	m.store.Set(cmd)
	m.persist()
	m.selected = name
	m.refreshNames()
	m.list.Refresh()
}

func (m *CommandManager) persist() {
	if err := m.store.Save(); err != nil {
		dialog.ShowError(err, m.window)
	}
}
