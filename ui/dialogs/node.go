// Package dialogs provides the node, sticky note, and connection modals.
package dialogs

import (
	"errors"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

// NodeDialog edits one node, or creates one when node is nil.
type NodeDialog struct {
	window fyne.Window
	scene  *scene.Scene
	node   *scene.Node
	at     geometry.Point2D

	nameEntry *widget.Entry
	vlanEntry map[string]*widget.Entry
	rdpEntry  *widget.Entry
	fileEntry *widget.Entry
	webEntry  *widget.Entry

	onSave func(*scene.Node)
}

// NewNodeDialog prepares a dialog. For creation pass node == nil and the
// canvas point; onSave receives the created or edited node.
func NewNodeDialog(window fyne.Window, sc *scene.Scene, node *scene.Node, at geometry.Point2D, onSave func(*scene.Node)) *NodeDialog {
	return &NodeDialog{
		window: window,
		scene:  sc,
		node:   node,
		at:     at,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *NodeDialog) Show() {
	d.nameEntry = widget.NewEntry()
	d.rdpEntry = widget.NewEntry()
	d.fileEntry = widget.NewEntry()
	d.webEntry = widget.NewEntry()
	d.vlanEntry = make(map[string]*widget.Entry, len(d.scene.VLANOrder))

	items := []*widget.FormItem{
		widget.NewFormItem("Name", d.nameEntry),
	}
	for _, key := range d.scene.VLANOrder {
		entry := widget.NewEntry()
		d.vlanEntry[key] = entry
		display := d.scene.VLANLabels[key]
		if display == "" {
			display = key
		}
		items = append(items, widget.NewFormItem(display, entry))
	}
	items = append(items,
		widget.NewFormItem("Remote desktop", d.rdpEntry),
		widget.NewFormItem("File path", d.fileEntry),
		widget.NewFormItem("Web config URL", d.webEntry),
	)

	title := "New Node"
	if d.node != nil {
		title = "Edit Node"
		d.nameEntry.SetText(d.node.Name)
		for key, entry := range d.vlanEntry {
			entry.SetText(d.node.VLANs[key])
		}
		d.rdpEntry.SetText(d.node.RemoteDesktopAddress)
		d.fileEntry.SetText(d.node.FilePath)
		d.webEntry.SetText(d.node.WebConfigURL)
	}

	form := widget.NewForm(items...)
	dlg := dialog.NewCustomConfirm(title, "Save", "Cancel", form,
		func(save bool) {
			if !save {
				return
			}
			d.apply()
		}, d.window)
	dlg.Resize(fyne.NewSize(420, 0))
	dlg.Show()
	d.window.Canvas().Focus(d.nameEntry)
}

func (d *NodeDialog) apply() {
	name := strings.TrimSpace(d.nameEntry.Text)
	if name == "" {
		dialog.ShowError(errors.New("node name must not be empty"), d.window)
		return
	}

	n := d.node
	if n == nil {
		n = d.scene.AddNode(name, d.at)
	} else {
		n.Name = name
	}
	for key, entry := range d.vlanEntry {
		n.VLANs[key] = strings.TrimSpace(entry.Text)
	}
	n.RemoteDesktopAddress = strings.TrimSpace(d.rdpEntry.Text)
	n.FilePath = strings.TrimSpace(d.fileEntry.Text)
	n.WebConfigURL = strings.TrimSpace(d.webEntry.Text)

	d.scene.Emit(scene.EventNodesChanged, n)
	if d.onSave != nil {
		d.onSave(n)
	}
}
