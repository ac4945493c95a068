// Package editors provides the secondary editor windows: node table,
// connection list, group editor, VLAN labels, custom commands, and the
// color scheme editor.
package editors

import (
	"fmt"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
	"nodesailor/pkg/colorutil"
)

const groupEditorRowHeight = 36

// GroupEditor is the single-group modal: name, color preset choice with
// light/dark previews, the resize toggle, and save/delete.
type GroupEditor struct {
	window fyne.Window
	scene  *scene.Scene
	state  *app.State
	group  *scene.Group

	nameEntry *widget.Entry
	presetID  string

	dlg dialog.Dialog
}

// NewGroupEditor creates the editor for one group.
func NewGroupEditor(window fyne.Window, sc *scene.Scene, st *app.State, g *scene.Group) *GroupEditor {
	return &GroupEditor{window: window, scene: sc, state: st, group: g}
}

// Show displays the modal.
func (e *GroupEditor) Show() {
	e.nameEntry = widget.NewEntry()
	e.nameEntry.SetText(e.group.Name)
	e.presetID = e.group.PresetID

	presetBox := container.NewVBox()
	var radios *widget.RadioGroup
	names := make([]string, len(e.scene.Presets))
	for i, p := range e.scene.Presets {
		names[i] = p.Name
		presetBox.Add(presetPreviewRow(p))
	}
	radios = widget.NewRadioGroup(names, func(selected string) {
		for _, p := range e.scene.Presets {
			if p.Name == selected {
				e.presetID = p.ID
				return
			}
		}
	})
	if p := e.scene.PresetByID(e.presetID); p != nil {
		radios.SetSelected(p.Name)
	}

	resizeCheck := widget.NewCheck("Resize", func(on bool) {
		e.state.SetResizeMode(on)
	})
	resizeCheck.SetChecked(e.state.ResizeMode())

	newPresetBtn := widget.NewButton("New color set", func() {
		id := fmt.Sprintf("custom-%d", len(e.scene.Presets)+1)
		e.scene.Presets = append(e.scene.Presets, scene.ColorPreset{
			ID: id, Name: "Custom " + id,
			LightBG: "#e0e0e0", LightBorder: "#808080",
			DarkBG: "#303030", DarkBorder: "#a0a0a0",
		})
		e.scene.GroupWindowHeight += groupEditorRowHeight
		e.state.SetModified(true)
		// Rebuild with the new preset in the list.
		e.dlg.Hide()
		e.Show()
	})

	deleteBtn := widget.NewButton("Delete group", func() {
		dialog.ShowConfirm("Delete Group",
			fmt.Sprintf("Delete group %q?", e.group.Name),
			func(ok bool) {
				if !ok {
					return
				}
				e.scene.RemoveGroup(e.group)
				e.state.SetResizeMode(false)
				e.state.SetModified(true)
				e.dlg.Hide()
			}, e.window)
	})

	content := container.NewVBox(
		widget.NewForm(widget.NewFormItem("Name", e.nameEntry)),
		widget.NewLabel("Color preset"),
		container.NewHBox(radios, presetBox),
		resizeCheck,
		newPresetBtn,
		deleteBtn,
	)

	e.dlg = dialog.NewCustomConfirm("Group", "Save", "Cancel", content,
		func(save bool) {
			e.state.SetResizeMode(false)
			if !save {
				return
			}
			e.group.Name = e.nameEntry.Text
			e.group.PresetID = e.presetID
			if p := e.scene.PresetByID(e.presetID); p != nil {
				e.group.LightBG = p.LightBG
				e.group.LightBorder = p.LightBorder
				e.group.DarkBG = p.DarkBG
				e.group.DarkBorder = p.DarkBorder
			}
			e.scene.Emit(scene.EventGroupsChanged, e.group)
			e.state.SetModified(true)
		}, e.window)

	height := float32(e.scene.GroupWindowHeight)
	if height < 300 {
		height = 300
	}
	e.dlg.Resize(fyne.NewSize(360, height))
	e.dlg.Show()
}

// Hide closes the editor, dropping resize mode.
func (e *GroupEditor) Hide() {
	if e.dlg != nil {
		e.dlg.Hide()
	}
	e.state.SetResizeMode(false)
}

// presetPreviewRow renders the light and dark swatches for one preset.
func presetPreviewRow(p scene.ColorPreset) fyne.CanvasObject {
	light := fynecanvas.NewRectangle(colorutil.ParseHexOr(p.LightBG, colorutil.Grey))
	light.StrokeColor = colorutil.ParseHexOr(p.LightBorder, colorutil.Black)
	light.StrokeWidth = 2
	light.SetMinSize(fyne.NewSize(40, 20))

	dark := fynecanvas.NewRectangle(colorutil.ParseHexOr(p.DarkBG, colorutil.Grey))
	dark.StrokeColor = colorutil.ParseHexOr(p.DarkBorder, colorutil.White)
	dark.StrokeWidth = 2
	dark.SetMinSize(fyne.NewSize(40, 20))

	return container.NewHBox(light, dark)
}
