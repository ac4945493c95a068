package editors

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
)

// vlanRow is one editable schema entry.
type vlanRow struct {
	key     string
	display string
}

// VLANEditor adds, removes, renames, and reorders VLAN keys. Saving
// rewrites the scene schema: dropped keys lose their addresses on every
// node, new keys are propagated with empty addresses.
type VLANEditor struct {
	window fyne.Window
	scene  *scene.Scene
	state  *app.State

	rows []vlanRow
	list *fyne.Container
	dlg  dialog.Dialog
}

// NewVLANEditor creates the editor from the current schema.
func NewVLANEditor(window fyne.Window, sc *scene.Scene, st *app.State) *VLANEditor {
	e := &VLANEditor{window: window, scene: sc, state: st}
	for _, key := range sc.VLANOrder {
		e.rows = append(e.rows, vlanRow{key: key, display: sc.VLANLabels[key]})
	}
	return e
}

// Show displays the editor.
func (e *VLANEditor) Show() {
	e.list = container.NewVBox()
	e.rebuild()

	addBtn := widget.NewButton("Add VLAN", func() {
		e.rows = append(e.rows, vlanRow{
			key:     fmt.Sprintf("VLAN_%d", 100*(len(e.rows)+1)),
			display: "",
		})
		e.rebuild()
	})

	content := container.NewBorder(nil, addBtn, nil, nil,
		container.NewVScroll(e.list))

	e.dlg = dialog.NewCustomConfirm("VLAN Labels", "Save", "Cancel", content,
		func(save bool) {
			if !save {
				return
			}
			if err := e.apply(); err != nil {
				dialog.ShowError(err, e.window)
			}
		}, e.window)
	e.dlg.Resize(fyne.NewSize(420, 380))
	e.dlg.Show()
}

func (e *VLANEditor) rebuild() {
	e.list.Objects = nil
	for i := range e.rows {
		i := i
		keyEntry := widget.NewEntry()
		keyEntry.SetText(e.rows[i].key)
		keyEntry.OnChanged = func(s string) { e.rows[i].key = s }

		displayEntry := widget.NewEntry()
		displayEntry.SetText(e.rows[i].display)
		displayEntry.SetPlaceHolder("display name")
		displayEntry.OnChanged = func(s string) { e.rows[i].display = s }

		up := widget.NewButton("↑", func() {
			if i > 0 {
				e.rows[i-1], e.rows[i] = e.rows[i], e.rows[i-1]
				e.rebuild()
			}
		})
		down := widget.NewButton("↓", func() {
			if i < len(e.rows)-1 {
				e.rows[i+1], e.rows[i] = e.rows[i], e.rows[i+1]
				e.rebuild()
			}
		})
		remove := widget.NewButton("✕", func() {
			e.rows = append(e.rows[:i], e.rows[i+1:]...)
			e.rebuild()
		})

		e.list.Add(container.NewBorder(nil, nil, nil,
			container.NewHBox(up, down, remove),
			container.NewGridWithColumns(2, keyEntry, displayEntry)))
	}
	e.list.Refresh()
}

func (e *VLANEditor) apply() error {
	labels, order, err := vlanSchemaFromRows(e.rows)
	if err != nil {
		return err
	}
	e.scene.SetVLANSchema(labels, order)
	e.state.SetModified(true)
	return nil
}

// vlanSchemaFromRows validates the edited rows and builds the schema. Keys
// must carry the VLAN_ prefix: node addresses are stored under the key as a
// top-level field in the map file, and only prefixed fields are read back.
func vlanSchemaFromRows(rows []vlanRow) (map[string]string, []string, error) {
	labels := make(map[string]string, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		key := strings.TrimSpace(row.key)
		if key == "" {
			return nil, nil, errors.New("VLAN key must not be empty")
		}
		if !strings.HasPrefix(key, "VLAN_") {
			return nil, nil, fmt.Errorf("VLAN key %q must start with VLAN_", key)
		}
		if _, dup := labels[key]; dup {
			return nil, nil, fmt.Errorf("duplicate VLAN key %q", key)
		}
		display := strings.TrimSpace(row.display)
		if display == "" {
			display = key
		}
		labels[key] = display
		order = append(order, key)
	}
	return labels, order, nil
}
