package dialogs

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/scene"
	"nodesailor/pkg/geometry"
)

// ShowSticky opens the sticky note modal. When note is nil a new note is
// created at the given point; otherwise the note's text is edited.
func ShowSticky(window fyne.Window, sc *scene.Scene, note *scene.StickyNote, at geometry.Point2D, onSave func(*scene.StickyNote)) {
	entry := widget.NewMultiLineEntry()
	entry.SetMinRowsVisible(4)
	title := "New Sticky Note"
	if note != nil {
		title = "Edit Sticky Note"
		entry.SetText(note.Text)
	}

	dlg := dialog.NewCustomConfirm(title, "Save", "Cancel", entry,
		func(save bool) {
			if !save {
				return
			}
			text := strings.TrimRight(entry.Text, "\n")
			if text == "" {
				return
			}
			n := note
			if n == nil {
				n = sc.AddNote(text, at)
			} else {
				n.Text = text
				sc.Emit(scene.EventNotesChanged, n)
			}
			if onSave != nil {
				onSave(n)
			}
		}, window)
	dlg.Resize(fyne.NewSize(360, 220))
	dlg.Show()
	window.Canvas().Focus(entry)
}
