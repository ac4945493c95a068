package dialogs

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowConnection collects a connection's label and info text. Used both
// when committing a new connection draft and when editing an existing one.
func ShowConnection(window fyne.Window, title, label, info string, onSave func(label, info string)) {
	labelEntry := widget.NewEntry()
	labelEntry.SetText(label)
	infoEntry := widget.NewMultiLineEntry()
	infoEntry.SetMinRowsVisible(3)
	infoEntry.SetText(info)

	form := widget.NewForm(
		widget.NewFormItem("Label", labelEntry),
		widget.NewFormItem("Info", infoEntry),
	)

	dlg := dialog.NewCustomConfirm(title, "Save", "Cancel", form,
		func(save bool) {
			if !save {
				return
			}
			onSave(strings.TrimSpace(labelEntry.Text), strings.TrimRight(infoEntry.Text, "\n"))
		}, window)
	dlg.Resize(fyne.NewSize(380, 0))
	dlg.Show()
	window.Canvas().Focus(labelEntry)
}
