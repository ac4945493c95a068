package mainwindow

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/stretchr/testify/require"
)

func TestHideTransientsClosesPopups(t *testing.T) {
	a := test.NewApp()
	w := a.NewWindow("map")
	w.Resize(fyne.NewSize(400, 300))

	mw := &MainWindow{Window: w}
	mw.infoLabel = widget.NewLabel("trunk port")
	mw.infoPopup = widget.NewPopUp(mw.infoLabel, w.Canvas())
	mw.contextMenu = widget.NewPopUpMenu(
		fyne.NewMenu("", fyne.NewMenuItem("Ping", func() {})), w.Canvas())

	mw.infoPopup.ShowAtPosition(fyne.NewPos(10, 10))
	mw.contextMenu.ShowAtPosition(fyne.NewPos(20, 20))
	require.True(t, mw.infoPopup.Visible())
	require.True(t, mw.contextMenu.Visible())

	// A zoom must dismiss both kinds of transient popup.
	mw.hideTransients()
	require.False(t, mw.infoPopup.Visible())
	require.False(t, mw.contextMenu.Visible())
}

func TestHideTransientsWithNothingOpen(t *testing.T) {
	mw := &MainWindow{}
	mw.hideTransients()
}
