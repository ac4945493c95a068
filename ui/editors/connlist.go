package editors

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
)

// ConnectionList lists every connection with read-only endpoints,
// editable label and info, and a delete action.
type ConnectionList struct {
	fyneApp fyne.App
	window  fyne.Window
	scene   *scene.Scene
	state   *app.State

	list *fyne.Container
}

// NewConnectionList creates the editor window.
func NewConnectionList(fyneApp fyne.App, sc *scene.Scene, st *app.State) *ConnectionList {
	return &ConnectionList{fyneApp: fyneApp, scene: sc, state: st}
}

// Show opens (or focuses) the editor window.
func (e *ConnectionList) Show() {
	if e.window != nil {
		e.window.RequestFocus()
		return
	}
	e.window = e.fyneApp.NewWindow("Connections")
	e.list = container.NewVBox()
	e.rebuild()

	refresh := func(interface{}) {
		if e.window != nil {
			e.rebuild()
		}
	}
	off := []func(){
		e.scene.On(scene.EventConnectionsChanged, refresh),
		e.scene.On(scene.EventNodesChanged, refresh),
		e.scene.On(scene.EventLoaded, refresh),
		e.scene.On(scene.EventCleared, refresh),
	}

	e.window.SetContent(container.NewVScroll(e.list))
	e.window.Resize(fyne.NewSize(640, 400))
	e.window.SetOnClosed(func() {
		for _, fn := range off {
			fn()
		}
		e.window = nil
	})
	e.window.Show()
}

func (e *ConnectionList) rebuild() {
	e.list.Objects = nil
	for _, c := range e.scene.Connections {
		c := c

		endpoints := widget.NewLabel(c.From.Name + " — " + c.To.Name)

		labelEntry := widget.NewEntry()
		labelEntry.SetText(c.Label)
		labelEntry.OnChanged = func(s string) {
			c.Label = s
			e.state.SetModified(true)
		}

		infoEntry := widget.NewEntry()
		infoEntry.SetText(c.Info)
		infoEntry.SetPlaceHolder("info")
		infoEntry.OnChanged = func(s string) {
			c.Info = s
			e.state.SetModified(true)
		}

		deleteBtn := widget.NewButton("Delete", func() {
			e.scene.RemoveConnection(c)
			e.state.SetModified(true)
			e.rebuild()
		})

		e.list.Add(container.NewBorder(nil, nil, endpoints, deleteBtn,
			container.NewGridWithColumns(2, labelEntry, infoEntry)))
	}
	e.list.Refresh()
}
