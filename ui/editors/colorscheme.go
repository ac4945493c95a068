package editors

import (
	"image/color"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"nodesailor/internal/app"
	"nodesailor/internal/scene"
	"nodesailor/pkg/colorutil"
)

// ColorSchemeEditor edits the theme token sets: a variant picker, one
// color well per token, and JSON load/save of the active set.
type ColorSchemeEditor struct {
	fyneApp fyne.App
	window  fyne.Window
	state   *app.State
	theme   *app.NetworkTheme

	wells *fyne.Container
}

// NewColorSchemeEditor creates the editor over the active theme.
func NewColorSchemeEditor(fyneApp fyne.App, st *app.State, th *app.NetworkTheme) *ColorSchemeEditor {
	return &ColorSchemeEditor{fyneApp: fyneApp, state: st, theme: th}
}

// Show opens (or focuses) the editor window.
func (e *ColorSchemeEditor) Show() {
	if e.window != nil {
		e.window.RequestFocus()
		return
	}
	e.window = e.fyneApp.NewWindow("Color Scheme")

	variant := widget.NewRadioGroup([]string{"Light", "Dark"}, func(selected string) {
		e.state.SetDark(selected == "Dark")
		e.rebuild()
	})
	if e.state.Dark() {
		variant.SetSelected("Dark")
	} else {
		variant.SetSelected("Light")
	}

	loadBtn := widget.NewButton("Load…", func() { e.load() })
	saveBtn := widget.NewButton("Save…", func() { e.save() })

	e.wells = container.NewVBox()
	e.rebuild()

	e.window.SetContent(container.NewBorder(
		container.NewHBox(variant, loadBtn, saveBtn), nil, nil, nil,
		container.NewVScroll(e.wells)))
	e.window.Resize(fyne.NewSize(380, 460))
	e.window.SetOnClosed(func() { e.window = nil })
	e.window.Show()
}

// tokenRef points a well at one token in the active set.
type tokenRef struct {
	name string
	get  func(*app.TokenSet) color.RGBA
	set  func(*app.TokenSet, color.RGBA)
}

func tokenRefs() []tokenRef {
	refs := []tokenRef{
		{"Canvas background",
			func(t *app.TokenSet) color.RGBA { return t.CanvasBackground },
			func(t *app.TokenSet, c color.RGBA) { t.CanvasBackground = c }},
		{"Connection line",
			func(t *app.TokenSet) color.RGBA { return t.ConnectionLine },
			func(t *app.TokenSet, c color.RGBA) { t.ConnectionLine = c }},
		{"Connection label",
			func(t *app.TokenSet) color.RGBA { return t.ConnectionLabel },
			func(t *app.TokenSet, c color.RGBA) { t.ConnectionLabel = c }},
		{"Node text",
			func(t *app.TokenSet) color.RGBA { return t.NodeText },
			func(t *app.TokenSet, c color.RGBA) { t.NodeText = c }},
		{"Sticky text",
			func(t *app.TokenSet) color.RGBA { return t.StickyText },
			func(t *app.TokenSet, c color.RGBA) { t.StickyText = c }},
		{"Sticky background",
			func(t *app.TokenSet) color.RGBA { return t.StickyBackground },
			func(t *app.TokenSet, c color.RGBA) { t.StickyBackground = c }},
		{"Group name",
			func(t *app.TokenSet) color.RGBA { return t.GroupName },
			func(t *app.TokenSet, c color.RGBA) { t.GroupName = c }},
		{"Accent",
			func(t *app.TokenSet) color.RGBA { return t.Accent },
			func(t *app.TokenSet, c color.RGBA) { t.Accent = c }},
		{"Highlight",
			func(t *app.TokenSet) color.RGBA { return t.Highlight },
			func(t *app.TokenSet, c color.RGBA) { t.Highlight = c }},
	}
	for st, label := range map[scene.Status]string{
		scene.StatusDefault: "Node default",
		scene.StatusSuccess: "Node success",
		scene.StatusPartial: "Node partial",
		scene.StatusFailure: "Node failure",
		scene.StatusHost:    "Node host",
		scene.StatusGreyed:  "Node greyed",
	} {
		st := st
		refs = append(refs, tokenRef{label,
			func(t *app.TokenSet) color.RGBA { return t.StatusColor(st) },
			func(t *app.TokenSet, c color.RGBA) { t.Status[st] = c }})
	}
	return refs
}

func (e *ColorSchemeEditor) rebuild() {
	e.wells.Objects = nil
	tokens := e.theme.Tokens()

	for _, ref := range tokenRefs() {
		ref := ref
		swatch := fynecanvas.NewRectangle(ref.get(tokens))
		swatch.SetMinSize(fyne.NewSize(28, 20))

		entry := widget.NewEntry()
		entry.SetText(colorutil.Hex(ref.get(tokens)))
		entry.OnSubmitted = func(s string) {
			c, err := colorutil.ParseHex(s)
			if err != nil {
				dialog.ShowError(err, e.window)
				return
			}
			ref.set(tokens, c)
			swatch.FillColor = c
			swatch.Refresh()
			e.state.Emit(app.EventThemeChanged, e.state.Dark())
		}

		e.wells.Add(container.NewBorder(nil, nil,
			widget.NewLabel(ref.name), swatch, entry))
	}
	e.wells.Refresh()
}

func (e *ColorSchemeEditor) load() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		tokens, err := app.LoadTokenSet(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		if e.state.Dark() {
			*e.theme.Dark = *tokens
		} else {
			*e.theme.Light = *tokens
		}
		e.rebuild()
		e.state.Emit(app.EventThemeChanged, e.state.Dark())
	}, e.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	fd.Show()
}

func (e *ColorSchemeEditor) save() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".json" {
			path += ".json"
		}
		if err := app.SaveTokenSet(path, e.theme.Tokens()); err != nil {
			dialog.ShowError(err, e.window)
		}
	}, e.window)
	fd.SetFileName("colorscheme.json")
	fd.Show()
}
