// Package gui is the fyne desktop window of the viewer.
package gui

import (
	"context"
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/philipparndt/usdzview/internal/app"
	"github.com/philipparndt/usdzview/internal/config"
	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/internal/viewer"
	"github.com/philipparndt/usdzview/pkg/geometry"
	"github.com/philipparndt/usdzview/pkg/units"
)

const (
	title          = "usdzview"
	reloadDebounce = 500 * time.Millisecond
)

// Window is the viewer window
type Window struct {
	window   fyne.Window
	settings config.Settings
	log      zerolog.Logger
	loader   *model.Loader

	app     *app.App
	watcher io.Closer
}

// Run opens the window and blocks until it is closed. An empty source
// shows the welcome screen.
func Run(settings config.Settings, source string, log zerolog.Logger) error {
	loader, err := app.NewLoader(settings.USDZ, log)
	if err != nil {
		return err
	}

	a := fyneapp.NewWithID("io.github.philipparndt.usdzview")
	w := &Window{
		window:   a.NewWindow(title),
		settings: settings,
		log:      log,
		loader:   loader,
	}
	defer w.closeWatcher()

	if source != "" {
		w.open(source)
	} else {
		w.showWelcomeScreen()
	}

	w.window.SetOnClosed(w.closeWatcher)
	w.window.Resize(fyne.NewSize(settings.Window.Width, settings.Window.Height))
	w.window.ShowAndRun()
	return nil
}

func (w *Window) showWelcomeScreen() {
	welcomeLabel := widget.NewLabel("Welcome to usdzview")
	welcomeLabel.TextStyle = fyne.TextStyle{Bold: true}

	instructionLabel := widget.NewLabel("Open a USDZ or STL model to start measuring")

	openButton := widget.NewButton("Open Model", w.showFileDialog)

	content := container.NewVBox(
		layout.NewSpacer(),
		container.NewCenter(welcomeLabel),
		container.NewCenter(instructionLabel),
		layout.NewSpacer(),
		container.NewCenter(openButton),
		layout.NewSpacer(),
	)
	w.window.SetContent(content)
}

func (w *Window) showFileDialog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		w.open(reader.URI().Path())
	}, w.window)
}

// open loads source into a fresh measurement session
func (w *Window) open(source string) {
	port, err := app.NewPort(w.settings.Persistence, source)
	if err != nil {
		dialog.ShowError(err, w.window)
		return
	}

	sc := scene.New()
	orbit := viewer.NewOrbit(viewer.NewCamera(geometry.NewBoundingBox()))
	vp := viewer.NewViewport(sc, orbit)

	opts := app.OptionsFromSettings(w.settings)
	opts.Port = port
	opts.Scheduler = scheduler{}
	opts.Loader = w.loader
	opts.Logger = w.log
	a := app.New(sc, orbit, vp, opts)

	if err := a.LoadModel(context.Background(), source); err != nil {
		dialog.ShowError(err, w.window)
		return
	}

	w.closeWatcher()
	w.app = a
	vp.SetInputHandler(a)
	vp.SetLabelSource(a.Labels)
	a.SetOnRedraw(vp.Refresh)

	w.setupMainUI(a, vp, port)
	a.Restore()

	if w.settings.Watch {
		closer, err := a.Watch(reloadDebounce, fyne.Do)
		if err != nil {
			w.log.Warn().Err(err).Msg("auto-reload will not be available")
		}
		w.watcher = closer
	}
	w.window.SetTitle(fmt.Sprintf("%s - %s", title, a.Model().Name))
}

func (w *Window) setupMainUI(a *app.App, vp *viewer.Viewport, port persist.Port) {
	table := NewTable()
	a.SetSurface(table)

	unitSelect := widget.NewSelect(units.Tokens(), func(token string) {
		a.SetUnit(units.Parse(token))
	})
	unitSelect.SetSelected(string(a.Unit()))

	clearButton := widget.NewButtonWithIcon("Clear All", theme.ContentClearIcon(), a.Clear)

	link := widget.NewEntry()
	link.SetText(a.ShareLink())
	copyButton := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		w.window.Clipboard().SetContent(link.Text)
	})
	if f, ok := port.(*persist.Fragment); ok {
		f.OnChange(link.SetText)
	}
	shareRow := container.NewBorder(nil, nil, nil, copyButton, link)
	if a.ShareLink() == "" {
		shareRow.Hide()
	}

	m := a.Model()
	modelInfo := widget.NewLabel(fmt.Sprintf(
		"Model: %s\nFormat: %s\nTriangles: %d",
		m.Name,
		m.Format,
		m.TriangleCount(),
	))

	instructions := widget.NewLabel(
		"Instructions:\n" +
			"• Click the model twice to measure\n" +
			"• Drag a marker to move it\n" +
			"• Drag elsewhere to rotate, scroll to zoom\n" +
			"• Esc cancels a drag or the first point",
	)
	instructions.Wrapping = fyne.TextWrapWord

	openButton := widget.NewButton("Open Model", w.showFileDialog)

	infoPanel := container.NewVBox(
		widget.NewLabel("Model Information:"),
		widget.NewSeparator(),
		modelInfo,
		widget.NewSeparator(),
		widget.NewLabel("Measurements:"),
		widget.NewSeparator(),
		table.Content(),
		container.NewBorder(nil, nil, widget.NewLabel("Unit"), nil, unitSelect),
		clearButton,
		widget.NewSeparator(),
		widget.NewLabel("Share:"),
		shareRow,
		widget.NewSeparator(),
		instructions,
		widget.NewSeparator(),
		openButton,
	)

	infoScroll := container.NewVScroll(infoPanel)
	infoScroll.SetMinSize(fyne.NewSize(300, 0))

	content := container.NewBorder(
		nil,        // top
		nil,        // bottom
		nil,        // left
		infoScroll, // right
		vp,         // center
	)
	w.window.SetContent(content)

	w.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			a.Escape()
		}
	})
}

func (w *Window) closeWatcher() {
	if w.watcher == nil {
		return
	}
	if err := w.watcher.Close(); err != nil {
		w.log.Debug().Err(err).Msg("failed to close watcher")
	}
	w.watcher = nil
}
