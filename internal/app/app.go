// Package app composes the measurement subsystem around pointer input:
// picking, placement, marker drags, the table and persistence.
package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/philipparndt/usdzview/internal/config"
	"github.com/philipparndt/usdzview/internal/display"
	"github.com/philipparndt/usdzview/internal/drag"
	"github.com/philipparndt/usdzview/internal/grab"
	"github.com/philipparndt/usdzview/internal/measurement"
	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/internal/persist"
	"github.com/philipparndt/usdzview/internal/picker"
	"github.com/philipparndt/usdzview/internal/pointer"
	"github.com/philipparndt/usdzview/internal/scene"
	"github.com/philipparndt/usdzview/internal/viewer"
	"github.com/philipparndt/usdzview/pkg/geometry"
	"github.com/philipparndt/usdzview/pkg/units"
	"github.com/philipparndt/usdzview/pkg/usdz"
)

// View is the on-screen viewport the controller works against
type View interface {
	ViewportSize() (width, height float64)
	ProjectToScreen(p geometry.Vector3) (pointer.Position, bool)
}

// Options tune the controller
type Options struct {
	Unit           units.Unit
	UnlockDelay    time.Duration
	ClickTolerance float64
	PickRadius     float64
	Port           persist.Port
	Scheduler      drag.Scheduler
	Loader         *model.Loader
	Logger         zerolog.Logger
}

// OptionsFromSettings maps configuration onto controller options
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		Unit:           units.Parse(s.Unit),
		UnlockDelay:    s.Drag.UnlockDelay,
		ClickTolerance: s.Click.Tolerance,
		PickRadius:     s.Marker.PickRadius,
	}
}

// NewPort creates the persistence backend for the model at source
func NewPort(cfg config.PersistenceConfig, source string) (persist.Port, error) {
	source = model.ExpandPath(source)
	switch cfg.Backend {
	case config.BackendFragment, "":
		return persist.NewFragment(persist.ViewerLink(source))
	case config.BackendFile:
		if model.IsRemote(source) {
			return nil, fmt.Errorf("file persistence needs a local model, got %s", source)
		}
		return persist.NewFile(source), nil
	case config.BackendSQLite:
		db, err := persist.OpenLibrary(cfg.Database)
		if err != nil {
			return nil, err
		}
		if !model.IsRemote(source) {
			if abs, err := filepath.Abs(source); err == nil {
				source = abs
			}
		}
		return persist.NewLibrary(db, source), nil
	case config.BackendNone:
		return persist.Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Backend)
	}
}

// NewLoader creates a model loader using the configured USDZ converter
func NewLoader(s config.USDZConfig, log zerolog.Logger) (*model.Loader, error) {
	argv, err := s.Argv()
	if err != nil {
		return nil, err
	}
	return model.NewLoader(usdz.NewConverter("", argv), log), nil
}

// App is the measurement controller
type App struct {
	log    zerolog.Logger
	scene  *scene.Scene
	orbit  *viewer.Orbit
	view   View
	port   persist.Port
	loader *model.Loader

	feed    *pointer.Feed
	click   *pointer.ClickClassifier
	picker  *picker.Picker
	grab    *grab.Controls
	store   *measurement.Store
	drag    *drag.Coordinator
	display *display.Sync

	model    *model.Model
	last     pointer.Position
	onRedraw func()
}

// New wires the subsystem. view supplies the viewport size and projection.
func New(sc *scene.Scene, orbit *viewer.Orbit, view View, opts Options) *App {
	a := &App{
		log:    opts.Logger,
		scene:  sc,
		orbit:  orbit,
		view:   view,
		port:   opts.Port,
		loader: opts.Loader,
		feed:   pointer.NewFeed(),
		click:  pointer.NewClickClassifier(opts.ClickTolerance),
	}
	if a.port == nil {
		a.port = persist.Nop{}
	}
	if a.loader == nil {
		a.loader = model.NewLoader(nil, a.log)
	}

	a.picker = picker.New(orbit.Camera(), sc)
	a.grab = grab.New(view, opts.PickRadius)
	a.store = measurement.NewStore(sc,
		measurement.WithDraggables(a.grab),
		measurement.WithPort(a.port),
		measurement.WithLogger(a.log.With().Str("component", "store").Logger()),
	)

	dragOpts := []drag.Option{
		drag.WithLogger(a.log.With().Str("component", "drag").Logger()),
	}
	if opts.UnlockDelay > 0 {
		dragOpts = append(dragOpts, drag.WithUnlockDelay(opts.UnlockDelay))
	}
	if opts.Scheduler != nil {
		dragOpts = append(dragOpts, drag.WithScheduler(opts.Scheduler))
	}
	a.drag = drag.New(a.store, a.picker, orbit, a.feed, view, dragOpts...)
	a.grab.SetListener(a.drag)

	a.display = display.NewSync(a.store, nil, opts.Unit)
	a.store.OnChange(a.changed)
	orbit.SetOnChange(a.redraw)
	return a
}

// Restore loads the persisted measurements. Unreadable state is logged
// and replaced by an empty set.
func (a *App) Restore() {
	a.store.Restore(persist.LoadOrEmpty(a.port, a.log))
}

// SetOnRedraw registers the callback asking the viewport to repaint
func (a *App) SetOnRedraw(fn func()) {
	a.onRedraw = fn
}

// SetSurface attaches the measurement table
func (a *App) SetSurface(surface display.Surface) {
	a.display.SetSurface(surface)
}

// Store returns the measurement store
func (a *App) Store() *measurement.Store {
	return a.store
}

// Display returns the table sync
func (a *App) Display() *display.Sync {
	return a.display
}

// Drag returns the drag coordinator
func (a *App) Drag() *drag.Coordinator {
	return a.drag
}

// Grab returns the draggable marker set
func (a *App) Grab() *grab.Controls {
	return a.grab
}

// Model returns the loaded model, or nil
func (a *App) Model() *model.Model {
	return a.model
}

func (a *App) changed() {
	a.display.Refresh()
	a.redraw()
}

func (a *App) redraw() {
	if a.onRedraw != nil {
		a.onRedraw()
	}
}
