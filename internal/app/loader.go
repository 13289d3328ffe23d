package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/philipparndt/usdzview/internal/model"
	"github.com/philipparndt/usdzview/pkg/watcher"
)

// LoadModel loads source and frames it. Measurements are left alone.
func (a *App) LoadModel(ctx context.Context, source string) error {
	m, err := a.loader.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}
	a.applyModel(m, true)
	return nil
}

// Reload loads the current model again, keeping camera and measurements
func (a *App) Reload(ctx context.Context) error {
	if a.model == nil {
		return nil
	}
	m, err := a.loader.Load(ctx, a.model.Source)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", a.model.Source, err)
	}
	a.applyModel(m, false)
	return nil
}

// applyModel swaps the model in; it must run on the UI thread
func (a *App) applyModel(m *model.Model, fit bool) {
	a.model = m
	a.scene.SetModel(m.Group)
	if fit {
		a.orbit.Fit(m.Bounds())
	}
	a.log.Info().
		Str("model", m.Name).
		Int("triangles", m.TriangleCount()).
		Bool("reload", !fit).
		Msg("model ready")
	a.redraw()
}

// Watch reloads the model whenever its file changes. The model is loaded
// on the watcher goroutine and handed to dispatch for the swap, so
// dispatch must run its argument on the UI thread. Remote models are not
// watched and Watch returns a nil closer.
func (a *App) Watch(debounce time.Duration, dispatch func(func())) (io.Closer, error) {
	if a.model == nil || a.model.LocalPath == "" {
		return nil, nil
	}

	fw, err := watcher.NewFileWatcher(debounce, a.log)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	source := a.model.Source
	callback := func(changed string) {
		a.log.Info().Str("file", changed).Msg("model changed, reloading")
		start := time.Now()
		m, err := a.loader.Load(context.Background(), source)
		if err != nil {
			a.log.Warn().Err(err).Msg("reload failed")
			return
		}
		dispatch(func() {
			a.applyModel(m, false)
			a.log.Debug().Dur("elapsed", time.Since(start)).Msg("model reloaded")
		})
	}

	if err := fw.Watch([]string{a.model.LocalPath}, callback); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", a.model.LocalPath, err)
	}
	fw.Start()
	return fw, nil
}
