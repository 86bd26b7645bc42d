// Package app holds the application context shared by every host: the
// camera, its controller and the active render backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/settings"
	"github.com/stewi1014/glmandel/stats"
)

var ErrNoFactory = errors.New("app: no backend factory")

type Options struct {
	Factory    renderer.Factory
	Controller controller.Controller

	// Backend is set up by Start.
	Backend renderer.Kind

	// Fallback is tried when a switch fails and the previous backend
	// cannot be restored.
	Fallback renderer.Kind

	// Debug makes camera invariant violations fail the tick.
	Debug bool

	Stats    stats.Sink
	Settings settings.Store
}

type App struct {
	Camera camera.Camera

	controller controller.Controller
	factory    renderer.Factory
	backend    renderer.Backend
	initial    renderer.Kind
	fallback   renderer.Kind
	pending    *renderer.Kind

	debug    bool
	stats    *stats.Recorder
	settings settings.Store
	log      *slog.Logger
}

func New(opts Options) *App {
	return &App{
		Camera:     camera.Default(),
		controller: opts.Controller,
		factory:    opts.Factory,
		initial:    opts.Backend,
		fallback:   opts.Fallback,
		debug:      opts.Debug,
		stats:      stats.NewRecorder(opts.Stats),
		settings:   opts.Settings,
		log:        logging.For("Main"),
	}
}

// Start sets up the initial backend.
func (a *App) Start(ctx context.Context) error {
	a.log.Info("starting up", "backend", a.initial)
	return a.SetBackend(ctx, a.initial)
}

func (a *App) Controller() controller.Controller {
	return a.controller
}

func (a *App) Stats() *stats.Recorder {
	return a.stats
}

// Backend returns the active backend, or nil.
func (a *App) Backend() renderer.Backend {
	return a.backend
}

// Resize changes the viewport rendered by the next tick.
func (a *App) Resize(width, height int) {
	a.Camera.Viewport = camera.Viewport{Width: width, Height: height}
	a.log.Debug("viewport resized", "width", width, "height", height)
}

// RequestBackend queues a switch applied at the start of the next Tick.
func (a *App) RequestBackend(kind renderer.Kind) {
	a.pending = &kind
}

// Tick advances the camera by dt seconds and renders one frame.
//
// It returns an error if a queued backend switch failed or, in debug mode,
// if the camera left its valid range. Render errors are logged only.
func (a *App) Tick(ctx context.Context, dt float64) error {
	var switchErr error
	if a.pending != nil {
		kind := *a.pending
		a.pending = nil
		switchErr = a.SetBackend(ctx, kind)
	}

	if a.controller != nil {
		a.controller.Update(dt, &a.Camera)
	}

	if err := a.Camera.Validate(); err != nil {
		if a.debug {
			return errors.Join(switchErr, err)
		}
		a.log.Warn("clamping camera", "err", err)
		a.Camera.ClampZoomAndIterations()
	}

	if a.backend == nil {
		return switchErr
	}

	timer := a.stats.Start()
	err := a.backend.Step(ctx, &a.Camera)
	a.stats.Stop(timer)

	switch {
	case err == nil:
	case errors.Is(err, renderer.ErrResourceExhausted):
		a.log.Warn("frame skipped", "backend", a.backend.Kind(), "err", err)
	default:
		a.log.Error("step failed", "backend", a.backend.Kind(), "err", err)
	}
	return switchErr
}

// SetBackend destroys the active backend and sets up one of the given kind.
// On failure the previous kind, then the fallback kind, is restored and the
// setup error is returned.
func (a *App) SetBackend(ctx context.Context, kind renderer.Kind) error {
	if a.factory == nil {
		return ErrNoFactory
	}

	var previous *renderer.Kind
	if a.backend != nil {
		k := a.backend.Kind()
		previous = &k
		a.destroy()
	}
	a.stats.Reset()

	err := a.setup(ctx, kind)
	if err == nil {
		a.log.Info("backend ready", "backend", kind)
		a.save(kind)
		return nil
	}

	a.log.Error("backend setup failed", "backend", kind, "err", err)

	candidates := []renderer.Kind{a.fallback}
	if previous != nil {
		candidates = []renderer.Kind{*previous, a.fallback}
	}
	for _, k := range candidates {
		if k == kind {
			continue
		}
		if ferr := a.setup(ctx, k); ferr != nil {
			a.log.Error("fallback setup failed", "backend", k, "err", ferr)
			continue
		}
		a.log.Warn("fell back", "backend", k)
		break
	}

	return fmt.Errorf("app: switching to %v backend: %w", kind, err)
}

func (a *App) setup(ctx context.Context, kind renderer.Kind) error {
	b, err := a.factory(kind)
	if err != nil {
		return err
	}
	if err := b.Setup(ctx); err != nil {
		if derr := b.Destroy(); derr != nil {
			a.log.Warn("destroying failed backend", "backend", kind, "err", derr)
		}
		return err
	}
	a.backend = b
	return nil
}

func (a *App) destroy() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Destroy(); err != nil {
		a.log.Warn("destroy failed", "backend", a.backend.Kind(), "err", err)
	}
	a.backend = nil
}

func (a *App) save(kind renderer.Kind) {
	if a.settings == nil {
		return
	}
	if err := a.settings.Save(settings.Settings{Backend: kind.String()}); err != nil {
		a.log.Warn("saving settings", "err", err)
	}
}

// Close destroys the active backend.
func (a *App) Close() error {
	if a.backend == nil {
		return nil
	}
	err := a.backend.Destroy()
	a.backend = nil
	return err
}

// InitialBackend picks the backend to start with: the stored choice when it
// names a known kind, otherwise def.
func InitialBackend(store settings.Store, def renderer.Kind) renderer.Kind {
	if store == nil {
		return def
	}
	s, err := store.Load()
	if err != nil || s.Backend == "" {
		return def
	}
	kind, err := renderer.ParseKind(s.Backend)
	if err != nil {
		return def
	}
	return kind
}
