// Command mandeltouch is a touch-first Mandelbrot viewer.
//
// It draws with the pixel backends only. Touch contacts drive the gesture
// controller; a mouse and wheel drive the desktop controller.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stewi1014/glmandel/app"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/renderer/bigcpu"
	"github.com/stewi1014/glmandel/renderer/cpu"
	"github.com/stewi1014/glmandel/renderer/native"
	"github.com/stewi1014/glmandel/settings"
	"github.com/stewi1014/glmandel/stats"
)

func main() {
	var (
		input   = flag.String("input", "auto", "Input handling: auto, touch or desktop.")
		backend = flag.String("backend", "", "Renderer: cpu, bigcpu or native. Defaults to the last one used.")
		tps     = flag.Int("tps", 60, "Ticks per second.")
		debug   = flag.Bool("debug", false, "Verbose logging and strict camera checks.")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	log := logging.For("Main")

	if err := run(*input, *backend, *tps, *debug); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func run(input, backend string, tps int, debug bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store settings.Store
	if path, err := settings.DefaultPath(); err == nil {
		store = settings.FileStore{Path: path}
	}

	kind := app.InitialBackend(store, renderer.KindCPU)
	if backend != "" {
		var err error
		kind, err = renderer.ParseKind(backend)
		if err != nil {
			return err
		}
	}

	r, err := newRouter(input, touchDPI, toggleFullscreen)
	if err != nil {
		return err
	}

	presenter := &ebitenPresenter{}
	g := &game{
		ctx:       ctx,
		router:    r,
		presenter: presenter,
		log:       logging.For("Game"),
	}
	g.mandel = app.New(app.Options{
		Factory:    newFactory(presenter),
		Controller: r,
		Backend:    kind,
		Fallback:   renderer.KindCPU,
		Debug:      debug,
		Stats:      stats.LogSink{Log: g.log},
		Settings:   store,
	})
	defer g.mandel.Close()

	ebiten.SetWindowTitle("GLMandel Touch")
	ebiten.SetWindowSize(1200, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)

	return ebiten.RunGame(g)
}

func toggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

// newFactory builds the backends available without a GL context.
func newFactory(presenter renderer.Presenter) renderer.Factory {
	return func(kind renderer.Kind) (renderer.Backend, error) {
		switch kind {
		case renderer.KindCPU:
			return cpu.New(presenter), nil
		case renderer.KindBigCPU:
			return bigcpu.New(presenter), nil
		case renderer.KindNative:
			return native.New(presenter), nil
		case renderer.KindGL:
			return nil, fmt.Errorf("%v renderer needs a GL host: %w", kind, renderer.ErrCapabilityUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", renderer.ErrUnknownKind, kind)
	}
}
