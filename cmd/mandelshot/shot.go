package main

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/renderer/bigcpu"
	"github.com/stewi1014/glmandel/renderer/cpu"
	"github.com/stewi1014/glmandel/renderer/native"
)

type config struct {
	x, y, zoom float64
	backend    string
	out        string
	opts       export.Options
}

func (cfg config) camera() (camera.Camera, error) {
	cam := camera.Default()
	cam.Viewport = camera.Viewport{Width: cfg.opts.Width, Height: cfg.opts.Height}
	cam.Position = mgl64.Vec2{cfg.x, cfg.y}
	cam.SetZoom(cfg.zoom)
	cam.ClampPosition()
	return cam, cam.Validate()
}

// shoot renders the configured view to cfg.out.
func shoot(ctx context.Context, cfg config) error {
	log := logging.For("Shot")

	cam, err := cfg.camera()
	if err != nil {
		return err
	}

	progress := &export.Progress{}
	done := make(chan struct{})
	defer close(done)
	go reportProgress(progress, done)

	start := time.Now()
	log.Info("rendering", "out", cfg.out, "width", cfg.opts.Width, "height", cfg.opts.Height, "zoom", cam.Zoom, "iterations", cam.MaxIterations)

	if cfg.backend == "" {
		err = export.SavePNG(ctx, cfg.out, cam, cfg.opts, progress)
	} else {
		err = renderWithBackend(ctx, cfg, cam, progress)
	}
	if err != nil {
		return err
	}

	log.Info("image saved", "out", cfg.out, "took", time.Since(start))
	return nil
}

// completer is implemented by progressive backends.
type completer interface {
	Complete() bool
}

func newBackend(kind renderer.Kind, presenter renderer.Presenter) (renderer.Backend, error) {
	switch kind {
	case renderer.KindCPU:
		return cpu.New(presenter), nil
	case renderer.KindBigCPU:
		return bigcpu.New(presenter), nil
	case renderer.KindNative:
		return native.New(presenter), nil
	}
	return nil, fmt.Errorf("%v renderer cannot render offscreen: %w", kind, renderer.ErrCapabilityUnavailable)
}

func renderWithBackend(ctx context.Context, cfg config, cam camera.Camera, progress *export.Progress) error {
	kind, err := renderer.ParseKind(cfg.backend)
	if err != nil {
		return err
	}

	presenter := &renderer.ImagePresenter{}
	backend, err := newBackend(kind, presenter)
	if err != nil {
		return err
	}
	if err := backend.Setup(ctx); err != nil {
		return err
	}
	defer backend.Destroy()

	for {
		if err := backend.Step(ctx, &cam); err != nil {
			return err
		}
		c, progressive := backend.(completer)
		if presenter.Image != nil && (!progressive || c.Complete()) {
			break
		}
	}

	return export.Save(ctx, cfg.out, presenter.Image, progress)
}

func reportProgress(progress *export.Progress, done <-chan struct{}) {
	log := logging.For("Shot")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Info("progress", "stage", progress.Stage(), "fraction", fmt.Sprintf("%.2f", progress.Fraction()))
		case <-done:
			return
		}
	}
}
