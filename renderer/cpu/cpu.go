// Package cpu renders the Mandelbrot set with a scalar float64 loop.
package cpu

import (
	"context"
	"log/slog"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/fractal"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
)

var _ renderer.Backend = (*Backend)(nil)

type Backend struct {
	presenter renderer.Presenter
	log       *slog.Logger

	pix      []byte
	viewport camera.Viewport
	ready    bool
}

func New(presenter renderer.Presenter) *Backend {
	return &Backend{
		presenter: presenter,
		log:       logging.For("CpuRenderer"),
	}
}

func (b *Backend) Kind() renderer.Kind { return renderer.KindCPU }

func (b *Backend) Setup(ctx context.Context) error {
	b.ready = true
	b.log.Info("setup")
	return nil
}

// Pixels returns the RGBA8 buffer of the last frame.
func (b *Backend) Pixels() []byte {
	return b.pix
}

func (b *Backend) resize(v camera.Viewport) {
	if b.viewport == v && len(b.pix) == v.Size() {
		return
	}
	b.viewport = v
	b.pix = make([]byte, v.Size())
	b.log.Debug("resized buffer", "width", v.Width, "height", v.Height, "bytes", len(b.pix))
}

func (b *Backend) Step(ctx context.Context, cam *camera.Camera) error {
	if !b.ready {
		return renderer.ErrDestroyed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.resize(cam.Viewport)
	if cam.Viewport.Empty() {
		return nil
	}

	fractal.Rasterize(cam, fractal.RGBAWriter(b.pix, cam.Viewport.Width))

	if b.presenter == nil {
		return nil
	}
	return b.presenter.Present(b.pix, cam.Viewport.Width, cam.Viewport.Height)
}

func (b *Backend) Destroy() error {
	if !b.ready {
		return nil
	}
	b.ready = false
	b.pix = nil
	b.viewport = camera.Viewport{}
	b.log.Info("destroyed")
	return nil
}
