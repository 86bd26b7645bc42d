// Package bigcpu renders with math/big floats, a few thousand pixels per
// step. It is slow and exists as a precision reference for the other
// backends.
package bigcpu

import (
	"context"
	"log/slog"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/fractal"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
)

const (
	DefaultPrec          = 128
	DefaultPixelsPerStep = 4096
)

var _ renderer.Backend = (*Backend)(nil)

type Backend struct {
	// Prec is the mantissa precision in bits.
	Prec uint

	// PixelsPerStep bounds the work done by one Step.
	PixelsPerStep int

	presenter renderer.Presenter
	log       *slog.Logger

	pix   []byte
	frame camera.Camera
	next  int
	ready bool
}

func New(presenter renderer.Presenter) *Backend {
	return &Backend{
		Prec:          DefaultPrec,
		PixelsPerStep: DefaultPixelsPerStep,
		presenter:     presenter,
		log:           logging.For("BigCpuRenderer"),
	}
}

func (b *Backend) Kind() renderer.Kind { return renderer.KindBigCPU }

func (b *Backend) Setup(ctx context.Context) error {
	b.ready = true
	b.next = 0
	b.log.Info("setup", "prec", b.Prec)
	return nil
}

// Pixels returns the RGBA8 buffer being filled.
func (b *Backend) Pixels() []byte {
	return b.pix
}

// Complete reports whether the current camera has been fully rendered.
func (b *Backend) Complete() bool {
	return b.next >= b.frame.Viewport.Width*b.frame.Viewport.Height
}

func (b *Backend) restart(cam *camera.Camera) {
	if len(b.pix) != cam.Viewport.Size() {
		b.pix = make([]byte, cam.Viewport.Size())
	}
	b.frame = *cam
	b.next = 0
}

func (b *Backend) Step(ctx context.Context, cam *camera.Camera) error {
	if !b.ready {
		return renderer.ErrDestroyed
	}

	if *cam != b.frame || len(b.pix) != cam.Viewport.Size() {
		b.restart(cam)
	}
	if cam.Viewport.Empty() {
		return nil
	}
	wasComplete := b.Complete()

	budget := b.PixelsPerStep
	if budget <= 0 {
		budget = DefaultPixelsPerStep
	}

	width := b.frame.Viewport.Width
	write := fractal.RGBAWriter(b.pix, width)
	total := width * b.frame.Viewport.Height

	for ; budget > 0 && b.next < total; budget-- {
		if err := ctx.Err(); err != nil {
			return err
		}

		x, y := b.next%width, b.next/width
		re, im := PixelToComplex(&b.frame, x, y, b.Prec)
		value := Evaluate(re, im, b.frame.MaxIterations, b.Prec)
		write(x, y, fractal.ColorFor(value, b.frame.MaxIterations))
		b.next++
	}

	if !wasComplete && b.Complete() {
		b.log.Debug("frame complete", "width", width, "height", b.frame.Viewport.Height)
	}

	if b.presenter == nil {
		return nil
	}
	return b.presenter.Present(b.pix, width, b.frame.Viewport.Height)
}

// Render draws a whole frame synchronously, ignoring PixelsPerStep.
func (b *Backend) Render(ctx context.Context, cam *camera.Camera) ([]byte, error) {
	pix := make([]byte, cam.Viewport.Size())
	write := fractal.RGBAWriter(pix, cam.Viewport.Width)

	for y := 0; y < cam.Viewport.Height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < cam.Viewport.Width; x++ {
			re, im := PixelToComplex(cam, x, y, b.Prec)
			write(x, y, fractal.ColorFor(Evaluate(re, im, cam.MaxIterations, b.Prec), cam.MaxIterations))
		}
	}
	return pix, nil
}

func (b *Backend) Destroy() error {
	if !b.ready {
		return nil
	}
	b.ready = false
	b.pix = nil
	b.frame = camera.Camera{}
	b.next = 0
	b.log.Info("destroyed")
	return nil
}
