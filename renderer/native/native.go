//go:build cgo

// Package native renders in compiled C, single precision, into a C heap
// buffer grown in 64 KiB pages.
package native

/*
#cgo CFLAGS: -O2
#cgo LDFLAGS: -lm
#include "mandel.h"
*/
import "C"

import (
	"context"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
)

// PageSize is the growth unit of the C buffer.
const PageSize = 64 * 1024

var _ renderer.Backend = (*Backend)(nil)

type Backend struct {
	presenter renderer.Presenter
	log       *slog.Logger

	buf   C.mandel_buffer
	pix   []byte
	ready bool
}

func New(presenter renderer.Presenter) *Backend {
	return &Backend{
		presenter: presenter,
		log:       logging.For("NativeRenderer"),
	}
}

func (b *Backend) Kind() renderer.Kind { return renderer.KindNative }

func (b *Backend) Setup(ctx context.Context) error {
	if b.ready {
		return nil
	}
	if C.mandel_buffer_grow(&b.buf, 1) != 0 {
		return fmt.Errorf("native renderer: initial page: %w", renderer.ErrResourceExhausted)
	}
	b.ready = true
	b.log.Info("setup", "heapBase", fmt.Sprintf("%p", unsafe.Pointer(b.buf.data)))
	return nil
}

// Pages is the number of 64 KiB pages currently held.
func (b *Backend) Pages() int {
	return int(b.buf.pages)
}

// Pixels returns the Go copy of the last frame.
func (b *Backend) Pixels() []byte {
	return b.pix
}

func (b *Backend) grow(size int) error {
	capacity := int(b.buf.pages) * PageSize
	if size <= capacity {
		return nil
	}

	pages := (size - capacity + PageSize - 1) / PageSize
	b.log.Info("growing memory",
		"pages", pages,
		"from", capacity,
		"to", size,
		"total", pages*PageSize,
	)
	if C.mandel_buffer_grow(&b.buf, C.size_t(pages)) != 0 {
		return fmt.Errorf("native renderer: growing by %v pages: %w", pages, renderer.ErrResourceExhausted)
	}
	return nil
}

func (b *Backend) Step(ctx context.Context, cam *camera.Camera) error {
	if !b.ready {
		return renderer.ErrDestroyed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	size := cam.Viewport.Size()
	if err := b.grow(size); err != nil {
		return err
	}
	if len(b.pix) != size {
		b.pix = make([]byte, size)
	}
	if cam.Viewport.Empty() {
		return nil
	}

	C.mandel_render(
		b.buf.data,
		C.int(cam.Viewport.Width),
		C.int(cam.Viewport.Height),
		C.float(cam.Position[0]),
		C.float(cam.Position[1]),
		C.float(cam.FractalSize),
		C.float(cam.Zoom),
		C.int(cam.MaxIterations),
	)
	copy(b.pix, unsafe.Slice((*byte)(unsafe.Pointer(b.buf.data)), size))

	if b.presenter == nil {
		return nil
	}
	return b.presenter.Present(b.pix, cam.Viewport.Width, cam.Viewport.Height)
}

func (b *Backend) Destroy() error {
	if !b.ready {
		return nil
	}
	b.log.Info("destroying", "pages", b.Pages())
	C.mandel_buffer_free(&b.buf)
	b.pix = nil
	b.ready = false
	return nil
}
