//go:build !cgo

package native

import (
	"context"
	"fmt"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/renderer"
)

const PageSize = 65536

var _ renderer.Backend = (*Backend)(nil)

// Backend is unavailable without cgo. Setup always fails.
type Backend struct{}

func New(presenter renderer.Presenter) *Backend {
	return &Backend{}
}

func (b *Backend) Kind() renderer.Kind { return renderer.KindNative }

func (b *Backend) Setup(ctx context.Context) error {
	return fmt.Errorf("native renderer: built without cgo: %w", renderer.ErrCapabilityUnavailable)
}

func (b *Backend) Pages() int { return 0 }

func (b *Backend) Pixels() []byte { return nil }

func (b *Backend) Step(ctx context.Context, cam *camera.Camera) error {
	return renderer.ErrDestroyed
}

func (b *Backend) Destroy() error { return nil }
