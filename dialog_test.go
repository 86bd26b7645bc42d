package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/renderer"
)

func TestErrorTitle(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want string
	}{
		{fmt.Errorf("app: switching to gl backend: %w", renderer.ErrCapabilityUnavailable), "Renderer unavailable"},
		{fmt.Errorf("native renderer: %w", renderer.ErrResourceExhausted), "Renderer out of memory"},
		{renderer.ErrUnknownKind, "Unknown renderer"},
		{fmt.Errorf("%w: zoom 0", camera.ErrInvariantViolation), "Invalid view"},
		{fmt.Errorf("%w: 0x0", export.ErrBadSize), "Invalid image size"},
		{errors.New("disk full"), "Error"},
	} {
		if got := errorTitle(tt.err); got != tt.want {
			t.Errorf("errorTitle(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCatchPanicToContext(t *testing.T) {
	ctx, cancel := context.WithCancelCause(context.Background())

	func() {
		defer CatchPanicToContext(cancel)
		panic(renderer.ErrDestroyed)
	}()

	if err := context.Cause(ctx); !errors.Is(err, renderer.ErrDestroyed) {
		t.Errorf("cause = %v, want the panic value", err)
	}
}
