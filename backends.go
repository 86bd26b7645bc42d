package main

import (
	"fmt"

	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/renderer/bigcpu"
	"github.com/stewi1014/glmandel/renderer/cpu"
	"github.com/stewi1014/glmandel/renderer/glshader"
	"github.com/stewi1014/glmandel/renderer/native"
)

// newFactory builds backends for a host with a current GL context. Pixel
// backends hand their frames to presenter.
func newFactory(presenter renderer.Presenter) renderer.Factory {
	return func(kind renderer.Kind) (renderer.Backend, error) {
		switch kind {
		case renderer.KindCPU:
			return cpu.New(presenter), nil
		case renderer.KindBigCPU:
			return bigcpu.New(presenter), nil
		case renderer.KindGL:
			return glshader.New(), nil
		case renderer.KindNative:
			return native.New(presenter), nil
		}
		return nil, fmt.Errorf("%w: %v", renderer.ErrUnknownKind, kind)
	}
}
