// Package renderer defines the contract every fractal backend implements
// and the ways a backend hands finished frames to its host.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stewi1014/glmandel/camera"
)

var (
	// ErrCapabilityUnavailable is returned by Setup when the backend cannot
	// acquire what it needs, such as a GL context or a cgo build.
	ErrCapabilityUnavailable = errors.New("renderer: capability unavailable")

	// ErrResourceExhausted is returned by Step when a frame buffer could not
	// be grown. The frame is skipped.
	ErrResourceExhausted = errors.New("renderer: resource exhausted")

	// ErrDestroyed is returned by Step after Destroy.
	ErrDestroyed = errors.New("renderer: backend destroyed")

	ErrUnknownKind = errors.New("renderer: unknown backend kind")
)

type Kind int

const (
	KindCPU Kind = iota
	KindBigCPU
	KindGL
	KindNative
)

var kindNames = [...]string{
	KindCPU:    "cpu",
	KindBigCPU: "bigcpu",
	KindGL:     "gl",
	KindNative: "native",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every backend kind in switching order.
func Kinds() []Kind {
	return []Kind{KindCPU, KindBigCPU, KindGL, KindNative}
}

// ParseKind accepts the names printed by Kind.String, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Backend renders the camera view once per Step.
//
// Setup must be called before the first Step. Destroy releases everything
// Setup acquired and may be called more than once.
type Backend interface {
	Kind() Kind
	Setup(ctx context.Context) error
	Step(ctx context.Context, cam *camera.Camera) error
	Destroy() error
}

// Factory builds an unconfigured backend of the given kind. Hosts provide
// one that captures their presentation capability.
type Factory func(Kind) (Backend, error)

// Presenter displays a finished RGBA8 frame of w*h pixels.
type Presenter interface {
	Present(pix []byte, w, h int) error
}

type PresenterFunc func(pix []byte, w, h int) error

func (f PresenterFunc) Present(pix []byte, w, h int) error {
	return f(pix, w, h)
}
