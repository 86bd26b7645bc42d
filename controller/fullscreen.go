package controller

import (
	"time"

	"github.com/stewi1014/glmandel/camera"
)

const (
	// TapDuration is the longest press that still counts as a tap.
	TapDuration = 100 * time.Millisecond

	// TapInterval is the longest gap between the first release and the
	// second press of a double tap.
	TapInterval = 250 * time.Millisecond
)

type tap struct {
	id       int
	pressed  time.Time
	released time.Time
	up       bool
}

// FullscreenGesture toggles fullscreen on a double tap.
type FullscreenGesture struct {
	Toggle func()
	Now    func() time.Time

	a, b *tap
}

func (g *FullscreenGesture) Name() string { return "Fullscreen" }

func (g *FullscreenGesture) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *FullscreenGesture) DetectGesture(pointers []PointerState, cam *camera.Camera) bool {
	switch len(pointers) {
	case 0:
		return g.pointerUp()
	case 1:
		g.pointerDown(pointers[0])
	default:
		g.Reset()
	}
	return false
}

func (g *FullscreenGesture) pointerDown(p PointerState) {
	switch {
	case g.a == nil:
		g.a = &tap{id: p.ID, pressed: g.now()}
	case g.b == nil && g.a.id != p.ID:
		g.b = &tap{id: p.ID, pressed: g.now()}
		if !g.a.up || g.b.pressed.Sub(g.a.released) > TapInterval {
			// too slow, this press starts a new sequence
			g.a, g.b = g.b, nil
		}
	}
}

func (g *FullscreenGesture) pointerUp() bool {
	switch {
	case g.a != nil && !g.a.up:
		g.a.released, g.a.up = g.now(), true
		if g.a.released.Sub(g.a.pressed) > TapDuration {
			g.Reset()
		}
	case g.b != nil && !g.b.up:
		g.b.released, g.b.up = g.now(), true
		held := g.b.released.Sub(g.b.pressed)
		g.Reset()
		return held <= TapDuration
	}
	return false
}

func (g *FullscreenGesture) Apply(pointers []PointerState, cam *camera.Camera) {
	if g.Toggle != nil {
		g.Toggle()
	}
}

func (g *FullscreenGesture) Update(float64, bool, []PointerState, *camera.Camera) {}

func (g *FullscreenGesture) Reset() {
	g.a, g.b = nil, nil
}
