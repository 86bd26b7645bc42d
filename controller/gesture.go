package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

// GestureHandler is one camera manipulation recognised from the active
// pointers.
type GestureHandler interface {
	Name() string

	// DetectGesture reports whether the gesture is interacting this tick.
	DetectGesture(pointers []PointerState, cam *camera.Camera) bool

	// Apply runs once when the gesture starts interacting, to capture a
	// baseline.
	Apply(pointers []PointerState, cam *camera.Camera)

	// Update runs every tick after detection, interacting or not.
	Update(dt float64, interacting bool, pointers []PointerState, cam *camera.Camera)

	// Reset drops all gesture-local state.
	Reset()
}

const (
	moveSpeed    = 1.0
	moveInertia  = 45.0
	moveFriction = 0.93
)

// MoveGesture pans with one pointer and drifts after release.
type MoveGesture struct {
	DPI float64

	last     PointerState
	hasLast  bool
	velocity mgl64.Vec2
}

func (g *MoveGesture) Name() string { return "Move" }

func (g *MoveGesture) delta(p PointerState, cam *camera.Camera) mgl64.Vec2 {
	return planeDelta(p.Delta(), moveSpeed*dpi(g.DPI), cam)
}

func (g *MoveGesture) DetectGesture(pointers []PointerState, cam *camera.Camera) bool {
	switch {
	case len(pointers) == 0 && g.hasLast:
		g.velocity = g.velocity.Add(g.delta(g.last, cam).Mul(moveInertia))
		g.hasLast = false
		return false
	case len(pointers) > 1:
		g.hasLast = false
	}
	return len(pointers) == 1
}

func (g *MoveGesture) Apply(pointers []PointerState, cam *camera.Camera) {
	g.hasLast = false
	g.velocity = mgl64.Vec2{}
}

func (g *MoveGesture) Update(dt float64, interacting bool, pointers []PointerState, cam *camera.Camera) {
	if interacting {
		p := pointers[0]
		g.last, g.hasLast = p, true

		cam.Position = cam.Position.Sub(g.delta(p, cam))
		return
	}

	cam.Position = cam.Position.Sub(g.velocity.Mul(dt))
	g.velocity[0] = settle(g.velocity[0] * moveFriction)
	g.velocity[1] = settle(g.velocity[1] * moveFriction)
}

func (g *MoveGesture) Reset() {
	g.hasLast = false
	g.velocity = mgl64.Vec2{}
}

// RotateGesture is reserved. Rotation is not applied to the plane.
type RotateGesture struct{}

func (RotateGesture) Name() string                                          { return "Rotate" }
func (RotateGesture) DetectGesture([]PointerState, *camera.Camera) bool     { return false }
func (RotateGesture) Apply([]PointerState, *camera.Camera)                  {}
func (RotateGesture) Update(float64, bool, []PointerState, *camera.Camera) {}
func (RotateGesture) Reset()                                                {}

func dpi(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
