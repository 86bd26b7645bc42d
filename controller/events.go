// Package controller turns pointer, wheel and key input into camera motion.
//
// Two controllers exist: TouchController arbitrates multi-pointer gestures,
// DesktopController drives the camera from a single mouse and its wheel.
// Both share the same pan and zoom physics.
package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

type PointerEventType int

const (
	PointerDown PointerEventType = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (t PointerEventType) String() string {
	switch t {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a touch contact or mouse event in viewport pixels.
type PointerEvent struct {
	Type     PointerEventType
	ID       int
	Position mgl64.Vec2
	Button   MouseButton
}

type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// WheelEvent is a mouse wheel or trackpad scroll.
type WheelEvent struct {
	Delta    mgl64.Vec2
	Mode     DeltaMode
	Position mgl64.Vec2
	Ctrl     bool
	Shift    bool
}

// Pixels returns the delta converted to pixels.
func (e WheelEvent) Pixels() mgl64.Vec2 {
	switch e.Mode {
	case DeltaLine:
		return e.Delta.Mul(8)
	case DeltaPage:
		return e.Delta.Mul(24)
	}
	return e.Delta
}

type Key int

const (
	KeyUnknown Key = iota
	KeyF11
)

type KeyEvent struct {
	Key      Key
	Released bool
}

// Controller consumes input events between ticks and applies them to the
// camera once per tick.
type Controller interface {
	HandlePointer(PointerEvent)
	HandleWheel(WheelEvent)
	HandleKey(KeyEvent)
	Update(dt float64, cam *camera.Camera)
}

// zoomAround multiplies the zoom by factor while keeping the plane point
// under the anchor pixel fixed. It reports whether the zoom changed.
func zoomAround(cam *camera.Camera, anchor mgl64.Vec2, factor float64) bool {
	if cam.Viewport.Empty() {
		return false
	}

	oldZoom := cam.Zoom
	if !cam.SetZoom(oldZoom * factor) {
		return false
	}

	k := cam.FractalSize / oldZoom * (1 - oldZoom/cam.Zoom)
	cam.Position[0] += (anchor[0]/float64(cam.Viewport.Width) - 0.5) * k
	cam.Position[1] += (anchor[1]/float64(cam.Viewport.Height) - 0.5) * k
	return true
}

// planeDelta converts a pixel delta to a plane delta.
func planeDelta(d mgl64.Vec2, scale float64, cam *camera.Camera) mgl64.Vec2 {
	if cam.Viewport.Empty() {
		return mgl64.Vec2{}
	}
	k := scale * cam.FractalSize / cam.Zoom
	return mgl64.Vec2{
		d[0] * k / float64(cam.Viewport.Width),
		d[1] * k / float64(cam.Viewport.Height),
	}
}

// settle zeroes velocities too small to move a pixel.
func settle(v float64) float64 {
	if v < 1e-12 && v > -1e-12 {
		return 0
	}
	return v
}
