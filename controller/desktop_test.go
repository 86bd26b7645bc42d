package controller

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

func TestDesktopDragPans(t *testing.T) {
	cam := newCamera()
	c := NewDesktopController(nil)

	c.HandlePointer(PointerEvent{Type: PointerDown, Position: mgl64.Vec2{100, 100}, Button: ButtonLeft})
	c.Update(dt, &cam)
	start := cam.Position

	c.HandlePointer(PointerEvent{Type: PointerMove, Position: mgl64.Vec2{110, 100}})
	c.Update(dt, &cam)

	want := start[0] - 10*cam.FractalSize/float64(cam.Viewport.Width)/cam.Zoom
	if math.Abs(cam.Position[0]-want) > 1e-12 {
		t.Errorf("position.x = %v, want %v", cam.Position[0], want)
	}
}

func TestDesktopRightButtonDoesNotPan(t *testing.T) {
	cam := newCamera()
	c := NewDesktopController(nil)

	c.HandlePointer(PointerEvent{Type: PointerDown, Position: mgl64.Vec2{100, 100}, Button: ButtonRight})
	c.Update(dt, &cam)
	c.HandlePointer(PointerEvent{Type: PointerMove, Position: mgl64.Vec2{150, 100}})
	c.Update(dt, &cam)

	if cam.Position != camera.Default().Position {
		t.Errorf("camera moved to %v", cam.Position)
	}
}

func TestDesktopCtrlWheelZoomsAroundCursor(t *testing.T) {
	cam := newCamera()
	c := NewDesktopController(nil)

	anchor := mgl64.Vec2{600, 150}
	before := cam.PixelToComplex(anchor[0], anchor[1])

	c.HandleWheel(WheelEvent{Delta: mgl64.Vec2{0, -20}, Position: anchor, Ctrl: true})
	c.Update(dt, &cam)

	if cam.Zoom <= 1 {
		t.Fatalf("zoom %v did not increase", cam.Zoom)
	}
	after := cam.PixelToComplex(anchor[0], anchor[1])
	if d := math.Hypot(real(after)-real(before), imag(after)-imag(before)); d > 1e-9 {
		t.Errorf("cursor point drifted by %v", d)
	}

	// velocity keeps zooming after the wheel stops
	z := cam.Zoom
	c.Update(dt, &cam)
	if cam.Zoom <= z {
		t.Errorf("zoom %v did not continue past %v", cam.Zoom, z)
	}
}

func TestDesktopZoomStaysClamped(t *testing.T) {
	cam := newCamera()
	c := NewDesktopController(nil)

	for i := 0; i < 500; i++ {
		c.HandleWheel(WheelEvent{Delta: mgl64.Vec2{0, -3}, Mode: DeltaPage, Position: mgl64.Vec2{400, 300}, Ctrl: true})
		c.Update(dt, &cam)
		if err := cam.Validate(); err != nil {
			t.Fatalf("tick %v: %v", i, err)
		}
	}
	if cam.Zoom != camera.MaxZoom {
		t.Errorf("zoom %v, want max", cam.Zoom)
	}

	for i := 0; i < 500; i++ {
		c.HandleWheel(WheelEvent{Delta: mgl64.Vec2{0, 10}, Mode: DeltaLine, Position: mgl64.Vec2{400, 300}, Ctrl: true})
		c.Update(dt, &cam)
		if err := cam.Validate(); err != nil {
			t.Fatalf("tick %v: %v", i, err)
		}
	}
	if cam.Zoom != camera.MinZoom {
		t.Errorf("zoom %v, want min", cam.Zoom)
	}
}

func TestDesktopTrackpadPans(t *testing.T) {
	cam := newCamera()
	c := NewDesktopController(nil)

	c.HandleWheel(WheelEvent{Delta: mgl64.Vec2{4, 0}, Position: mgl64.Vec2{400, 300}})
	c.HandleWheel(WheelEvent{Delta: mgl64.Vec2{6, 0}, Position: mgl64.Vec2{400, 300}})
	c.Update(dt, &cam)

	// wheel deltas scroll content, so the plane moves with them
	want := camera.Default().Position[0] + 10*cam.FractalSize/float64(cam.Viewport.Width)
	if math.Abs(cam.Position[0]-want) > 1e-12 {
		t.Errorf("position.x = %v, want %v", cam.Position[0], want)
	}
	if cam.Zoom != 1 {
		t.Errorf("plain wheel zoomed to %v", cam.Zoom)
	}
}

func TestDesktopF11(t *testing.T) {
	toggles := 0
	c := NewDesktopController(func() { toggles++ })

	c.HandleKey(KeyEvent{Key: KeyF11})
	c.HandleKey(KeyEvent{Key: KeyF11, Released: true})
	c.HandleKey(KeyEvent{Key: KeyUnknown, Released: true})

	if toggles != 1 {
		t.Errorf("toggled %v times", toggles)
	}
}
