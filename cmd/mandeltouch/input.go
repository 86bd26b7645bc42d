package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
)

// router forwards input to the touch controller, the desktop controller or
// both. A nil controller drops its input.
type router struct {
	touch   *controller.TouchController
	desktop *controller.DesktopController
}

// touchDPI is the gesture scale for touch positions. Layout already reports
// device pixels, so positions need no further scaling.
const touchDPI = 1.0

var _ controller.Controller = (*router)(nil)

func newRouter(mode string, dpi float64, toggleFullscreen func()) (*router, error) {
	r := &router{}
	switch mode {
	case "auto":
		r.touch = controller.NewTouchController(controller.TouchOptions{DPI: dpi, ToggleFullscreen: toggleFullscreen})
		r.desktop = controller.NewDesktopController(toggleFullscreen)
	case "touch":
		r.touch = controller.NewTouchController(controller.TouchOptions{DPI: dpi, ToggleFullscreen: toggleFullscreen})
	case "desktop":
		r.desktop = controller.NewDesktopController(toggleFullscreen)
	default:
		return nil, fmt.Errorf("unknown input mode %q", mode)
	}
	return r, nil
}

// HandleTouch passes a touch contact to the touch controller.
func (r *router) HandleTouch(ev controller.PointerEvent) {
	if r.touch != nil {
		r.touch.HandlePointer(ev)
	}
}

// HandlePointer passes a mouse event to the desktop controller.
func (r *router) HandlePointer(ev controller.PointerEvent) {
	if r.desktop != nil {
		r.desktop.HandlePointer(ev)
	}
}

func (r *router) HandleWheel(ev controller.WheelEvent) {
	if r.desktop != nil {
		r.desktop.HandleWheel(ev)
	}
}

func (r *router) HandleKey(ev controller.KeyEvent) {
	if r.desktop != nil {
		r.desktop.HandleKey(ev)
	}
}

func (r *router) Update(dt float64, cam *camera.Camera) {
	if r.touch != nil {
		r.touch.Update(dt, cam)
	}
	if r.desktop != nil {
		r.desktop.Update(dt, cam)
	}
}

// touchTracker turns polled touch positions into pointer events.
type touchTracker struct {
	last map[ebiten.TouchID]mgl64.Vec2
	ids  []ebiten.TouchID
}

func newTouchTracker() *touchTracker {
	return &touchTracker{last: make(map[ebiten.TouchID]mgl64.Vec2)}
}

// Diff compares the active contacts with the previous poll and returns a
// down event for each new contact, a move event for each moved one and an
// up event for each lifted one.
func (t *touchTracker) Diff(ids []ebiten.TouchID, position func(ebiten.TouchID) mgl64.Vec2) []controller.PointerEvent {
	var events []controller.PointerEvent
	seen := make(map[ebiten.TouchID]bool, len(ids))

	for _, id := range ids {
		seen[id] = true
		pos := position(id)
		last, ok := t.last[id]
		switch {
		case !ok:
			events = append(events, controller.PointerEvent{Type: controller.PointerDown, ID: int(id), Position: pos})
		case last != pos:
			events = append(events, controller.PointerEvent{Type: controller.PointerMove, ID: int(id), Position: pos})
		}
		t.last[id] = pos
	}

	for id, pos := range t.last {
		if !seen[id] {
			events = append(events, controller.PointerEvent{Type: controller.PointerUp, ID: int(id), Position: pos})
			delete(t.last, id)
		}
	}

	return events
}

// Poll reads the current touches from ebiten.
func (t *touchTracker) Poll() []controller.PointerEvent {
	t.ids = ebiten.AppendTouchIDs(t.ids[:0])
	return t.Diff(t.ids, func(id ebiten.TouchID) mgl64.Vec2 {
		x, y := ebiten.TouchPosition(id)
		return mgl64.Vec2{float64(x), float64(y)}
	})
}
