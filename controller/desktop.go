package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

const (
	panSpeed    = 1.0
	panInertia  = 45.0
	panFriction = 0.925

	wheelZoomSpeed    = 0.005
	wheelZoomFriction = 0.9
)

// DesktopController drives the camera from one mouse and its wheel.
//
// Dragging pans, ctrl+wheel (or a trackpad pinch) zooms around the cursor,
// a plain wheel pans like a trackpad and F11 toggles fullscreen.
type DesktopController struct {
	ToggleFullscreen func()

	panVelocity  mgl64.Vec2
	zoomVelocity float64

	mouse     mgl64.Vec2
	lastMouse mgl64.Vec2

	trackPadPanning bool
	mouseDown       bool
	wasMouseDown    bool

	wheelDelta float64
}

func NewDesktopController(toggleFullscreen func()) *DesktopController {
	return &DesktopController{ToggleFullscreen: toggleFullscreen}
}

func (c *DesktopController) setMouse(pos mgl64.Vec2) {
	if c.trackPadPanning {
		return
	}
	c.mouse = pos
}

func (c *DesktopController) HandlePointer(ev PointerEvent) {
	dragButton := ev.Button == ButtonLeft || ev.Button == ButtonMiddle

	switch ev.Type {
	case PointerDown:
		if dragButton {
			c.mouseDown = true
		}
	case PointerUp:
		if dragButton {
			c.mouseDown = false
		}
	case PointerCancel:
		c.mouseDown = false
	}
	c.setMouse(ev.Position)
}

func (c *DesktopController) HandleWheel(ev WheelEvent) {
	c.setMouse(ev.Position)
	delta := ev.Pixels()

	if ev.Ctrl {
		c.wheelDelta += delta[1]
		return
	}

	if !c.trackPadPanning {
		c.trackPadPanning = true
		c.lastMouse = c.mouse
	}
	if ev.Shift && delta[0] == 0 {
		c.mouse[0] -= delta[1]
	} else {
		c.mouse = c.mouse.Sub(delta)
	}
}

func (c *DesktopController) HandleKey(ev KeyEvent) {
	if ev.Key == KeyF11 && ev.Released && c.ToggleFullscreen != nil {
		c.ToggleFullscreen()
	}
}

func (c *DesktopController) Update(dt float64, cam *camera.Camera) {
	c.pan(dt, cam)
	c.zoom(dt, cam)

	c.trackPadPanning = false
	c.wasMouseDown = c.mouseDown
	c.lastMouse = c.mouse
	c.wheelDelta = 0
}

func (c *DesktopController) pan(dt float64, cam *camera.Camera) {
	if c.wasMouseDown || c.trackPadPanning {
		delta := planeDelta(c.mouse.Sub(c.lastMouse), panSpeed, cam)

		if c.mouseDown || c.trackPadPanning {
			cam.Position = cam.Position.Sub(delta)
		}
		if !c.mouseDown || c.trackPadPanning {
			c.panVelocity = delta.Mul(panInertia)
		}
	} else {
		cam.Position = cam.Position.Sub(c.panVelocity.Mul(dt))
		c.panVelocity[0] = settle(c.panVelocity[0] * panFriction)
		c.panVelocity[1] = settle(c.panVelocity[1] * panFriction)
	}

	cam.ClampPosition()
}

func (c *DesktopController) zoom(dt float64, cam *camera.Camera) {
	if c.wheelDelta != 0 {
		c.zoomVelocity += c.wheelDelta * wheelZoomSpeed
	}

	z := 1 - (c.zoomVelocity*dt + c.wheelDelta*wheelZoomSpeed)
	if z != 1 {
		zoomAround(cam, c.mouse, z)
	}

	c.zoomVelocity = settle(c.zoomVelocity * wheelZoomFriction)
}
