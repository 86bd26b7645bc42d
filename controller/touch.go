package controller

import (
	"log/slog"
	"time"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/internal/logging"
)

// MaxGesturePointers is the largest pointer count any gesture handles.
const MaxGesturePointers = 2

type TouchOptions struct {
	// DPI is the device pixel ratio of pointer positions.
	DPI float64

	// ToggleFullscreen runs on a double tap.
	ToggleFullscreen func()

	// Now overrides the clock used for tap timing.
	Now func() time.Time
}

type gestureSlot struct {
	handler     GestureHandler
	interacting bool
}

// TouchController resolves active pointers into at most one pan or zoom
// gesture per tick.
type TouchController struct {
	pointers *Pointers
	gestures []gestureSlot
	bounds   camera.Viewport
	log      *slog.Logger
}

func NewTouchController(opts TouchOptions) *TouchController {
	return NewTouchControllerWith(
		&MoveGesture{DPI: opts.DPI},
		&ScaleGesture{DPI: opts.DPI},
		RotateGesture{},
		&FullscreenGesture{Toggle: opts.ToggleFullscreen, Now: opts.Now},
	)
}

// NewTouchControllerWith uses the given handlers, evaluated in order.
func NewTouchControllerWith(handlers ...GestureHandler) *TouchController {
	c := &TouchController{
		pointers: NewPointers(),
		log:      logging.For("TouchController"),
	}
	for _, h := range handlers {
		c.gestures = append(c.gestures, gestureSlot{handler: h})
	}
	return c
}

// Pointers exposes the tracked pointers.
func (c *TouchController) Pointers() *Pointers {
	return c.pointers
}

// Interacting reports whether the named gesture interacted on the last tick.
func (c *TouchController) Interacting(name string) bool {
	for _, g := range c.gestures {
		if g.handler.Name() == name {
			return g.interacting
		}
	}
	return false
}

func (c *TouchController) outside(ev PointerEvent) bool {
	if c.bounds.Empty() {
		return false
	}
	p := ev.Position
	return p[0] < 0 || p[1] < 0 || p[0] > float64(c.bounds.Width) || p[1] > float64(c.bounds.Height)
}

func (c *TouchController) HandlePointer(ev PointerEvent) {
	if (ev.Type == PointerDown || ev.Type == PointerMove) && c.outside(ev) {
		if c.pointers.Up(ev.ID) {
			c.log.Debug("pointer left the viewport", "id", ev.ID)
		}
		return
	}

	switch ev.Type {
	case PointerDown:
		c.pointers.Down(ev.ID, ev.Position)
	case PointerMove:
		c.pointers.Move(ev.ID, ev.Position)
	case PointerUp, PointerCancel:
		c.pointers.Up(ev.ID)
	}
}

func (c *TouchController) HandleWheel(WheelEvent) {}

func (c *TouchController) HandleKey(KeyEvent) {}

func (c *TouchController) Update(dt float64, cam *camera.Camera) {
	c.bounds = cam.Viewport
	defer c.pointers.Commit()

	pointers := c.pointers.Snapshot()
	if len(pointers) > MaxGesturePointers {
		c.log.Debug("too many pointers, resetting gestures", "pointers", len(pointers))
		for i := range c.gestures {
			c.gestures[i].handler.Reset()
			c.gestures[i].interacting = false
		}
		return
	}

	for i := range c.gestures {
		g := &c.gestures[i]
		was := g.interacting
		g.interacting = g.handler.DetectGesture(pointers, cam)

		switch {
		case !was && g.interacting:
			c.log.Debug("started gesture", "gesture", g.handler.Name())
			g.handler.Apply(pointers, cam)
		case was && !g.interacting:
			c.log.Debug("stopped gesture", "gesture", g.handler.Name())
		}

		g.handler.Update(dt, g.interacting, pointers, cam)
	}

	cam.ClampPosition()
}
