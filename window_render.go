package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"reflect"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/stewi1014/glmandel/app"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/renderer/glshader"
	"github.com/stewi1014/glmandel/stats"
)

func NewRenderWindow(
	application *Application,
	conn net.Conn,
	ctx context.Context,
	quit func(error),
) *RenderWindow {
	var err error
	w := &RenderWindow{
		ctx:         ctx,
		quit:        quit,
		application: application,
		log:         logging.For("RenderWindow"),
		sendMessage: startSender(ctx, conn, quit),
	}

	w.ApplicationWindow, err = gtk.ApplicationWindowNew(application.Application)
	if err != nil {
		quit(fmt.Errorf("gtk.ApplicationWindowNew: %w", err))
		return nil
	}

	width, height := getWindowSize()
	if application.opts.width > 0 && application.opts.height > 0 {
		width, height = application.opts.width, application.opts.height
	}
	w.SetDefaultSize(width, height)

	w.gla, err = gtk.GLAreaNew()
	if err != nil {
		quit(fmt.Errorf("gtk.GLAreaNew: %w", err))
		return nil
	}

	w.gla.SetRequiredVersion(4, 6)
	w.gla.Connect("realize", w.glaRealize)
	w.gla.Connect("render", w.glaRender)
	w.gla.Connect("unrealize", w.glaUnrealize)

	w.gla.SetEvents(
		int(gdk.BUTTON_PRESS_MASK) |
			int(gdk.BUTTON_RELEASE_MASK) |
			int(gdk.POINTER_MOTION_MASK) |
			int(gdk.SCROLL_MASK) |
			int(gdk.SMOOTH_SCROLL_MASK) |
			int(gdk.KEY_PRESS_MASK) |
			int(gdk.KEY_RELEASE_MASK),
	)
	w.gla.SetCanFocus(true)
	w.gla.Connect("resize", w.resize)
	w.gla.Connect("scroll-event", w.scroll)
	w.gla.Connect("button-press-event", w.button)
	w.gla.Connect("button-release-event", w.button)
	w.gla.Connect("motion-notify-event", w.motion)
	w.gla.Connect("key-press-event", w.keyPress)
	w.gla.Connect("key-release-event", w.keyRelease)

	w.Add(w.gla)
	w.ShowAll()
	w.gla.GrabFocus()

	go receive(conn, quit, w.handleMessage)

	return w
}

func getWindowSize() (width, height int) {
	width = 1200
	height = 800

	display, err := gdk.DisplayGetDefault()
	if err != nil {
		return
	}

	monitor, err := display.GetPrimaryMonitor()
	if err != nil {
		return
	}

	width = int(float32(monitor.GetGeometry().GetWidth()) * .6)
	height = int(float32(monitor.GetGeometry().GetHeight()) * .6)
	return
}

type RenderWindow struct {
	*gtk.ApplicationWindow
	gla         *gtk.GLArea
	application *Application

	ctx  context.Context
	quit func(error)
	log  *slog.Logger

	mandel     *app.App
	controller *controller.DesktopController
	presenter  *glshader.TexturePresenter
	active     renderer.Kind
	lastFrame  time.Time
	fullscreen bool

	width, height int

	sendMessage chan<- any
}

func (w *RenderWindow) glaRealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	err := glshader.Init(w.application.opts.debug)
	if err != nil {
		w.quit(err)
		return
	}

	w.presenter, err = glshader.NewTexturePresenter()
	if err != nil {
		w.quit(err)
		return
	}

	kind, err := w.application.opts.initialBackend(w.application.store)
	if err != nil {
		w.quit(err)
		return
	}

	w.controller = controller.NewDesktopController(w.toggleFullscreen)
	w.mandel = app.New(app.Options{
		Factory:    newFactory(w.presenter),
		Controller: w.controller,
		Backend:    kind,
		Fallback:   renderer.KindCPU,
		Debug:      w.application.opts.debug,
		Stats: stats.SinkFunc(func(sample stats.Sample) {
			trySend(w.sendMessage, StatsMessage{Sample: sample})
		}),
		Settings: w.application.store,
	})
	w.mandel.Resize(w.width, w.height)

	err = w.mandel.Start(w.ctx)
	w.backendChanged(err)

	w.lastFrame = time.Now()
}

func (w *RenderWindow) glaRender(gla *gtk.GLArea) bool {
	if w.mandel == nil {
		return false
	}

	now := time.Now()
	dt := now.Sub(w.lastFrame).Seconds()
	w.lastFrame = now

	gla.AttachBuffers()
	err := w.mandel.Tick(w.ctx, dt)
	if errors.Is(err, camera.ErrInvariantViolation) {
		w.quit(err)
		return true
	}
	if err != nil || w.mandel.Backend() != nil && w.mandel.Backend().Kind() != w.active {
		w.backendChanged(err)
	}

	gla.QueueRender()
	return true
}

// backendChanged tells the config window which backend is active and shows
// err, if any.
func (w *RenderWindow) backendChanged(err error) {
	msg := BackendChanged{}
	if b := w.mandel.Backend(); b != nil {
		w.active = b.Kind()
		msg.Kind = w.active
	}
	if err != nil {
		msg.Err = err.Error()
		glib.IdleAdd(func() {
			NewErrorDialog(w.ApplicationWindow, err)
		})
	}
	trySend(w.sendMessage, msg)
}

func (w *RenderWindow) glaUnrealize(gla *gtk.GLArea) {
	gla.MakeCurrent()

	if w.mandel != nil {
		if err := w.mandel.Close(); err != nil {
			w.log.Warn("closing backend", "err", err)
		}
	}
	if w.presenter != nil {
		w.presenter.Delete()
	}
}

func (w *RenderWindow) resize(gla *gtk.GLArea, width, height int) {
	w.width, w.height = width, height
	if w.mandel != nil {
		w.mandel.Resize(width, height)
	}
}

func (w *RenderWindow) toggleFullscreen() {
	w.fullscreen = !w.fullscreen
	if w.fullscreen {
		w.Fullscreen()
	} else {
		w.Unfullscreen()
	}
}

// devicePos converts event coordinates to framebuffer pixels.
func (w *RenderWindow) devicePos(x, y float64) mgl64.Vec2 {
	scale := float64(w.gla.GetScaleFactor())
	return mgl64.Vec2{x * scale, y * scale}
}

func mouseButton(b uint) controller.MouseButton {
	switch b {
	case 2:
		return controller.ButtonMiddle
	case 3:
		return controller.ButtonRight
	}
	return controller.ButtonLeft
}

func (w *RenderWindow) button(gla *gtk.GLArea, event *gdk.Event) {
	if w.controller == nil {
		return
	}
	button := gdk.EventButtonNewFromEvent(event)

	ev := controller.PointerEvent{
		Position: w.devicePos(button.X(), button.Y()),
		Button:   mouseButton(uint(button.Button())),
	}
	switch button.Type() {
	case gdk.EVENT_BUTTON_PRESS:
		gla.GrabFocus()
		ev.Type = controller.PointerDown
	case gdk.EVENT_BUTTON_RELEASE:
		ev.Type = controller.PointerUp
	default:
		return
	}
	w.controller.HandlePointer(ev)
}

func (w *RenderWindow) motion(gla *gtk.GLArea, event *gdk.Event) {
	if w.controller == nil {
		return
	}
	x, y := gdk.EventMotionNewFromEvent(event).MotionVal()
	w.controller.HandlePointer(controller.PointerEvent{
		Type:     controller.PointerMove,
		Position: w.devicePos(x, y),
	})
}

func (w *RenderWindow) scroll(gla *gtk.GLArea, event *gdk.Event) {
	if w.controller == nil {
		return
	}
	scroll := gdk.EventScrollNewFromEvent(event)

	var delta mgl64.Vec2
	switch scroll.Direction() {
	case gdk.SCROLL_SMOOTH:
		delta = mgl64.Vec2{scroll.DeltaX(), scroll.DeltaY()}
	case gdk.SCROLL_UP:
		delta[1] = -1
	case gdk.SCROLL_DOWN:
		delta[1] = 1
	case gdk.SCROLL_LEFT:
		delta[0] = -1
	case gdk.SCROLL_RIGHT:
		delta[0] = 1
	}

	state := gdk.ModifierType(scroll.State())
	w.controller.HandleWheel(controller.WheelEvent{
		Delta:    delta,
		Mode:     controller.DeltaLine,
		Position: w.devicePos(scroll.X(), scroll.Y()),
		Ctrl:     state&gdk.CONTROL_MASK != 0,
		Shift:    state&gdk.SHIFT_MASK != 0,
	})
}

var backendKeys = map[uint]renderer.Kind{
	gdk.KEY_1: renderer.KindCPU,
	gdk.KEY_2: renderer.KindBigCPU,
	gdk.KEY_3: renderer.KindGL,
	gdk.KEY_4: renderer.KindNative,
}

func (w *RenderWindow) keyPress(gla *gtk.GLArea, event *gdk.Event) {
	if w.controller == nil {
		return
	}
	if gdk.EventKeyNewFromEvent(event).KeyVal() == gdk.KEY_F11 {
		w.controller.HandleKey(controller.KeyEvent{Key: controller.KeyF11})
	}
}

func (w *RenderWindow) keyRelease(gla *gtk.GLArea, event *gdk.Event) {
	if w.mandel == nil {
		return
	}
	key := gdk.EventKeyNewFromEvent(event).KeyVal()

	if kind, ok := backendKeys[key]; ok {
		w.mandel.RequestBackend(kind)
		return
	}
	if key == gdk.KEY_F11 {
		w.controller.HandleKey(controller.KeyEvent{Key: controller.KeyF11, Released: true})
	}
}

func (w *RenderWindow) handleMessage(v any) {
	switch msg := v.(type) {
	case BackendRequest:
		glib.IdleAdd(func() {
			if w.mandel != nil {
				w.mandel.RequestBackend(msg.Kind)
				w.gla.QueueRender()
			}
		})

	case SaveRequest:
		glib.IdleAdd(func() {
			if w.mandel != nil {
				save(w.ctx, w.ApplicationWindow, msg, w.mandel.Camera)
			}
		})

	default:
		w.log.Warn("unknown message received", "type", reflect.TypeOf(v))
	}
}
