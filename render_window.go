package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/app"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/renderer/glshader"
	"github.com/stewi1014/glmandel/stats"
)

func NewGLFWWindow(width, height int) (*GLFWWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	window, err := glfw.CreateWindow(
		width,
		height,
		"GLMandel",
		nil,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &GLFWWindow{
		Window: window,
		log:    logging.For("GLFWWindow"),
	}

	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	return w, nil
}

type GLFWWindow struct {
	*glfw.Window
	log *slog.Logger

	mandel     *app.App
	controller *controller.DesktopController
	presenter  *glshader.TexturePresenter

	// windowed geometry restored when leaving fullscreen
	windowed [4]int
}

// scale converts window coordinates to framebuffer pixels.
func (w *GLFWWindow) scale() float64 {
	fw, _ := w.GetFramebufferSize()
	ww, _ := w.GetSize()
	if ww == 0 {
		return 1
	}
	return float64(fw) / float64(ww)
}

func (w *GLFWWindow) toggleFullscreen() {
	if w.GetMonitor() != nil {
		x, y, width, height := w.windowed[0], w.windowed[1], w.windowed[2], w.windowed[3]
		w.SetMonitor(nil, x, y, width, height, 0)
		return
	}

	x, y := w.GetPos()
	width, height := w.GetSize()
	w.windowed = [4]int{x, y, width, height}

	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	w.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

func glfwMouseButton(b glfw.MouseButton) controller.MouseButton {
	switch b {
	case glfw.MouseButtonRight:
		return controller.ButtonRight
	case glfw.MouseButtonMiddle:
		return controller.ButtonMiddle
	}
	return controller.ButtonLeft
}

var glfwBackendKeys = map[glfw.Key]renderer.Kind{
	glfw.Key1: renderer.KindCPU,
	glfw.Key2: renderer.KindBigCPU,
	glfw.Key3: renderer.KindGL,
	glfw.Key4: renderer.KindNative,
}

func (w *GLFWWindow) connect(ctx context.Context) {
	var cursor mgl64.Vec2

	w.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		ev := controller.PointerEvent{
			Position: cursor,
			Button:   glfwMouseButton(button),
		}
		switch action {
		case glfw.Press:
			ev.Type = controller.PointerDown
		case glfw.Release:
			ev.Type = controller.PointerUp
		default:
			return
		}
		w.controller.HandlePointer(ev)
	})

	w.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		s := w.scale()
		cursor = mgl64.Vec2{x * s, y * s}
		w.controller.HandlePointer(controller.PointerEvent{
			Type:     controller.PointerMove,
			Position: cursor,
		})
	})

	w.SetScrollCallback(func(win *glfw.Window, xoff, yoff float64) {
		w.controller.HandleWheel(controller.WheelEvent{
			Delta:    mgl64.Vec2{-xoff, -yoff},
			Mode:     controller.DeltaLine,
			Position: cursor,
			Ctrl: win.GetKey(glfw.KeyLeftControl) == glfw.Press ||
				win.GetKey(glfw.KeyRightControl) == glfw.Press,
			Shift: win.GetKey(glfw.KeyLeftShift) == glfw.Press ||
				win.GetKey(glfw.KeyRightShift) == glfw.Press,
		})
	})

	w.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch {
		case key == glfw.KeyF11 && action != glfw.Repeat:
			w.controller.HandleKey(controller.KeyEvent{
				Key:      controller.KeyF11,
				Released: action == glfw.Release,
			})
		case key == glfw.KeyS && action == glfw.Release:
			w.saveSnapshot(ctx)
		case action == glfw.Release:
			if kind, ok := glfwBackendKeys[key]; ok {
				w.mandel.RequestBackend(kind)
			}
		}
	})

	w.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.mandel.Resize(width, height)
	})
}

// saveSnapshot writes the current view to a timestamped PNG at window size.
func (w *GLFWWindow) saveSnapshot(ctx context.Context) {
	cam := w.mandel.Camera
	path := fmt.Sprintf("glmandel-%v.png", time.Now().Format("20060102-150405"))
	opts := export.Options{
		Width:     cam.Viewport.Width,
		Height:    cam.Viewport.Height,
		Antialias: 0.3,
	}

	go func() {
		w.log.Info("saving image", "path", path)
		err := export.SavePNG(ctx, path, cam, opts, nil)
		if err != nil {
			w.log.Error("saving image", "path", path, "err", err)
			return
		}
		w.log.Info("image saved", "path", path)
	}()
}

func glfwMain(ctx context.Context, opts options) error {
	err := glfw.Init()
	if err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	width, height := opts.width, opts.height
	if width <= 0 || height <= 0 {
		width, height = 1200, 800
		if monitor := glfw.GetPrimaryMonitor(); monitor != nil {
			mode := monitor.GetVideoMode()
			width, height = mode.Width*6/10, mode.Height*6/10
		}
	}

	w, err := NewGLFWWindow(width, height)
	if err != nil {
		return err
	}
	defer w.Destroy()

	err = glshader.Init(opts.debug)
	if err != nil {
		return err
	}

	w.presenter, err = glshader.NewTexturePresenter()
	if err != nil {
		return err
	}
	defer w.presenter.Delete()

	store := opts.settingsStore()
	kind, err := opts.initialBackend(store)
	if err != nil {
		return err
	}

	w.controller = controller.NewDesktopController(w.toggleFullscreen)
	w.mandel = app.New(app.Options{
		Factory:    newFactory(w.presenter),
		Controller: w.controller,
		Backend:    kind,
		Fallback:   renderer.KindCPU,
		Debug:      opts.debug,
		Stats:      stats.LogSink{Log: w.log},
		Settings:   store,
	})
	defer func() {
		if err := w.mandel.Close(); err != nil {
			w.log.Warn("closing backend", "err", err)
		}
	}()

	w.mandel.Resize(w.GetFramebufferSize())
	w.connect(ctx)

	if err := w.mandel.Start(ctx); err != nil {
		w.log.Error("starting backend", "err", err)
	}

	last := glfw.GetTime()
	for !w.ShouldClose() {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}

		glfw.PollEvents()

		now := glfw.GetTime()
		err := w.mandel.Tick(ctx, now-last)
		last = now
		if errors.Is(err, camera.ErrInvariantViolation) {
			return err
		}
		if err != nil {
			w.log.Error("switching backend", "err", err)
		}

		w.SwapBuffers()
	}

	return nil
}
