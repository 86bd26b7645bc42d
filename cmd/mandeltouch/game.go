package main

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/stewi1014/glmandel/app"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
	"github.com/stewi1014/glmandel/renderer"
)

var backendKeys = map[ebiten.Key]renderer.Kind{
	ebiten.KeyDigit1: renderer.KindCPU,
	ebiten.KeyDigit2: renderer.KindBigCPU,
	ebiten.KeyDigit3: renderer.KindGL,
	ebiten.KeyDigit4: renderer.KindNative,
}

var mouseButtons = map[ebiten.MouseButton]controller.MouseButton{
	ebiten.MouseButtonLeft:   controller.ButtonLeft,
	ebiten.MouseButtonMiddle: controller.ButtonMiddle,
	ebiten.MouseButtonRight:  controller.ButtonRight,
}

type game struct {
	ctx       context.Context
	mandel    *app.App
	router    *router
	presenter *ebitenPresenter
	log       *slog.Logger

	touches *touchTracker
	cursor  mgl64.Vec2
	started bool
}

func (g *game) start() {
	g.started = true
	g.touches = newTouchTracker()
	if err := g.mandel.Start(g.ctx); err != nil {
		g.log.Error("starting backend", "err", err)
	}
}

func (g *game) pollMouse() {
	x, y := ebiten.CursorPosition()
	pos := mgl64.Vec2{float64(x), float64(y)}
	if pos != g.cursor {
		g.cursor = pos
		g.router.HandlePointer(controller.PointerEvent{Type: controller.PointerMove, Position: pos})
	}

	for eb, button := range mouseButtons {
		switch {
		case inpututil.IsMouseButtonJustPressed(eb):
			g.router.HandlePointer(controller.PointerEvent{Type: controller.PointerDown, Position: pos, Button: button})
		case inpututil.IsMouseButtonJustReleased(eb):
			g.router.HandlePointer(controller.PointerEvent{Type: controller.PointerUp, Position: pos, Button: button})
		}
	}

	if dx, dy := ebiten.Wheel(); dx != 0 || dy != 0 {
		g.router.HandleWheel(controller.WheelEvent{
			Delta:    mgl64.Vec2{-dx, -dy},
			Mode:     controller.DeltaLine,
			Position: pos,
			Ctrl:     ebiten.IsKeyPressed(ebiten.KeyControl),
			Shift:    ebiten.IsKeyPressed(ebiten.KeyShift),
		})
	}
}

func (g *game) pollKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF11):
		g.router.HandleKey(controller.KeyEvent{Key: controller.KeyF11})
	case inpututil.IsKeyJustReleased(ebiten.KeyF11):
		g.router.HandleKey(controller.KeyEvent{Key: controller.KeyF11, Released: true})
	}

	for key, kind := range backendKeys {
		if inpututil.IsKeyJustReleased(key) {
			g.mandel.RequestBackend(kind)
		}
	}
}

func (g *game) Update() error {
	if !g.started {
		g.start()
	}
	if err := g.ctx.Err(); err != nil {
		return context.Cause(g.ctx)
	}

	for _, ev := range g.touches.Poll() {
		g.router.HandleTouch(ev)
	}
	g.pollMouse()
	g.pollKeys()

	err := g.mandel.Tick(g.ctx, 1/float64(ebiten.TPS()))
	if errors.Is(err, camera.ErrInvariantViolation) {
		return err
	}
	if err != nil {
		g.log.Error("switching backend", "err", err)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.presenter.Draw(screen)
}

// Layout renders at device resolution.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.DeviceScaleFactor()
	w := int(math.Ceil(float64(outsideWidth) * scale))
	h := int(math.Ceil(float64(outsideHeight) * scale))
	if w != g.mandel.Camera.Viewport.Width || h != g.mandel.Camera.Viewport.Height {
		g.mandel.Resize(w, h)
	}
	return w, h
}
