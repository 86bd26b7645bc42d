package controller

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

const (
	scaleSpeed    = 0.005
	scaleFriction = 0.9
)

// ScaleGesture zooms with two pointers, keeping their midpoint fixed on the
// plane, and keeps zooming briefly after release.
type ScaleGesture struct {
	DPI float64

	lastDistance float64
	zoomVelocity float64
	anchor       mgl64.Vec2
}

func (g *ScaleGesture) Name() string { return "Scale" }

func (g *ScaleGesture) DetectGesture(pointers []PointerState, cam *camera.Camera) bool {
	return len(pointers) == 2
}

func (g *ScaleGesture) Apply(pointers []PointerState, cam *camera.Camera) {
	g.lastDistance = distance(pointers)
	g.anchor = midpoint(pointers)
	g.zoomVelocity = 0
}

func (g *ScaleGesture) Update(dt float64, interacting bool, pointers []PointerState, cam *camera.Camera) {
	speed := scaleSpeed / dpi(g.DPI)

	var zoomDelta float64
	if interacting {
		d := distance(pointers)
		delta := d - g.lastDistance
		g.lastDistance = d
		g.anchor = midpoint(pointers)

		g.zoomVelocity = g.zoomVelocity*scaleFriction + delta*speed
		zoomDelta = 1 + delta*speed
	} else {
		if g.zoomVelocity == 0 {
			return
		}
		zoomDelta = 1 + g.zoomVelocity*dt
		g.zoomVelocity = settle(g.zoomVelocity * scaleFriction)
	}

	if zoomDelta != 1 {
		zoomAround(cam, g.anchor, zoomDelta)
	}
}

func (g *ScaleGesture) Reset() {
	g.lastDistance = 0
	g.zoomVelocity = 0
}

func distance(pointers []PointerState) float64 {
	return pointers[0].Position.Sub(pointers[1].Position).Len()
}

func midpoint(pointers []PointerState) mgl64.Vec2 {
	return pointers[0].Position.Add(pointers[1].Position).Mul(0.5)
}
