package camera

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Position != (mgl64.Vec2{-0.95, 0}) || c.FractalSize != 2 || c.Zoom != 1 || c.MaxIterations != 80 {
		t.Errorf("unexpected default camera %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Error(err)
	}
}

func TestClampZoomAndIterations(t *testing.T) {
	tests := []struct {
		zoom           float64
		wantZoom       float64
		wantIterations int
	}{
		{1, 1, 80},
		{0.1, MinZoom, 80},
		{100, 100, 100},
		{1e9, MaxZoom, 20024},
		{MaxZoom, MaxZoom, 20024},
		{99999, 99999, 20024},
		{math.NaN(), MinZoom, 80},
		{math.Inf(1), MaxZoom, 20024},
	}

	for _, tt := range tests {
		c := Default()
		c.Zoom = tt.zoom
		c.ClampZoomAndIterations()
		if c.Zoom != tt.wantZoom {
			t.Errorf("zoom %v: got zoom %v, want %v", tt.zoom, c.Zoom, tt.wantZoom)
		}
		if c.MaxIterations != tt.wantIterations {
			t.Errorf("zoom %v: got iterations %v, want %v", tt.zoom, c.MaxIterations, tt.wantIterations)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("zoom %v: %v", tt.zoom, err)
		}
	}
}

func TestIterationsMonotonic(t *testing.T) {
	last := 0
	for z := MinZoom; z <= MaxZoom; z *= 1.7 {
		n := IterationsFor(z)
		if n < last {
			t.Fatalf("iterations decreased at zoom %v: %v < %v", z, n, last)
		}
		last = n
	}
}

func TestSetZoomReportsChange(t *testing.T) {
	c := Default()
	if !c.SetZoom(2) {
		t.Error("expected change")
	}
	c.Zoom = MinZoom
	if c.SetZoom(0.01) {
		t.Error("clamped zoom should not report a change")
	}
}

func TestPixelToComplex(t *testing.T) {
	c := Default()
	c.Viewport = Viewport{800, 600}

	got := c.PixelToComplex(400, 300)
	if real(got) != -0.95 || imag(got) != 0 {
		t.Errorf("center maps to %v", got)
	}

	got = c.PixelToComplex(0, 0)
	wantRe := -0.5*2 - 0.95
	wantIm := (-0.5 * 2) / (800.0 / 600.0)
	if math.Abs(real(got)-wantRe) > 1e-12 || math.Abs(imag(got)-wantIm) > 1e-12 {
		t.Errorf("corner maps to %v, want (%v, %v)", got, wantRe, wantIm)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Zoom = 0
	if err := c.Validate(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("got %v", err)
	}

	c = Default()
	c.MaxIterations = 0
	if err := c.Validate(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("got %v", err)
	}
}

func TestClampPosition(t *testing.T) {
	c := Default()
	c.Position = mgl64.Vec2{-5, 3}
	c.ClampPosition()
	if c.Position != (mgl64.Vec2{MinPosition, MaxPosition}) {
		t.Errorf("got %v", c.Position)
	}
}
