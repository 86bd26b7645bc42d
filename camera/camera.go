package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinZoom = 0.5
	MaxZoom = 318226.2513349596

	DefaultIterations = 80
	MinIterations     = 1
	MaxIterations     = 20024

	// iterations gained per unit of zoom
	IterationsPerZoom = 0.2

	MinPosition = -1.25
	MaxPosition = 0.65
)

// ErrInvariantViolation is returned by Validate when zoom or the iteration
// budget has left its clamped range.
var ErrInvariantViolation = errors.New("camera: invariant violation")

type Viewport struct {
	Width  int
	Height int
}

// AspectRatio is width/height, or 1 for an empty viewport.
func (v Viewport) AspectRatio() float64 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// Size is the byte length of an RGBA8 buffer covering the viewport.
func (v Viewport) Size() int {
	return v.Width * v.Height * 4
}

func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Camera describes the window of the complex plane mapped onto the viewport.
type Camera struct {
	Viewport      Viewport
	Position      mgl64.Vec2
	FractalSize   float64
	Zoom          float64
	MaxIterations int

	// Rotation is carried for renderers that may use it. It is not applied
	// to the plane mapping.
	Rotation float64
}

// Default returns the camera the application starts with.
func Default() Camera {
	return Camera{
		Position:      mgl64.Vec2{-0.95, 0},
		FractalSize:   2.0,
		Zoom:          1.0,
		MaxIterations: DefaultIterations,
	}
}

// Scale is the width of the visible plane window.
func (c *Camera) Scale() float64 {
	return c.FractalSize / c.Zoom
}

// PixelToComplex maps a viewport pixel to its complex-plane coordinate.
func (c *Camera) PixelToComplex(px, py float64) complex128 {
	return c.OffsetToComplex(
		px/float64(c.Viewport.Width)-0.5,
		py/float64(c.Viewport.Height)-0.5,
	)
}

// OffsetToComplex maps a normalized offset in [-0.5, 0.5] to the plane.
func (c *Camera) OffsetToComplex(offX, offY float64) complex128 {
	scale := c.Scale()
	return complex(
		offX*scale+c.Position[0],
		(offY*scale+c.Position[1])/c.Viewport.AspectRatio(),
	)
}

// IterationsFor returns the iteration budget used at the given zoom.
func IterationsFor(zoom float64) int {
	n := int(math.Floor(DefaultIterations + zoom*IterationsPerZoom))
	return clampInt(n, MinIterations, MaxIterations)
}

// ClampZoomAndIterations forces zoom into range and recomputes MaxIterations.
func (c *Camera) ClampZoomAndIterations() {
	if math.IsNaN(c.Zoom) {
		c.Zoom = MinZoom
	}
	c.Zoom = mgl64.Clamp(c.Zoom, MinZoom, MaxZoom)
	c.MaxIterations = IterationsFor(c.Zoom)
}

// SetZoom sets the zoom and applies the zoom/iteration invariant.
// It reports whether the zoom actually changed.
func (c *Camera) SetZoom(zoom float64) bool {
	old := c.Zoom
	c.Zoom = zoom
	c.ClampZoomAndIterations()
	return c.Zoom != old
}

// ClampPosition keeps the center inside the region where the set lives.
func (c *Camera) ClampPosition() {
	c.Position[0] = mgl64.Clamp(c.Position[0], MinPosition, MaxPosition)
	c.Position[1] = mgl64.Clamp(c.Position[1], MinPosition, MaxPosition)
}

// Validate reports an ErrInvariantViolation if zoom or MaxIterations is out of range.
func (c *Camera) Validate() error {
	if math.IsNaN(c.Zoom) || c.Zoom < MinZoom || c.Zoom > MaxZoom {
		return fmt.Errorf("%w: zoom %v outside [%v, %v]", ErrInvariantViolation, c.Zoom, MinZoom, MaxZoom)
	}
	if c.MaxIterations < MinIterations || c.MaxIterations > MaxIterations {
		return fmt.Errorf("%w: max iterations %v outside [%v, %v]", ErrInvariantViolation, c.MaxIterations, MinIterations, MaxIterations)
	}
	if c.FractalSize <= 0 {
		return fmt.Errorf("%w: fractal size %v not positive", ErrInvariantViolation, c.FractalSize)
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
