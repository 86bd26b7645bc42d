package fractal

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ColorFor maps a smooth escape value to a pixel. Points inside the set are
// black, escaped points are fully saturated at half lightness with the hue
// following value/maxIterations around the wheel.
func ColorFor(value float64, maxIterations int) color.RGBA {
	hue := clamp01(value/float64(maxIterations)) * 360
	lightness := 0.5
	if value >= float64(maxIterations) {
		lightness = 0
	}

	r, g, b := HSLToRGB(hue, 1, lightness)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// HSLToRGB converts hue in degrees, saturation and lightness in [0, 1].
func HSLToRGB(h, s, l float64) (r, g, b uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var rf, gf, bf float64
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return channel(rf + m), channel(gf + m), channel(bf + m)
}

func channel(v float64) uint8 {
	return uint8(math.Floor(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, 0, 1)
}
