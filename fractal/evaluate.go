// Package fractal holds the escape-time evaluation, coloring and pixel grid
// rasterization shared by every CPU-class renderer.
package fractal

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EscapeRadiusSquared bounds |z|² before a point is considered escaped.
const EscapeRadiusSquared = 4.0

// Evaluate returns the smooth escape count of c, in [0, maxIterations].
// Points that never escape return exactly maxIterations.
func Evaluate(c complex128, maxIterations int) float64 {
	cr, ci := real(c), imag(c)
	var re, im float64
	n := 0
	for re*re+im*im <= EscapeRadiusSquared && n < maxIterations {
		re, im = re*re-im*im+cr, 2*re*im+ci
		n++
	}

	if n == maxIterations {
		return float64(maxIterations)
	}
	return Smooth(n, math.Sqrt(re*re+im*im), maxIterations)
}

// Evaluate32 is Evaluate in single precision, matching the shader and
// native backends.
func Evaluate32(cr, ci float32, maxIterations int) float32 {
	var re, im float32
	n := 0
	for re*re+im*im <= EscapeRadiusSquared && n < maxIterations {
		re, im = re*re-im*im+cr, 2*re*im+ci
		n++
	}

	if n == maxIterations {
		return float32(maxIterations)
	}
	modulus := math.Sqrt(float64(re*re + im*im))
	return float32(Smooth(n, modulus, maxIterations))
}

// Smooth turns an integer escape count and the final modulus into the
// continuous count n + 1 - log2(log(|z|)), clamped to [0, maxIterations].
// NaN maps to 0.
func Smooth(n int, modulus float64, maxIterations int) float64 {
	v := float64(n) + 1 - math.Log2(math.Log(modulus))
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, 0, float64(maxIterations))
}
