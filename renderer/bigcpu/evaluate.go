package bigcpu

import (
	"math/big"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/fractal"
)

var four = big.NewFloat(fractal.EscapeRadiusSquared)

// Evaluate is fractal.Evaluate carried out in arbitrary precision.
func Evaluate(cr, ci *big.Float, maxIterations int, prec uint) float64 {
	newFloat := func() *big.Float { return new(big.Float).SetPrec(prec) }

	re, im := newFloat(), newFloat()
	re2, im2 := newFloat(), newFloat()
	mag, t := newFloat(), newFloat()

	n := 0
	for n < maxIterations {
		re2.Mul(re, re)
		im2.Mul(im, im)
		if mag.Add(re2, im2).Cmp(four) > 0 {
			break
		}

		// im = 2*re*im + ci, re = re² - im² + cr
		t.Mul(re, im)
		im.Add(t, t)
		im.Add(im, ci)
		re.Sub(re2, im2)
		re.Add(re, cr)
		n++
	}

	if n == maxIterations {
		return float64(maxIterations)
	}

	re2.Mul(re, re)
	im2.Mul(im, im)
	mag.Add(re2, im2)
	modulus, _ := mag.Sqrt(mag).Float64()
	return fractal.Smooth(n, modulus, maxIterations)
}

// PixelToComplex is camera.Camera.PixelToComplex in arbitrary precision.
func PixelToComplex(cam *camera.Camera, x, y int, prec uint) (re, im *big.Float) {
	newFloat := func(v float64) *big.Float { return new(big.Float).SetPrec(prec).SetFloat64(v) }

	scale := newFloat(cam.FractalSize)
	scale.Quo(scale, newFloat(cam.Zoom))

	offX := newFloat(float64(x))
	offX.Quo(offX, newFloat(float64(cam.Viewport.Width)))
	offX.Sub(offX, newFloat(0.5))

	offY := newFloat(float64(y))
	offY.Quo(offY, newFloat(float64(cam.Viewport.Height)))
	offY.Sub(offY, newFloat(0.5))

	re = offX.Mul(offX, scale)
	re.Add(re, newFloat(cam.Position[0]))

	im = offY.Mul(offY, scale)
	im.Add(im, newFloat(cam.Position[1]))
	im.Quo(im, newFloat(cam.Viewport.AspectRatio()))
	return re, im
}
