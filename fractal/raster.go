package fractal

import (
	"image/color"

	"github.com/stewi1014/glmandel/camera"
)

// PixelFunc receives one rasterized pixel.
type PixelFunc func(x, y int, c color.RGBA)

// Rasterize evaluates every pixel of the camera viewport, row by row.
func Rasterize(cam *camera.Camera, writePixel PixelFunc) {
	RasterizeRows(cam, 0, cam.Viewport.Height, writePixel)
}

// RasterizeRows evaluates rows [minY, maxY) of the camera viewport.
//
// Offsets start at -0.5 and advance by 1/width and 1/height, so pixel
// (x, y) lands on the same plane coordinate as Camera.PixelToComplex.
func RasterizeRows(cam *camera.Camera, minY, maxY int, writePixel PixelFunc) {
	width, height := cam.Viewport.Width, cam.Viewport.Height
	if width <= 0 || height <= 0 {
		return
	}

	minY, maxY = max(minY, 0), min(maxY, height)

	offsetsX := Offsets(width)
	offsetsY := Offsets(height)
	maxIterations := cam.MaxIterations

	for y := minY; y < maxY; y++ {
		for x := 0; x < width; x++ {
			value := Evaluate(Point(cam, offsetsX[x], offsetsY[y]), maxIterations)
			writePixel(x, y, ColorFor(value, maxIterations))
		}
	}
}

// Offsets returns the normalized offset of each of n pixels plus one past
// the end, accumulated from -0.5 in steps of 1/n.
func Offsets(n int) []float64 {
	offsets := make([]float64, n+1)
	step := 1.0 / float64(n)
	off := -0.5
	for i := range offsets {
		offsets[i] = off
		off += step
	}
	return offsets
}

// Point maps normalized viewport offsets to the complex plane.
func Point(cam *camera.Camera, offX, offY float64) complex128 {
	scale := cam.Scale()
	return complex(
		offX*scale+cam.Position[0],
		(offY*scale+cam.Position[1])/cam.Viewport.AspectRatio(),
	)
}

// RGBAWriter returns a PixelFunc storing pixels into an RGBA8 buffer of the
// given width.
func RGBAWriter(pix []byte, width int) PixelFunc {
	return func(x, y int, c color.RGBA) {
		i := (x + y*width) * 4
		pix[i] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}
