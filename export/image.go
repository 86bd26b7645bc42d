// Package export renders camera views to PNG files away from the live
// render loop.
package export

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync/atomic"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/fractal"
	"github.com/stewi1014/glmandel/internal/logging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Sampler colours arbitrary sub-pixel positions.
type Sampler interface {
	Sample(px, py float64) color.RGBA
	Bounds() image.Rectangle
}

// FractalSampler evaluates a camera view. Whole pixel positions land on
// the same plane points as fractal.Rasterize.
type FractalSampler struct {
	Camera camera.Camera

	offsetsX, offsetsY []float64
}

func NewFractalSampler(cam camera.Camera) *FractalSampler {
	return &FractalSampler{
		Camera:   cam,
		offsetsX: fractal.Offsets(cam.Viewport.Width),
		offsetsY: fractal.Offsets(cam.Viewport.Height),
	}
}

// offset interpolates within the accumulated offset table, extrapolating
// outside it.
func offset(offsets []float64, p float64) float64 {
	n := len(offsets) - 1
	if n <= 0 {
		return 0
	}
	step := 1.0 / float64(n)
	i := math.Floor(p)
	if i < 0 || int(i) >= n {
		return -0.5 + p*step
	}
	frac := p - i
	if frac == 0 {
		return offsets[int(i)]
	}
	return offsets[int(i)] + frac*step
}

func (s *FractalSampler) Sample(px, py float64) color.RGBA {
	c := fractal.Point(&s.Camera, offset(s.offsetsX, px), offset(s.offsetsY, py))
	return fractal.ColorFor(fractal.Evaluate(c, s.Camera.MaxIterations), s.Camera.MaxIterations)
}

func (s *FractalSampler) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.Camera.Viewport.Width, s.Camera.Viewport.Height)
}

// AntiAlias9x samples 9 positions for each sampled position,
// returning the average colour.
//
// antialias is the number of pixels apart the sampled locations are.
func AntiAlias9x(s Sampler, antialias float64) Sampler {
	if antialias == 0 {
		logging.For("Export").Warn("image uselessly antialiased with distance of 0")
	}
	return &antialias9x{Sampler: s, offset: antialias}
}

type antialias9x struct {
	Sampler
	offset float64
}

func (s *antialias9x) Sample(px, py float64) color.RGBA {
	var r, g, b, a int
	for _, dx := range [3]float64{-s.offset, 0, s.offset} {
		for _, dy := range [3]float64{-s.offset, 0, s.offset} {
			c := s.Sampler.Sample(px+dx, py+dy)
			r += int(c.R)
			g += int(c.G)
			b += int(c.B)
			a += int(c.A)
		}
	}
	return color.RGBA{R: uint8(r / 9), G: uint8(g / 9), B: uint8(b / 9), A: uint8(a / 9)}
}

// ToImage adapts a Sampler to image.Image, sampling each pixel once.
func ToImage(s Sampler) image.Image {
	return samplerImage{s}
}

type samplerImage struct {
	Sampler
}

func (i samplerImage) At(x, y int) color.Color {
	return i.Sample(float64(x), float64(y))
}

func (i samplerImage) ColorModel() color.Model {
	return color.RGBAModel
}

func (i samplerImage) Opaque() bool {
	return true
}

// WrapWithProgress counts At calls on img. The returned func reports the
// fraction of pixels read so far.
func WrapWithProgress(img *image.Image) func() float64 {
	p := &progressImage{
		Image: *img,
	}

	*img = p
	return p.Progress
}

type progressImage struct {
	image.Image
	count atomic.Int64
}

func (i *progressImage) At(x, y int) color.Color {
	i.count.Add(1)
	return i.Image.At(x, y)
}

func (i *progressImage) Progress() float64 {
	end := i.Bounds().Dx() * i.Bounds().Dy()
	if end == 0 {
		return 1
	}
	return float64(i.count.Load()) / float64(end)
}

func (i *progressImage) Opaque() bool {
	return true
}

// ChunkSize is the number of columns one worker buffers at a time.
const ChunkSize = 50

// Buffer reads every pixel of img into memory, in parallel column chunks.
func Buffer(ctx context.Context, img image.Image) (*image.RGBA, error) {
	bounds := img.Bounds()
	buff := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for chunkMin := bounds.Min.X; chunkMin < bounds.Max.X; chunkMin += ChunkSize {
		chunkMin := chunkMin
		chunkMax := min(chunkMin+ChunkSize, bounds.Max.X)

		g.Go(func() error {
			for x := chunkMin; x < chunkMax; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}

				for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
					buff.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return buff, nil
}

// Downscale resamples src to width x height with Catmull-Rom filtering.
func Downscale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
