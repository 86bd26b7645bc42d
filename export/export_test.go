package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/fractal"
)

type solid struct {
	c color.RGBA
}

func (s solid) Sample(float64, float64) color.RGBA { return s.c }
func (s solid) Bounds() image.Rectangle           { return image.Rect(0, 0, 4, 4) }

func TestRenderMatchesRasterizer(t *testing.T) {
	cam := camera.Default()
	img, err := Render(context.Background(), cam, Options{Width: 40, Height: 30}, nil)
	if err != nil {
		t.Fatal(err)
	}

	cam.Viewport = camera.Viewport{Width: 40, Height: 30}
	want := image.NewRGBA(image.Rect(0, 0, 40, 30))
	fractal.Rasterize(&cam, fractal.RGBAWriter(want.Pix, 40))

	for i := range want.Pix {
		if img.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel %v differs from the rasterizer: got %v, want %v", i/4, img.Pix[i:i+1], want.Pix[i:i+1])
		}
	}
}

func TestFractalSamplerWholePixels(t *testing.T) {
	cam := camera.Default()
	cam.Viewport = camera.Viewport{Width: 64, Height: 48}
	s := NewFractalSampler(cam)

	fractal.Rasterize(&cam, func(x, y int, c color.RGBA) {
		if got := s.Sample(float64(x), float64(y)); got != c {
			t.Fatalf("Sample(%v, %v) = %v, rasterizer drew %v", x, y, got, c)
		}
	})
}

func TestFractalSamplerOutsideViewport(t *testing.T) {
	cam := camera.Default()
	cam.Viewport = camera.Viewport{Width: 10, Height: 10}
	s := NewFractalSampler(cam)

	for _, p := range []float64{-0.3, 9.7, 10.2} {
		want := -0.5 + p/10
		if got := offset(s.offsetsX, p); math.Abs(got-want) > 1e-12 {
			t.Errorf("offset(%v) = %v, want %v", p, got, want)
		}
	}
}

func TestRenderOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"plain", Options{Width: 30, Height: 20}},
		{"antialiased", Options{Width: 30, Height: 20, Antialias: 0.5}},
		{"supersampled", Options{Width: 30, Height: 20, Supersample: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := &Progress{}
			img, err := Render(context.Background(), camera.Default(), tt.opts, progress)
			if err != nil {
				t.Fatal(err)
			}
			if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
				t.Errorf("bounds %v", b)
			}
			if f := progress.Fraction(); f != 1 {
				t.Errorf("progress %v after render, want 1", f)
			}
			if progress.Stage() != "Rendering to Buffer" {
				t.Errorf("stage %q", progress.Stage())
			}
		})
	}
}

func TestRenderBadSize(t *testing.T) {
	_, err := Render(context.Background(), camera.Default(), Options{Width: 0, Height: 10}, nil)
	if !errors.Is(err, ErrBadSize) {
		t.Errorf("Render = %v, want ErrBadSize", err)
	}
}

func TestAntiAlias9xAverages(t *testing.T) {
	c := color.RGBA{R: 10, G: 200, B: 30, A: 255}
	if got := AntiAlias9x(solid{c}, 1).Sample(2, 2); got != c {
		t.Errorf("Sample = %v, want %v", got, c)
	}
}

func TestBufferCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cam := camera.Default()
	cam.Viewport = camera.Viewport{Width: 200, Height: 10}
	if _, err := Buffer(ctx, ToImage(NewFractalSampler(cam))); !errors.Is(err, context.Canceled) {
		t.Errorf("Buffer = %v, want context.Canceled", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mandel.png")

	if err := SavePNG(context.Background(), path, camera.Default(), Options{Width: 16, Height: 12}, nil); err != nil {
		t.Fatal(err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 12 {
		t.Errorf("bounds %v", b)
	}
}

func TestSaveRemovesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	if err := Save(ctx, path, img, nil); err == nil {
		t.Fatal("Save succeeded with a cancelled context")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial file left behind: %v", err)
	}
}
