package main

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/renderer"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestShoot(t *testing.T) {
	for _, backend := range []string{"", "cpu", "bigcpu"} {
		t.Run("backend="+backend, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "shot.png")
			err := shoot(context.Background(), config{
				x: -0.95, zoom: 1,
				backend: backend,
				out:     out,
				opts:    export.Options{Width: 24, Height: 16},
			})
			if err != nil {
				t.Fatal(err)
			}

			w, h := decodeSize(t, out)
			if w != 24 || h != 16 {
				t.Errorf("got %vx%v image, want 24x16", w, h)
			}
		})
	}
}

func TestShootGLUnavailable(t *testing.T) {
	err := shoot(context.Background(), config{
		zoom:    1,
		backend: "gl",
		out:     filepath.Join(t.TempDir(), "shot.png"),
		opts:    export.Options{Width: 8, Height: 8},
	})
	if !errors.Is(err, renderer.ErrCapabilityUnavailable) {
		t.Errorf("got %v, want ErrCapabilityUnavailable", err)
	}
}

func TestShootBadSize(t *testing.T) {
	err := shoot(context.Background(), config{
		zoom: 1,
		out:  filepath.Join(t.TempDir(), "shot.png"),
	})
	if err == nil {
		t.Error("empty image size accepted")
	}
}
