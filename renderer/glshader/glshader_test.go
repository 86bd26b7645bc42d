package glshader

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/renderer"
)

func TestUniformsFor(t *testing.T) {
	cam := camera.Default()
	cam.Viewport = camera.Viewport{Width: 800, Height: 600}
	cam.SetZoom(4)

	want := Uniforms{
		Resolution:    mgl32.Vec2{800, 600},
		Center:        mgl64.Vec2{-0.95, 0},
		Size:          2,
		Zoom:          4,
		MaxIterations: 80,
	}
	if got := UniformsFor(&cam); got != want {
		t.Errorf("UniformsFor = %+v, want %+v", got, want)
	}
}

func TestUniformNames(t *testing.T) {
	got := uniformNames(&Uniforms{})
	want := []string{"resolution", "center", "size", "zoom", "maxiterations"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("uniformNames = %v, want %v", got, want)
	}
}

func TestSetupWithoutContext(t *testing.T) {
	if Available() {
		t.Skip("GL context present")
	}

	b := New()
	if err := b.Setup(context.Background()); !errors.Is(err, renderer.ErrCapabilityUnavailable) {
		t.Errorf("Setup = %v, want ErrCapabilityUnavailable", err)
	}
	if _, err := NewTexturePresenter(); !errors.Is(err, renderer.ErrCapabilityUnavailable) {
		t.Errorf("NewTexturePresenter = %v, want ErrCapabilityUnavailable", err)
	}

	for i := 0; i < 2; i++ {
		if err := b.Destroy(); err != nil {
			t.Errorf("Destroy #%v: %v", i+1, err)
		}
	}
}
