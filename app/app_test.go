package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/controller"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/settings"
)

type fakeBackend struct {
	kind     renderer.Kind
	setupErr error
	stepErr  error

	steps            int
	destroys         int
	stepAfterDestroy bool
}

func (b *fakeBackend) Kind() renderer.Kind { return b.kind }

func (b *fakeBackend) Setup(context.Context) error { return b.setupErr }

func (b *fakeBackend) Step(context.Context, *camera.Camera) error {
	if b.destroys > 0 {
		b.stepAfterDestroy = true
	}
	b.steps++
	return b.stepErr
}

func (b *fakeBackend) Destroy() error {
	b.destroys++
	return nil
}

type fakeFactory struct {
	setupErrs map[renderer.Kind]error
	stepErr   error
	built     []*fakeBackend
}

func (f *fakeFactory) build(kind renderer.Kind) (renderer.Backend, error) {
	b := &fakeBackend{kind: kind, setupErr: f.setupErrs[kind], stepErr: f.stepErr}
	f.built = append(f.built, b)
	return b, nil
}

type memoryStore struct {
	saved settings.Settings
}

func (s *memoryStore) Load() (settings.Settings, error) { return s.saved, nil }

func (s *memoryStore) Save(v settings.Settings) error {
	s.saved = v
	return nil
}

type countingController struct {
	controller.DesktopController
	updates int
}

func (c *countingController) Update(dt float64, cam *camera.Camera) {
	c.updates++
}

func newApp(t *testing.T, f *fakeFactory, opts Options) *App {
	t.Helper()
	opts.Factory = f.build
	a := New(opts)
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	a.Resize(80, 60)
	return a
}

func TestTickSteps(t *testing.T) {
	f := &fakeFactory{}
	ctrl := &countingController{}
	a := newApp(t, f, Options{Controller: ctrl})

	for i := 0; i < 3; i++ {
		if err := a.Tick(context.Background(), 1.0/60); err != nil {
			t.Fatal(err)
		}
	}

	if f.built[0].steps != 3 {
		t.Errorf("stepped %v times, want 3", f.built[0].steps)
	}
	if ctrl.updates != 3 {
		t.Errorf("controller updated %v times, want 3", ctrl.updates)
	}
	if a.Camera.Viewport != (camera.Viewport{Width: 80, Height: 60}) {
		t.Errorf("viewport = %+v", a.Camera.Viewport)
	}
}

func TestSetBackend(t *testing.T) {
	f := &fakeFactory{}
	store := &memoryStore{}
	a := newApp(t, f, Options{Settings: store})

	if err := a.SetBackend(context.Background(), renderer.KindNative); err != nil {
		t.Fatal(err)
	}

	if f.built[0].destroys != 1 {
		t.Errorf("old backend destroyed %v times, want 1", f.built[0].destroys)
	}
	if k := a.Backend().Kind(); k != renderer.KindNative {
		t.Errorf("active backend = %v", k)
	}
	if store.saved.Backend != "native" {
		t.Errorf("saved backend = %q", store.saved.Backend)
	}
}

func TestSetBackendRestoresPrevious(t *testing.T) {
	f := &fakeFactory{setupErrs: map[renderer.Kind]error{
		renderer.KindGL: fmt.Errorf("no context: %w", renderer.ErrCapabilityUnavailable),
	}}
	store := &memoryStore{}
	a := newApp(t, f, Options{Backend: renderer.KindNative, Settings: store})

	err := a.SetBackend(context.Background(), renderer.KindGL)
	if !errors.Is(err, renderer.ErrCapabilityUnavailable) {
		t.Fatalf("SetBackend = %v, want ErrCapabilityUnavailable", err)
	}

	if a.Backend() == nil || a.Backend().Kind() != renderer.KindNative {
		t.Fatalf("active backend = %v, want native", a.Backend())
	}
	if f.built[1].destroys != 1 {
		t.Errorf("failed backend destroyed %v times, want 1", f.built[1].destroys)
	}
	if store.saved.Backend != "native" {
		t.Errorf("failed switch was saved as %q", store.saved.Backend)
	}
}

func TestStartFallsBack(t *testing.T) {
	f := &fakeFactory{setupErrs: map[renderer.Kind]error{
		renderer.KindGL: renderer.ErrCapabilityUnavailable,
	}}
	a := New(Options{Factory: f.build, Backend: renderer.KindGL, Fallback: renderer.KindCPU})

	if err := a.Start(context.Background()); !errors.Is(err, renderer.ErrCapabilityUnavailable) {
		t.Fatalf("Start = %v", err)
	}
	if a.Backend() == nil || a.Backend().Kind() != renderer.KindCPU {
		t.Errorf("active backend = %v, want cpu", a.Backend())
	}
}

func TestRequestBackendAppliesOnTick(t *testing.T) {
	f := &fakeFactory{}
	a := newApp(t, f, Options{})
	old := f.built[0]

	a.RequestBackend(renderer.KindBigCPU)
	if a.Backend() != old {
		t.Fatal("switch applied before the tick")
	}

	if err := a.Tick(context.Background(), 1.0/60); err != nil {
		t.Fatal(err)
	}
	if k := a.Backend().Kind(); k != renderer.KindBigCPU {
		t.Errorf("active backend = %v", k)
	}
	if old.steps != 0 || old.stepAfterDestroy {
		t.Errorf("old backend stepped %v times", old.steps)
	}
	if f.built[1].steps != 1 {
		t.Errorf("new backend stepped %v times, want 1", f.built[1].steps)
	}
}

func TestTickInvariant(t *testing.T) {
	tests := []struct {
		debug   bool
		wantErr bool
	}{
		{debug: true, wantErr: true},
		{debug: false, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("debug=%v", tt.debug), func(t *testing.T) {
			f := &fakeFactory{}
			a := newApp(t, f, Options{Debug: tt.debug})
			a.Camera.Zoom = 1e9

			err := a.Tick(context.Background(), 1.0/60)
			if got := errors.Is(err, camera.ErrInvariantViolation); got != tt.wantErr {
				t.Fatalf("Tick = %v", err)
			}
			if !tt.debug {
				if a.Camera.Zoom != camera.MaxZoom {
					t.Errorf("zoom %v was not clamped", a.Camera.Zoom)
				}
				if f.built[0].steps != 1 {
					t.Errorf("stepped %v times, want 1", f.built[0].steps)
				}
			}
		})
	}
}

func TestTickSwallowsStepErrors(t *testing.T) {
	f := &fakeFactory{stepErr: renderer.ErrResourceExhausted}
	a := newApp(t, f, Options{})

	for i := 0; i < 2; i++ {
		if err := a.Tick(context.Background(), 1.0/60); err != nil {
			t.Fatalf("Tick = %v", err)
		}
	}
	if f.built[0].steps != 2 {
		t.Errorf("stepped %v times, want 2", f.built[0].steps)
	}
}

func TestClose(t *testing.T) {
	f := &fakeFactory{}
	a := newApp(t, f, Options{})

	for i := 0; i < 2; i++ {
		if err := a.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if f.built[0].destroys != 1 {
		t.Errorf("destroyed %v times, want 1", f.built[0].destroys)
	}
	if err := a.Tick(context.Background(), 1.0/60); err != nil {
		t.Errorf("Tick after Close = %v", err)
	}
}

func TestInitialBackend(t *testing.T) {
	tests := []struct {
		stored string
		want   renderer.Kind
	}{
		{"", renderer.KindGL},
		{"native", renderer.KindNative},
		{"webgpu", renderer.KindGL},
	}

	for _, tt := range tests {
		store := &memoryStore{saved: settings.Settings{Backend: tt.stored}}
		if got := InitialBackend(store, renderer.KindGL); got != tt.want {
			t.Errorf("InitialBackend(%q) = %v, want %v", tt.stored, got, tt.want)
		}
	}
	if got := InitialBackend(nil, renderer.KindCPU); got != renderer.KindCPU {
		t.Errorf("InitialBackend(nil) = %v", got)
	}
}
