// Package glshader renders the Mandelbrot set in a GLSL fragment shader and
// presents CPU-rendered frames through a GL texture.
//
// Everything here must run on the thread owning the current GL context.
package glshader

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stewi1014/glmandel/camera"
	"github.com/stewi1014/glmandel/internal/logging"
	"github.com/stewi1014/glmandel/renderer"
)

var (
	//go:embed shaders/default.vert
	defaultVertexShader string

	//go:embed shaders/mandelbrot.frag
	mandelbrotFragmentShader string

	//go:embed shaders/texture.frag
	textureFragmentShader string
)

var initialized atomic.Bool

func logger() *slog.Logger {
	return logging.For("GlRenderer")
}

// Init loads GL function pointers for the current context. Backends refuse
// to set up until it has succeeded.
func Init(debug bool) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl.Init: %w", err)
	}
	initialized.Store(true)

	logger().Info("OpenGL initialised", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	gl.DebugMessageCallback(glDebugMessage, nil)
	if debug {
		gl.Enable(gl.DEBUG_OUTPUT)
	}
	return nil
}

// Available reports whether Init has succeeded.
func Available() bool {
	return initialized.Load()
}

var _ renderer.Backend = (*Backend)(nil)

// Backend draws straight into the bound framebuffer.
type Backend struct {
	program   uint32
	triangle  triangle
	locations map[string]int32
	uniforms  Uniforms
	ready     bool
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Kind() renderer.Kind { return renderer.KindGL }

func (b *Backend) Setup(ctx context.Context) error {
	if !Available() {
		return fmt.Errorf("gl renderer: no GL context: %w", renderer.ErrCapabilityUnavailable)
	}
	if b.ready {
		return nil
	}

	program, err := newProgram(defaultVertexShader, mandelbrotFragmentShader)
	if err != nil {
		return fmt.Errorf("gl renderer: %v: %w", err, renderer.ErrCapabilityUnavailable)
	}

	b.program = program
	b.locations = uniformLocations(program, &b.uniforms)
	b.triangle = newTriangle(program)
	b.ready = true

	gl.ClearColor(0, 0, 0, 1)
	logger().Info("setup", "program", program)
	return nil
}

func (b *Backend) Step(ctx context.Context, cam *camera.Camera) error {
	if !b.ready {
		return renderer.ErrDestroyed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if cam.Viewport.Empty() {
		return nil
	}

	gl.Viewport(0, 0, int32(cam.Viewport.Width), int32(cam.Viewport.Height))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(b.program)
	b.uniforms = UniformsFor(cam)
	loadUniforms(b.locations, &b.uniforms)
	b.triangle.draw()

	gl.Finish()
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl renderer: draw failed with error 0x%x", code)
	}
	return nil
}

func (b *Backend) Destroy() error {
	if !b.ready {
		return nil
	}
	b.triangle.delete()
	gl.DeleteProgram(b.program)
	b.program = 0
	b.ready = false
	logger().Info("destroyed")
	return nil
}
