package glshader

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/glmandel/renderer"
)

var _ renderer.Presenter = (*TexturePresenter)(nil)

// TexturePresenter shows RGBA8 frames by uploading them to a texture drawn
// over the whole viewport.
type TexturePresenter struct {
	program   uint32
	texture   uint32
	triangle  triangle
	locations map[string]int32
	uniforms  textureUniforms

	width, height int
}

// NewTexturePresenter needs Init to have succeeded on the current context.
func NewTexturePresenter() (*TexturePresenter, error) {
	if !Available() {
		return nil, fmt.Errorf("texture presenter: no GL context: %w", renderer.ErrCapabilityUnavailable)
	}

	program, err := newProgram(defaultVertexShader, textureFragmentShader)
	if err != nil {
		return nil, err
	}

	p := &TexturePresenter{program: program}
	p.locations = uniformLocations(program, &p.uniforms)
	p.triangle = newTriangle(program)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return p, nil
}

func (p *TexturePresenter) Present(pix []byte, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if len(pix) < w*h*4 {
		return fmt.Errorf("texture presenter: frame of %v bytes is too small for %vx%v", len(pix), w, h)
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w != p.width || h != p.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
		p.width, p.height = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}

	gl.Viewport(0, 0, int32(w), int32(h))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(p.program)
	p.uniforms = textureUniforms{Resolution: mgl32.Vec2{float32(w), float32(h)}}
	loadUniforms(p.locations, &p.uniforms)
	p.triangle.draw()
	return nil
}

// Delete frees the GL objects. The presenter must not be used afterwards.
func (p *TexturePresenter) Delete() {
	if p.program == 0 {
		return
	}
	gl.DeleteTextures(1, &p.texture)
	p.triangle.delete()
	gl.DeleteProgram(p.program)
	p.program, p.texture = 0, 0
}
