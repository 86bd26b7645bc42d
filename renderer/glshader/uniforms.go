package glshader

import (
	"reflect"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/glmandel/camera"
)

// Uniforms are the mandelbrot shader inputs, uploaded by field tag.
type Uniforms struct {
	Resolution    mgl32.Vec2 `uniform:"resolution"`
	Center        mgl64.Vec2 `uniform:"center"`
	Size          float64    `uniform:"size"`
	Zoom          float64    `uniform:"zoom"`
	MaxIterations int32      `uniform:"maxIterations"`
}

// UniformsFor derives shader inputs from the camera.
func UniformsFor(cam *camera.Camera) Uniforms {
	return Uniforms{
		Resolution:    mgl32.Vec2{float32(cam.Viewport.Width), float32(cam.Viewport.Height)},
		Center:        cam.Position,
		Size:          cam.FractalSize,
		Zoom:          cam.Zoom,
		MaxIterations: int32(cam.MaxIterations),
	}
}

type textureUniforms struct {
	Resolution mgl32.Vec2 `uniform:"resolution"`
	Frame      int32      `uniform:"frame"`
}

// uniformNames lists the lowercased uniform tag of each field of the
// struct pointed to by v.
func uniformNames(v any) []string {
	t := reflect.TypeOf(v).Elem()
	names := make([]string, t.NumField())
	for i := range names {
		names[i] = strings.ToLower(t.Field(i).Tag.Get("uniform"))
	}
	return names
}

func uniformLocations(program uint32, v any) map[string]int32 {
	locations := make(map[string]int32)
	for _, name := range uniformNames(v) {
		locations[name] = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	}
	return locations
}

// loadUniforms uploads every tagged field of the struct pointed to by v to
// the program in use.
func loadUniforms(locations map[string]int32, v any) {
	s := reflect.ValueOf(v).Elem()
	for i := 0; i < s.NumField(); i++ {
		f := s.Field(i)

		ptr := f.Addr().UnsafePointer()
		loc, ok := locations[strings.ToLower(s.Type().Field(i).Tag.Get("uniform"))]
		if !ok || loc < 0 {
			continue
		}

		count := int32(1)

	SwitchElem:
		switch f.Type() {
		// Natural Array types
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(mgl32.Vec3{}):
			gl.Uniform3fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(mgl32.Vec4{}):
			gl.Uniform4fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(mgl64.Vec2{}):
			gl.Uniform2dv(loc, count, (*float64)(ptr))
			continue
		case reflect.TypeOf(mgl64.Vec3{}):
			gl.Uniform3dv(loc, count, (*float64)(ptr))
			continue
		case reflect.TypeOf(mgl64.Vec4{}):
			gl.Uniform4dv(loc, count, (*float64)(ptr))
			continue
		case reflect.TypeOf(mgl32.Mat4{}):
			gl.UniformMatrix4fv(loc, count, false, (*float32)(ptr))
			continue
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, count, (*int32)(ptr))
			continue
		case reflect.TypeOf(uint32(0)):
			gl.Uniform1uiv(loc, count, (*uint32)(ptr))
			continue
		case reflect.TypeOf(float32(0)):
			gl.Uniform1fv(loc, count, (*float32)(ptr))
			continue
		case reflect.TypeOf(float64(0)):
			gl.Uniform1dv(loc, count, (*float64)(ptr))
			continue
		}

		if f.Kind() == reflect.Array {
			count = int32(f.Len())
			f = f.Index(0)
			goto SwitchElem
		}

		logger().Warn("unsupported uniform type", "type", f.Type())
	}
}
