// Package glbackend implements graphics.Backend on OpenGL 4.1 core.
// All calls must happen on the thread that owns the GL context.
package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"learn-gl/internal/graphics"
)

// Backend issues GL calls for shader programs and frame clears.
type Backend struct {
	clearColor [4]float32
	wireframe  bool
}

// New loads the GL function pointers. A context must be current.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	gl.Enable(gl.DEPTH_TEST)
	return &Backend{clearColor: [4]float32{0, 0, 0, 1}}, nil
}

// Version returns the driver's GL version string.
func (b *Backend) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (b *Backend) SetClearColor(r, g, bl, a float32) {
	b.clearColor = [4]float32{r, g, bl, a}
}

// Clear clears the color and depth targets.
func (b *Backend) Clear() {
	c := b.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SetWireframe switches polygon rasterization between lines and fill.
func (b *Backend) SetWireframe(on bool) {
	b.wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

func (b *Backend) Wireframe() bool { return b.wireframe }

// Viewport matches the GL viewport to a framebuffer size.
func (b *Backend) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *Backend) CompileShader(stage graphics.Stage, source string) (uint32, string, bool) {
	var shaderType uint32
	switch stage {
	case graphics.VertexStage:
		shaderType = gl.VERTEX_SHADER
	case graphics.FragmentStage:
		shaderType = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Sprintf("unsupported stage %v", stage), false
	}

	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, trimLog(log), false
	}
	return shader, "", true
}

func (b *Backend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (b *Backend) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, trimLog(log), false
	}
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}
	return program, "", true
}

func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *Backend) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (b *Backend) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (b *Backend) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (b *Backend) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (b *Backend) Uniform4f(location int32, x, y, z, w float32) {
	gl.Uniform4f(location, x, y, z, w)
}

func (b *Backend) UniformMatrix4fv(location int32, value *float32) {
	gl.UniformMatrix4fv(location, 1, false, value)
}

func trimLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}
