package graphics

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderProgram represents a linked vertex+fragment program.
//
// A program that failed to build is still a valid value: Use reports
// ErrInvalidHandle and uniform setters report false, so a caller can keep
// running without drawing until a Reload succeeds. Location tells the two
// failure kinds of a setter apart.
type ShaderProgram struct {
	backend Backend
	handle  uint32
	ready   bool

	// name -> location, including -1 for names the program does not have
	locations map[string]int32
	destroyed bool
	// warnedInvalid limits the invalid-handle upload warning to once per state
	warnedInvalid bool

	Logger *slog.Logger
}

// Compile builds a program from vertex and fragment sources.
// On failure the returned program is not ready and err is a *CompileError or
// *LinkError.
func Compile(backend Backend, vertexSrc, fragmentSrc string) (*ShaderProgram, error) {
	p := &ShaderProgram{backend: backend}
	handle, err := compileProgram(backend, vertexSrc, fragmentSrc)
	if err != nil {
		return p, err
	}
	p.handle = handle
	p.ready = true
	return p, nil
}

// Ready reports whether the program holds a linked handle.
func (p *ShaderProgram) Ready() bool { return p != nil && p.ready }

// Handle returns the backend handle, zero when not ready.
func (p *ShaderProgram) Handle() uint32 {
	if !p.Ready() {
		return 0
	}
	return p.handle
}

// Use activates the shader program
func (p *ShaderProgram) Use() error {
	if !p.Ready() {
		return ErrInvalidHandle
	}
	p.backend.UseProgram(p.handle)
	return nil
}

// Reload builds a replacement program and swaps it in. On failure the current
// program stays active and the error is returned.
// A destroyed program cannot be reloaded.
func (p *ShaderProgram) Reload(vertexSrc, fragmentSrc string) error {
	if p == nil || p.destroyed {
		return ErrInvalidHandle
	}
	handle, err := compileProgram(p.backend, vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	if p.ready {
		p.backend.DeleteProgram(p.handle)
	}
	p.handle = handle
	p.ready = true
	p.locations = nil
	p.warnedInvalid = false
	return nil
}

// Destroy releases the program. Calling it again is a no-op.
func (p *ShaderProgram) Destroy() {
	if p == nil {
		return
	}
	p.destroyed = true
	if !p.ready {
		return
	}
	p.backend.DeleteProgram(p.handle)
	p.handle = 0
	p.ready = false
	p.locations = nil
}

// SetBool sets a boolean uniform
func (p *ShaderProgram) SetBool(name string, value bool) bool {
	var v int32
	if value {
		v = 1
	}
	return p.SetInt(name, v)
}

// SetInt sets an integer uniform
func (p *ShaderProgram) SetInt(name string, value int32) bool {
	loc, ok := p.location(name)
	if ok {
		p.backend.Uniform1i(loc, value)
	}
	return ok
}

// SetFloat sets a float uniform
func (p *ShaderProgram) SetFloat(name string, value float32) bool {
	loc, ok := p.location(name)
	if ok {
		p.backend.Uniform1f(loc, value)
	}
	return ok
}

// SetVec3 sets a vec3 uniform
func (p *ShaderProgram) SetVec3(name string, v mgl32.Vec3) bool {
	loc, ok := p.location(name)
	if ok {
		p.backend.Uniform3f(loc, v[0], v[1], v[2])
	}
	return ok
}

// SetVec4 sets a vec4 uniform
func (p *ShaderProgram) SetVec4(name string, v mgl32.Vec4) bool {
	loc, ok := p.location(name)
	if ok {
		p.backend.Uniform4f(loc, v[0], v[1], v[2], v[3])
	}
	return ok
}

// SetMat4 sets a 4x4 matrix uniform
func (p *ShaderProgram) SetMat4(name string, m mgl32.Mat4) bool {
	loc, ok := p.location(name)
	if ok {
		p.backend.UniformMatrix4fv(loc, &m[0])
	}
	return ok
}

// Location resolves name once per linked program. It returns
// ErrInvalidHandle when the program is not ready and ErrUniformNotFound when
// the program has no such uniform.
func (p *ShaderProgram) Location(name string) (int32, error) {
	if !p.Ready() {
		return -1, ErrInvalidHandle
	}
	loc, ok := p.locations[name]
	if !ok {
		if p.locations == nil {
			p.locations = make(map[string]int32)
		}
		loc = p.backend.UniformLocation(p.handle, name)
		p.locations[name] = loc
		if loc < 0 {
			p.logger().Warn("uniform not found", "program", p.handle, "name", name)
		}
	}
	if loc < 0 {
		return loc, fmt.Errorf("%w: %q", ErrUniformNotFound, name)
	}
	return loc, nil
}

// location backs the setters. Missing uniforms are logged once by Location;
// uploads to a program that is not ready are logged once until it is rebuilt.
func (p *ShaderProgram) location(name string) (int32, bool) {
	loc, err := p.Location(name)
	if errors.Is(err, ErrInvalidHandle) && p != nil && !p.warnedInvalid {
		p.warnedInvalid = true
		p.logger().Warn("uniform upload on invalid shader program", "name", name)
	}
	return loc, err == nil
}

func (p *ShaderProgram) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func compileProgram(backend Backend, vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, log, ok := backend.CompileShader(VertexStage, vertexSrc)
	if !ok {
		return 0, &CompileError{Stage: VertexStage, Log: log}
	}
	fragmentShader, log, ok := backend.CompileShader(FragmentStage, fragmentSrc)
	if !ok {
		backend.DeleteShader(vertexShader)
		return 0, &CompileError{Stage: FragmentStage, Log: log}
	}

	program, log, ok := backend.LinkProgram(vertexShader, fragmentShader)

	// shaders can be deleted after linking
	backend.DeleteShader(vertexShader)
	backend.DeleteShader(fragmentShader)

	if !ok {
		return 0, &LinkError{Log: log}
	}
	return program, nil
}
