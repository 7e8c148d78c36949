// Package graphicstest provides an in-memory graphics.Backend for tests.
package graphicstest

import (
	"fmt"
	"regexp"
	"strings"
	"unsafe"

	"learn-gl/internal/graphics"
)

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+\w+\s+(\w+)\s*;`)

// Upload records a single uniform upload.
type Upload struct {
	Location int32
	Values   []float32
}

type shader struct {
	stage    graphics.Stage
	uniforms []string
}

type program struct {
	uniforms map[string]int32
}

// Backend fakes a GL driver. A shader fails to compile when its source
// contains "#error"; programs declare the uniforms found in their sources.
type Backend struct {
	FailLink bool

	next     uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	bound    uint32

	Uploads       []Upload
	LookupCount   int
	UseCount      int
	DeletedShader []uint32
	DeletedProg   []uint32
}

func New() *Backend {
	return &Backend{
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
	}
}

func (b *Backend) alloc() uint32 {
	b.next++
	return b.next
}

func (b *Backend) CompileShader(stage graphics.Stage, source string) (uint32, string, bool) {
	if i := strings.Index(source, "#error"); i >= 0 {
		line := strings.Count(source[:i], "\n") + 1
		return 0, fmt.Sprintf("0:%d: error: syntax error", line), false
	}
	s := &shader{stage: stage}
	for _, m := range uniformDecl.FindAllStringSubmatch(source, -1) {
		s.uniforms = append(s.uniforms, m[1])
	}
	id := b.alloc()
	b.shaders[id] = s
	return id, "", true
}

func (b *Backend) DeleteShader(id uint32) {
	delete(b.shaders, id)
	b.DeletedShader = append(b.DeletedShader, id)
}

func (b *Backend) LinkProgram(ids ...uint32) (uint32, string, bool) {
	if b.FailLink {
		return 0, "error: linking failed", false
	}
	p := &program{uniforms: make(map[string]int32)}
	for _, id := range ids {
		s, ok := b.shaders[id]
		if !ok {
			return 0, fmt.Sprintf("error: shader %d is not compiled", id), false
		}
		for _, name := range s.uniforms {
			if _, dup := p.uniforms[name]; !dup {
				p.uniforms[name] = int32(len(p.uniforms))
			}
		}
	}
	id := b.alloc()
	b.programs[id] = p
	return id, "", true
}

func (b *Backend) DeleteProgram(id uint32) {
	delete(b.programs, id)
	if b.bound == id {
		b.bound = 0
	}
	b.DeletedProg = append(b.DeletedProg, id)
}

func (b *Backend) UseProgram(id uint32) {
	b.UseCount++
	b.bound = id
}

func (b *Backend) UniformLocation(id uint32, name string) int32 {
	b.LookupCount++
	p, ok := b.programs[id]
	if !ok {
		return -1
	}
	loc, ok := p.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (b *Backend) record(loc int32, values ...float32) {
	b.Uploads = append(b.Uploads, Upload{Location: loc, Values: values})
}

func (b *Backend) Uniform1i(loc int32, v int32)               { b.record(loc, float32(v)) }
func (b *Backend) Uniform1f(loc int32, v float32)             { b.record(loc, v) }
func (b *Backend) Uniform3f(loc int32, x, y, z float32)       { b.record(loc, x, y, z) }
func (b *Backend) Uniform4f(loc int32, x, y, z, w float32)    { b.record(loc, x, y, z, w) }
func (b *Backend) UniformMatrix4fv(loc int32, value *float32) { b.record(loc, mat4(value)...) }

// Bound returns the program made current by the last UseProgram.
func (b *Backend) Bound() uint32 { return b.bound }

// Live reports whether a program handle has not been deleted.
func (b *Backend) Live(id uint32) bool {
	_, ok := b.programs[id]
	return ok
}

// LiveShaders returns the number of shader objects still allocated.
func (b *Backend) LiveShaders() int { return len(b.shaders) }

// Location returns the location the fake assigned to name in program id.
func (b *Backend) Location(id uint32, name string) int32 {
	p, ok := b.programs[id]
	if !ok {
		return -1
	}
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	return -1
}

func mat4(value *float32) []float32 {
	out := make([]float32, 16)
	copy(out, unsafe.Slice(value, 16))
	return out
}
