package graphics

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Backend is the subset of the GPU API a ShaderProgram needs.
// Handles are opaque; zero is never a valid handle.
type Backend interface {
	// CompileShader returns the shader handle, or ok=false with the info log.
	// A failed shader is already released when CompileShader returns.
	CompileShader(stage Stage, source string) (shader uint32, log string, ok bool)
	DeleteShader(shader uint32)

	// LinkProgram links the given shaders. A failed program is already
	// released when LinkProgram returns.
	LinkProgram(shaders ...uint32) (program uint32, log string, ok bool)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// UniformLocation returns -1 when the program has no active uniform by that name.
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)
	Uniform4f(location int32, x, y, z, w float32)
	UniformMatrix4fv(location int32, value *float32)
}

// Sources is a vertex/fragment source pair.
type Sources struct {
	Vertex   string
	Fragment string
}
