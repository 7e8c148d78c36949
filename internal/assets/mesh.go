// Package assets uploads geometry and textures to the GPU. A GL context must
// be current on the calling thread.
package assets

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"learn-gl/internal/assets/model"
)

// Attribute describes one float vertex attribute: its shader location and
// component count. Attributes are packed in the order given.
type Attribute struct {
	Location uint32
	Size     int32
}

// Common layouts used by the demos.
var (
	LayoutPosition   = []Attribute{{Location: 0, Size: 3}}
	LayoutPositionUV = []Attribute{{Location: 0, Size: 3}, {Location: 1, Size: 2}}
)

// Mesh owns a VAO with its vertex buffer and optional element buffer.
type Mesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

// NewMesh uploads interleaved vertices. indices may be nil for DrawArrays.
func NewMesh(vertices []float32, indices []uint32, layout []Attribute) *Mesh {
	var stride int32
	for _, a := range layout {
		stride += a.Size
	}

	m := &Mesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	var offset int32
	for _, a := range layout {
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(a.Location)
		offset += a.Size
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		m.count = int32(len(indices))
		m.indexed = true
	} else if stride > 0 {
		m.count = int32(len(vertices)) / stride
	}

	// unbind to reduce accidental state changes; the EBO binding stays with the VAO
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

// NewModelMesh uploads glTF geometry with the position+UV layout.
func NewModelMesh(g *model.Geometry) *Mesh {
	return NewMesh(g.Vertices, g.Indices, LayoutPositionUV)
}

// LoadModel reads a glTF/GLB file and uploads its triangles. The geometry is
// returned for its bounds and UV flag.
func LoadModel(path string) (*Mesh, *model.Geometry, error) {
	g, err := model.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return NewModelMesh(g), g, nil
}

// Draw binds the VAO and submits the triangles.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	if m.indexed {
		gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.count)
	}
}

// Delete releases the GPU buffers.
func (m *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	*m = Mesh{}
}
