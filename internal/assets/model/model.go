// Package model flattens glTF meshes into one interleaved position+UV buffer.
// Node transforms and materials are ignored; every triangle primitive of every
// mesh is merged in mesh space.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Stride is the number of floats per vertex: x y z u v.
const Stride = 5

// ErrNoGeometry is returned for documents without triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// Geometry is an indexed triangle list.
type Geometry struct {
	Vertices []float32
	Indices  []uint32
	HasUV    bool
	Min, Max mgl32.Vec3
}

// VertexCount returns the number of vertices in Vertices.
func (g *Geometry) VertexCount() int { return len(g.Vertices) / Stride }

// Load opens a .gltf or .glb file.
func Load(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	g, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// FromDocument merges all triangle primitives of doc.
func FromDocument(doc *gltf.Document) (*Geometry, error) {
	g := &Geometry{
		Min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
	for mi, mesh := range doc.Meshes {
		for pi, prim := range mesh.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := g.appendPrimitive(doc, prim); err != nil {
				return nil, fmt.Errorf("mesh %d prim %d: %w", mi, pi, err)
			}
		}
	}
	if len(g.Indices) == 0 {
		return nil, ErrNoGeometry
	}
	return g, nil
}

func (g *Geometry) appendPrimitive(doc *gltf.Document, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return errors.New("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return fmt.Errorf("texcoords: %w", err)
		}
		g.HasUV = true
	}

	base := uint32(g.VertexCount())
	for i, p := range positions {
		var uv [2]float32
		if i < len(uvs) {
			uv = uvs[i]
		}
		g.Vertices = append(g.Vertices, p[0], p[1], p[2], uv[0], uv[1])
		for k := 0; k < 3; k++ {
			g.Min[k] = min(g.Min[k], p[k])
			g.Max[k] = max(g.Max[k], p[k])
		}
	}

	if prim.Indices == nil {
		for i := range positions {
			g.Indices = append(g.Indices, base+uint32(i))
		}
		return nil
	}
	indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil {
		return fmt.Errorf("indices: %w", err)
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
		g.Indices = append(g.Indices, base+idx)
	}
	return nil
}

// FitTransform returns a model matrix that centers the geometry on the origin
// and scales its largest extent to size.
func (g *Geometry) FitTransform(size float32) mgl32.Mat4 {
	extent := g.Max.Sub(g.Min)
	largest := max(extent[0], extent[1], extent[2])
	if largest <= 0 {
		return mgl32.Ident4()
	}
	center := g.Min.Add(extent.Mul(0.5))
	s := size / largest
	return mgl32.Scale3D(s, s, s).Mul4(mgl32.Translate3D(-center[0], -center[1], -center[2]))
}
