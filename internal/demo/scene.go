// Package demo builds the scenes the launcher can run. Each scene is a set of
// drawables plus the per-frame uniforms its shader program expects; the
// program itself is loaded by name from shadersrc.
package demo

import (
	"github.com/go-gl/mathgl/mgl32"

	"learn-gl/internal/graphics"
	"learn-gl/internal/loop"
)

// Drawer submits geometry that is already on the GPU.
type Drawer interface {
	Draw()
}

// Binder binds a texture to a unit.
type Binder interface {
	Bind(unit uint32)
}

// Object is one drawable instance of a mesh.
type Object struct {
	Mesh    Drawer
	Texture Binder
	// Transform defaults to identity.
	Transform func(now float64) mgl32.Mat4
	// Uniforms sets per-object uniforms before the draw call.
	Uniforms func(p *graphics.ShaderProgram, now float64)
}

func (o *Object) Model(now float64) mgl32.Mat4 {
	if o.Transform == nil {
		return mgl32.Ident4()
	}
	return o.Transform(now)
}

func (o *Object) Draw(p *graphics.ShaderProgram, now float64) {
	if o.Uniforms != nil {
		o.Uniforms(p, now)
	}
	if o.Texture != nil {
		o.Texture.Bind(0)
	}
	o.Mesh.Draw()
}

// Scene is what the loop needs to run one demo.
type Scene struct {
	// Name doubles as the shader program name.
	Name          string
	Drawables     []loop.Drawable
	FrameUniforms func(p *graphics.ShaderProgram, now float64)

	release []func()
}

// Names lists the scenes in menu order.
var Names = []string{"triangle", "quad", "cubes", "model"}

// Release frees GPU resources owned by the scene. Safe to call twice.
func (s *Scene) Release() {
	for i := len(s.release) - 1; i >= 0; i-- {
		s.release[i]()
	}
	s.release = nil
}

// OnRelease registers cleanup for Release.
func (s *Scene) OnRelease(fn func()) {
	s.release = append(s.release, fn)
}

// TriangleScene is a single NDC triangle pulsing green.
func TriangleScene(mesh Drawer) *Scene {
	return &Scene{
		Name:      "triangle",
		Drawables: []loop.Drawable{&Object{Mesh: mesh}},
		FrameUniforms: func(p *graphics.ShaderProgram, now float64) {
			p.SetVec4("ourColor", mgl32.Vec4{0, Pulse(now)[1], 0, 1})
		},
	}
}

// QuadScene draws the textured quad twice with the 2D transform uniform.
func QuadScene(mesh Drawer, tex Binder) *Scene {
	s := &Scene{
		Name: "quad",
		FrameUniforms: func(p *graphics.ShaderProgram, now float64) {
			p.SetInt("texture1", 0)
			p.SetVec3("random", Pulse(now))
		},
	}
	for _, second := range []bool{false, true} {
		second := second
		s.Drawables = append(s.Drawables, &Object{
			Mesh:    mesh,
			Texture: tex,
			Uniforms: func(p *graphics.ShaderProgram, now float64) {
				p.SetMat4("transform", QuadTransform(now, second))
			},
		})
	}
	return s
}

// CubesScene spins a textured cube at each of CubePositions.
func CubesScene(mesh Drawer, tex Binder) *Scene {
	s := &Scene{
		Name: "cubes",
		FrameUniforms: func(p *graphics.ShaderProgram, now float64) {
			p.SetInt("texture1", 0)
			p.SetVec4("ourColor", mgl32.Vec4{0, Pulse(now)[1], 0, 1})
		},
	}
	for _, pos := range CubePositions {
		pos := pos
		s.Drawables = append(s.Drawables, &Object{
			Mesh:      mesh,
			Texture:   tex,
			Transform: func(now float64) mgl32.Mat4 { return Spin(now, pos) },
		})
	}
	return s
}

// ModelScene draws a loaded model with a fixed transform. tex may be nil, in
// which case the shader colors by position.
func ModelScene(mesh Drawer, tex Binder, transform mgl32.Mat4) *Scene {
	obj := &Object{
		Mesh:      mesh,
		Texture:   tex,
		Transform: func(float64) mgl32.Mat4 { return transform },
	}
	return &Scene{
		Name:      "model",
		Drawables: []loop.Drawable{obj},
		FrameUniforms: func(p *graphics.ShaderProgram, _ float64) {
			p.SetInt("texture1", 0)
			p.SetBool("useTexture", tex != nil)
		},
	}
}
