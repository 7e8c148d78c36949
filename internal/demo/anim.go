package demo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pulse returns the time-varying tint shared by the demos. Green swings in
// [0, 1]; red and blue swing around 0.8 and 0.1.
func Pulse(now float64) mgl32.Vec3 {
	s := math.Sin(now)
	return mgl32.Vec3{
		float32(s + 0.8),
		float32(s/2 + 0.5),
		float32(s/3 + 0.1),
	}
}

// Spin rotates 50 degrees per second around (0.5, 1, 0), then translates to at.
func Spin(now float64, at mgl32.Vec3) mgl32.Mat4 {
	angle := float32(now) * mgl32.DegToRad(50)
	axis := mgl32.Vec3{0.5, 1, 0}.Normalize()
	return mgl32.Translate3D(at[0], at[1], at[2]).Mul4(mgl32.HomogRotate3D(angle, axis))
}

// QuadTransform is the 2D quad transform: scaled by half and spun around Z.
// The second quad is offset to the right and shrunk again.
func QuadTransform(now float64, second bool) mgl32.Mat4 {
	angle := float32(now)
	m := mgl32.Scale3D(0.5, 0.5, 0.5).Mul4(mgl32.HomogRotate3DZ(angle))
	if second {
		m = m.Mul4(mgl32.Translate3D(0.9, 0, 0)).
			Mul4(mgl32.Scale3D(0.5, 0.5, 0.5)).
			Mul4(mgl32.HomogRotate3DZ(angle))
	}
	return m
}
