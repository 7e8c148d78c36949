package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultSpeed       = 3.5
	DefaultSensitivity = 0.1

	// MaxPitch keeps front away from worldUp so the right vector never degenerates.
	MaxPitch = 89.0
)

// WorldUp is the fixed up axis used to derive the camera basis.
var WorldUp = mgl32.Vec3{0, 1, 0}

// Direction selects one of the camera basis vectors for Translate.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// Camera is a free-look camera driven by yaw/pitch angles in degrees.
// front, right and up are derived and only change through Reorient.
type Camera struct {
	position mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	yaw   float64
	pitch float64

	speed       float32
	sensitivity float64

	projection mgl32.Mat4
}

// New creates a camera at position looking down -Z. The projection is kept as is
// for the lifetime of the camera.
func New(position mgl32.Vec3, projection mgl32.Mat4) *Camera {
	c := &Camera{
		position:    position,
		front:       mgl32.Vec3{0, 0, -1},
		up:          WorldUp,
		speed:       DefaultSpeed,
		sensitivity: DefaultSensitivity,
		projection:  projection,
	}
	c.right = c.front.Cross(WorldUp).Normalize()
	return c
}

// Reorient applies a raw pointer delta in pixels. Screen-space y grows downward,
// so a positive dy lowers the pitch.
func (c *Camera) Reorient(dx, dy float64) {
	c.yaw += dx * c.sensitivity
	c.pitch -= dy * c.sensitivity

	if c.pitch > MaxPitch {
		c.pitch = MaxPitch
	}
	if c.pitch < -MaxPitch {
		c.pitch = -MaxPitch
	}

	c.updateVectors()
}

func (c *Camera) updateVectors() {
	c.front = FrontFromAngles(c.yaw, c.pitch)
	c.right = c.front.Cross(WorldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

// FrontFromAngles returns the unit look direction for yaw and pitch in degrees.
func FrontFromAngles(yaw, pitch float64) mgl32.Vec3 {
	y := yaw * math.Pi / 180
	p := pitch * math.Pi / 180
	fx := float32(math.Cos(y) * math.Cos(p))
	fy := float32(math.Sin(p))
	fz := float32(math.Sin(y) * math.Cos(p))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// Translate moves the camera along one of its basis vectors by speed*dt.
func (c *Camera) Translate(dir Direction, dt float64) {
	var axis mgl32.Vec3
	switch dir {
	case Forward:
		axis = c.front
	case Backward:
		axis = c.front.Mul(-1)
	case Right:
		axis = c.right
	case Left:
		axis = c.right.Mul(-1)
	case Up:
		axis = c.up
	case Down:
		axis = c.up.Mul(-1)
	default:
		return
	}
	c.position = c.position.Add(axis.Mul(c.speed * float32(dt)))
}

// ViewMatrix returns lookAt(position, position+front, up) for the current state.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

func (c *Camera) Projection() mgl32.Mat4 { return c.projection }
func (c *Camera) Position() mgl32.Vec3   { return c.position }
func (c *Camera) Front() mgl32.Vec3      { return c.front }
func (c *Camera) Up() mgl32.Vec3         { return c.up }
func (c *Camera) Right() mgl32.Vec3      { return c.right }
func (c *Camera) Yaw() float64           { return c.yaw }
func (c *Camera) Pitch() float64         { return c.pitch }
func (c *Camera) Speed() float32         { return c.speed }
func (c *Camera) Sensitivity() float64   { return c.sensitivity }

func (c *Camera) SetSpeed(speed float32) {
	c.speed = speed
}

func (c *Camera) SetSensitivity(sensitivity float64) {
	c.sensitivity = sensitivity
}

// Perspective builds the projection used by the demos: fov in degrees.
func Perspective(fovDeg, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
}
