package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func newTestCamera() *Camera {
	return New(mgl32.Vec3{0, 0, 3}, Perspective(45, 16.0/9.0, 0.1, 100))
}

func assertVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], tol, "component %d: want %v, got %v", i, want, got)
	}
}

func TestNewFacesNegativeZ(t *testing.T) {
	c := newTestCamera()

	assertVecNear(t, mgl32.Vec3{0, 0, -1}, c.Front())
	assertVecNear(t, mgl32.Vec3{0, 1, 0}, c.Up())
	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Right())
	assert.Equal(t, 0.0, c.Yaw())
	assert.Equal(t, 0.0, c.Pitch())
	assert.Equal(t, float32(DefaultSpeed), c.Speed())
	assert.Equal(t, DefaultSensitivity, c.Sensitivity())

	want := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{0, 0, 2}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, want, c.ViewMatrix())
}

func TestProjectionIsStoredVerbatim(t *testing.T) {
	proj := Perspective(60, 4.0/3.0, 0.5, 250)
	c := New(mgl32.Vec3{}, proj)

	c.Reorient(120, -40)
	c.Translate(Forward, 2)

	assert.Equal(t, proj, c.Projection())
}

func TestZeroAnglesRecomputeToPositiveX(t *testing.T) {
	c := newTestCamera()

	c.Reorient(0, 0)

	assertVecNear(t, mgl32.Vec3{1, 0, 0}, c.Front())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, FrontFromAngles(0, 0))
}

func TestReorientYawStep(t *testing.T) {
	c := newTestCamera()

	c.Reorient(90, 0)

	assert.Equal(t, 9.0, c.Yaw())
	want := float32(math.Cos(9*math.Pi/180) * math.Cos(c.Pitch()*math.Pi/180))
	assert.InDelta(t, want, c.Front().X(), tol)
}

func TestReorientAccumulates(t *testing.T) {
	c := newTestCamera()

	c.Reorient(10, 0)
	c.Reorient(10, 0)
	c.Reorient(10, 0)

	assert.InDelta(t, 3.0, c.Yaw(), 1e-12)
}

func TestReorientIsDeterministic(t *testing.T) {
	a := newTestCamera()
	b := newTestCamera()

	for i := 0; i < 5; i++ {
		a.Reorient(13, -7)
		b.Reorient(13, -7)
	}

	assert.Equal(t, a.Front(), b.Front())
	assert.Equal(t, a.ViewMatrix(), b.ViewMatrix())
}

func TestPitchClamps(t *testing.T) {
	tests := []struct {
		name string
		dy   float64
		want float64
	}{
		{"up to 120 clamps to 89", -1200, MaxPitch},
		{"down to -120 clamps to -89", 1200, -MaxPitch},
		{"inside bound untouched", -300, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera()
			c.Reorient(0, tt.dy)
			assert.InDelta(t, tt.want, c.Pitch(), 1e-9)
		})
	}
}

func TestPitchClampDoesNotOvershootAcrossCalls(t *testing.T) {
	c := newTestCamera()
	for i := 0; i < 100; i++ {
		c.Reorient(0, -50)
	}
	assert.Equal(t, MaxPitch, c.Pitch())

	// coming back down starts from the clamped value, not the accumulated input
	c.Reorient(0, 10)
	assert.InDelta(t, MaxPitch-1, c.Pitch(), 1e-9)
}

func TestBasisStaysOrthonormal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := newTestCamera()

	for i := 0; i < 2000; i++ {
		c.Reorient(rng.Float64()*400-200, rng.Float64()*400-200)

		require.LessOrEqual(t, c.Pitch(), MaxPitch)
		require.GreaterOrEqual(t, c.Pitch(), -MaxPitch)

		require.InDelta(t, 1.0, c.Front().Len(), tol)
		require.InDelta(t, 1.0, c.Right().Len(), tol)
		require.InDelta(t, 1.0, c.Up().Len(), tol)

		require.InDelta(t, 0.0, c.Front().Dot(c.Right()), tol)
		require.InDelta(t, 0.0, c.Front().Dot(c.Up()), tol)
		require.InDelta(t, 0.0, c.Right().Dot(c.Up()), tol)
	}
}

func TestTranslateZeroDeltaIsNoop(t *testing.T) {
	for _, dir := range []Direction{Forward, Backward, Left, Right, Up, Down} {
		t.Run(dir.String(), func(t *testing.T) {
			c := newTestCamera()
			c.Reorient(37, 11)
			before := c.Position()

			c.Translate(dir, 0)

			assert.Equal(t, before, c.Position())
		})
	}
}

func TestTranslateForwardHalfSecond(t *testing.T) {
	c := newTestCamera()
	start := c.Position()

	c.Translate(Forward, 0.5)

	assertVecNear(t, start.Add(c.Front().Mul(1.75)), c.Position())
	assertVecNear(t, mgl32.Vec3{0, 0, 1.25}, c.Position())
}

func TestTranslateDirections(t *testing.T) {
	c := newTestCamera()
	c.SetSpeed(2)
	c.Reorient(250, -120)

	tests := []struct {
		dir  Direction
		axis mgl32.Vec3
	}{
		{Forward, c.Front()},
		{Backward, c.Front().Mul(-1)},
		{Right, c.Right()},
		{Left, c.Right().Mul(-1)},
		{Up, c.Up()},
		{Down, c.Up().Mul(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			start := c.Position()
			c.Translate(tt.dir, 0.25)
			assertVecNear(t, start.Add(tt.axis.Mul(0.5)), c.Position())
		})
	}
}

func TestViewMatrixTracksCurrentState(t *testing.T) {
	c := newTestCamera()
	c.Reorient(-420, 85)
	c.Translate(Right, 1.3)
	c.Translate(Up, 0.2)

	want := mgl32.LookAtV(c.Position(), c.Position().Add(c.Front()), c.Up())
	first := c.ViewMatrix()

	assert.Equal(t, want, first)
	assert.Equal(t, first, c.ViewMatrix())
}

func TestSensitivityScalesReorient(t *testing.T) {
	c := newTestCamera()
	c.SetSensitivity(1)

	c.Reorient(30, -20)

	assert.InDelta(t, 30.0, c.Yaw(), 1e-9)
	assert.InDelta(t, 20.0, c.Pitch(), 1e-9)
}

func BenchmarkReorient(b *testing.B) {
	c := newTestCamera()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Reorient(1.5, -0.5)
	}
}

func BenchmarkViewMatrix(b *testing.B) {
	c := newTestCamera()
	c.Reorient(45, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.ViewMatrix()
	}
}
