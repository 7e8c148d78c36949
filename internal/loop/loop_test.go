package loop

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learn-gl/internal/camera"
	"learn-gl/internal/graphics"
	"learn-gl/internal/graphics/graphicstest"
	"learn-gl/internal/input"
)

const vertexSrc = `#version 410 core
uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;
void main() {}
`

const fragmentSrc = `#version 410 core
uniform float mixValue;
void main() {}
`

type fakePlatform struct {
	events []string

	times      []float64
	frame      int
	closeAfter int

	active  map[input.Action]bool
	pressed map[input.Action]bool
	deltas  [][]input.Delta
}

func (p *fakePlatform) Now() float64 { return p.times[p.frame] }

func (p *fakePlatform) ShouldClose() bool { return p.frame >= p.closeAfter }

func (p *fakePlatform) IsActive(a input.Action) bool    { return p.active[a] }
func (p *fakePlatform) JustPressed(a input.Action) bool { return p.pressed[a] }

func (p *fakePlatform) PointerDeltas(dst []input.Delta) []input.Delta {
	if p.frame < len(p.deltas) {
		dst = append(dst, p.deltas[p.frame]...)
	}
	return dst
}

func (p *fakePlatform) Present() {
	p.events = append(p.events, "present")
	p.pressed = nil
	p.frame++
}

type fakeSurface struct {
	p         *fakePlatform
	wireframe []bool
}

func (s *fakeSurface) Clear()               { s.p.events = append(s.p.events, "clear") }
func (s *fakeSurface) SetWireframe(on bool) { s.wireframe = append(s.wireframe, on) }

type fakeDrawable struct {
	name  string
	p     *fakePlatform
	model mgl32.Mat4
}

func (d *fakeDrawable) Model(float64) mgl32.Mat4 { return d.model }

func (d *fakeDrawable) Draw(p *graphics.ShaderProgram, now float64) {
	d.p.events = append(d.p.events, "draw:"+d.name)
}

type fixture struct {
	platform *fakePlatform
	surface  *fakeSurface
	backend  *graphicstest.Backend
	program  *graphics.ShaderProgram
	camera   *camera.Camera
}

func newFixture(t *testing.T, frames int) *fixture {
	t.Helper()
	p := &fakePlatform{closeAfter: frames}
	for i := 0; i <= frames; i++ {
		p.times = append(p.times, 10+0.5*float64(i))
	}
	b := graphicstest.New()
	prog, err := graphics.Compile(b, vertexSrc, fragmentSrc)
	require.NoError(t, err)
	return &fixture{
		platform: p,
		surface:  &fakeSurface{p: p},
		backend:  b,
		program:  prog,
		camera:   camera.New(mgl32.Vec3{0, 0, 3}, camera.Perspective(45, 16.0/9.0, 0.1, 100)),
	}
}

func (f *fixture) loop(drawables []Drawable, opts Options) *Loop {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return New(f.platform, f.surface, f.camera, f.program, drawables, opts)
}

func TestRunFrameOrderAndTeardown(t *testing.T) {
	f := newFixture(t, 2)
	a := &fakeDrawable{name: "a", p: f.platform, model: mgl32.Translate3D(1, 0, 0)}
	b := &fakeDrawable{name: "b", p: f.platform, model: mgl32.Translate3D(-1, 0, 0)}
	l := f.loop([]Drawable{a, b}, Options{})

	var closed []string
	l.OnClose(func() { closed = append(closed, "first") })
	l.OnClose(func() { closed = append(closed, "second") })
	handle := f.program.Handle()

	l.Run()

	assert.Equal(t, []string{
		"clear", "draw:a", "draw:b", "present",
		"clear", "draw:a", "draw:b", "present",
	}, f.platform.events)
	assert.Equal(t, Closing, l.State())
	assert.Equal(t, []string{"second", "first"}, closed)
	assert.False(t, f.program.Ready())
	assert.Equal(t, []uint32{handle}, f.backend.DeletedProg)

	// Closing is terminal and teardown does not run again
	assert.False(t, l.Step())
	assert.Equal(t, []string{"second", "first"}, closed)
	assert.Len(t, f.backend.DeletedProg, 1)
}

func TestCloseBeforeFirstFrame(t *testing.T) {
	f := newFixture(t, 0)
	l := f.loop(nil, Options{})

	assert.False(t, l.Step())
	assert.Empty(t, f.platform.events)
	assert.Equal(t, Closing, l.State())
}

func TestUniformsPushedPerFrameAndObject(t *testing.T) {
	f := newFixture(t, 1)
	a := &fakeDrawable{name: "a", p: f.platform, model: mgl32.Translate3D(1, 2, 3)}
	b := &fakeDrawable{name: "b", p: f.platform, model: mgl32.Scale3D(2, 2, 2)}
	var frameNow float64
	l := f.loop([]Drawable{a, b}, Options{
		FrameUniforms: func(p *graphics.ShaderProgram, now float64) {
			frameNow = now
			p.SetFloat("mixValue", 0.2)
		},
	})

	l.Run()

	up := f.backend.Uploads
	require.Len(t, up, 5)
	view := f.camera.ViewMatrix()
	proj := f.camera.Projection()
	assert.Equal(t, view[:], up[0].Values)
	assert.Equal(t, proj[:], up[1].Values)
	assert.Equal(t, []float32{0.2}, up[2].Values)
	assert.Equal(t, a.model[:], up[3].Values)
	assert.Equal(t, b.model[:], up[4].Values)
	assert.Equal(t, 10.0, frameNow)
	assert.Equal(t, 1, f.backend.UseCount)
}

func TestInputDrivesCamera(t *testing.T) {
	f := newFixture(t, 2)
	f.platform.active = map[input.Action]bool{input.ActionMoveForward: true}
	f.platform.deltas = [][]input.Delta{
		nil,
		{{DX: 50, DY: 0}, {DX: 40, DY: 0}},
	}
	l := f.loop(nil, Options{})

	// first frame: dt is 0 so the camera does not move
	require.True(t, l.Step())
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, f.camera.Position())
	assert.Equal(t, 0.0, f.camera.Yaw())

	// second frame: dt = 0.5s, translate along the old front then reorient per sample
	require.True(t, l.Step())
	want := mgl32.Vec3{0, 0, 3}.Add(mgl32.Vec3{0, 0, -1}.Mul(1.75))
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], f.camera.Position()[i], 1e-5)
	}
	assert.InDelta(t, 9.0, f.camera.Yaw(), 1e-9)

	assert.False(t, l.Step())
}

func TestWireframeToggle(t *testing.T) {
	f := newFixture(t, 2)
	f.platform.pressed = map[input.Action]bool{input.ActionToggleWireframe: true}
	l := f.loop(nil, Options{Wireframe: true})

	l.Run()

	// initial state, then one toggle; the press is consumed by Present
	assert.Equal(t, []bool{true, false}, f.surface.wireframe)
}

func TestDegradedProgramSkipsDraws(t *testing.T) {
	f := newFixture(t, 2)
	prog, err := graphics.Compile(f.backend, "#error", fragmentSrc)
	require.Error(t, err)
	f.program = prog
	d := &fakeDrawable{name: "a", p: f.platform}
	l := f.loop([]Drawable{d}, Options{})

	l.Run()

	assert.Equal(t, []string{"clear", "present", "clear", "present"}, f.platform.events)
	assert.Empty(t, f.backend.Uploads)
}

func TestReloadAppliedAtFrameStart(t *testing.T) {
	f := newFixture(t, 3)
	reloads := make(chan graphics.Sources, 2)
	d := &fakeDrawable{name: "a", p: f.platform}
	l := f.loop([]Drawable{d}, Options{Reloads: reloads})
	first := f.program.Handle()

	require.True(t, l.Step())

	reloads <- graphics.Sources{Vertex: vertexSrc, Fragment: "#error"}
	require.True(t, l.Step())
	assert.Equal(t, first, f.program.Handle(), "failed reload keeps the running program")

	reloads <- graphics.Sources{Vertex: vertexSrc, Fragment: fragmentSrc}
	close(reloads)
	require.True(t, l.Step())
	assert.NotEqual(t, first, f.program.Handle())
	assert.Equal(t, f.program.Handle(), f.backend.Bound())

	assert.False(t, l.Step())
}

// steppingClock advances by step on every reading.
type steppingClock struct {
	t    time.Time
	step time.Duration
}

func (c *steppingClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestSlowFrameLogsBreakdown(t *testing.T) {
	tests := []struct {
		name      string
		threshold time.Duration
		want      int
	}{
		{"over threshold", 50 * time.Millisecond, 1},
		{"under threshold", 100 * time.Millisecond, 0},
		{"disabled", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			var buf bytes.Buffer
			clock := &steppingClock{t: time.Unix(0, 0), step: 20 * time.Millisecond}
			l := f.loop(nil, Options{
				SlowFrame: tt.threshold,
				Clock:     clock.now,
				Logger:    slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})),
			})

			l.Run()

			// three tracked sections of 20ms each
			assert.Equal(t, 60*time.Millisecond, l.Profiler().SumWithPrefix(""))
			assert.Equal(t, tt.want, strings.Count(buf.String(), "slow frame"))
			if tt.want > 0 {
				assert.Contains(t, buf.String(), "loop.draw:20ms")
			}
		})
	}
}

type pacerClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *pacerClock) now() time.Time { return c.t }

func (c *pacerClock) sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
}

func newTestPacer(fps int) (*Pacer, *pacerClock) {
	c := &pacerClock{t: time.Unix(100, 0)}
	p := NewPacer(fps)
	p.now = c.now
	p.sleep = c.sleep
	return p, c
}

func TestPacerDisabledNeverSleeps(t *testing.T) {
	p, c := newTestPacer(0)
	for i := 0; i < 10; i++ {
		p.Wait()
	}
	assert.Empty(t, c.sleeps)
}

func TestPacerSleepsOutTheSlot(t *testing.T) {
	p, c := newTestPacer(100)

	p.Wait()
	c.t = c.t.Add(4 * time.Millisecond) // frame work
	p.Wait()

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 6 * time.Millisecond}, c.sleeps)
}

func TestPacerQuickFrameAbsorbsSlowOne(t *testing.T) {
	p, c := newTestPacer(100)
	p.Wait()

	c.t = c.t.Add(15 * time.Millisecond)
	p.Wait()
	c.t = c.t.Add(2 * time.Millisecond)
	p.Wait()

	// the 15ms frame overran its slot by 5ms: no sleep, and the next slot is
	// shortened to catch up
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 3 * time.Millisecond}, c.sleeps)
}

func TestPacerRestartsAfterHitch(t *testing.T) {
	p, c := newTestPacer(100)
	p.Wait()

	c.t = c.t.Add(500 * time.Millisecond)
	p.Wait()

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, c.sleeps)
}

func TestPacerSetRateRestartsSchedule(t *testing.T) {
	p, c := newTestPacer(100)
	p.Wait()

	p.SetRate(50)
	p.Wait()
	p.SetRate(0)
	p.Wait()

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, c.sleeps)
}
