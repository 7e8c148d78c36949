package loop

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"learn-gl/internal/camera"
	"learn-gl/internal/graphics"
	"learn-gl/internal/input"
	"learn-gl/internal/profiling"
)

// Platform is the windowing/input layer the loop runs against.
type Platform interface {
	// Now returns monotonic seconds.
	Now() float64
	ShouldClose() bool
	IsActive(a input.Action) bool
	JustPressed(a input.Action) bool
	// PointerDeltas appends pointer samples buffered since the last call.
	PointerDeltas(dst []input.Delta) []input.Delta
	// Present swaps buffers and pumps platform events.
	Present()
}

// Surface is the frame target.
type Surface interface {
	Clear()
	SetWireframe(on bool)
}

// Drawable is an externally owned geometry unit. The loop uploads the model
// transform, then Draw sets any per-object uniforms and submits the draw call.
type Drawable interface {
	Model(now float64) mgl32.Mat4
	Draw(p *graphics.ShaderProgram, now float64)
}

// State of the loop. Running -> Closing is the only transition.
type State int

const (
	Running State = iota
	Closing
)

func (s State) String() string {
	if s == Closing {
		return "closing"
	}
	return "running"
}

var movement = [...]struct {
	action input.Action
	dir    camera.Direction
}{
	{input.ActionMoveForward, camera.Forward},
	{input.ActionMoveBackward, camera.Backward},
	{input.ActionMoveLeft, camera.Left},
	{input.ActionMoveRight, camera.Right},
	{input.ActionMoveUp, camera.Up},
	{input.ActionMoveDown, camera.Down},
}

// Options tunes a Loop. The zero value is usable.
type Options struct {
	// MaxFPS caps the frame rate; 0 leaves pacing to the platform.
	MaxFPS int
	// SlowFrame logs a breakdown when a frame's tracked work exceeds it. 0 disables.
	SlowFrame time.Duration
	// Reloads delivers replacement shader sources; drained at the top of each frame.
	Reloads <-chan graphics.Sources
	// FrameUniforms pushes per-frame uniforms other than view and projection.
	FrameUniforms func(p *graphics.ShaderProgram, now float64)
	Wireframe     bool
	Logger        *slog.Logger
	// Clock times profiled sections and frame pacing; time.Now when nil.
	Clock func() time.Time
}

// Loop drives one window: input -> camera -> clear -> uniforms -> draw -> present.
type Loop struct {
	platform  Platform
	surface   Surface
	camera    *camera.Camera
	program   *graphics.ShaderProgram
	drawables []Drawable
	opts      Options

	state     State
	started   bool
	lastFrame float64
	wireframe bool
	degraded  bool
	teardown  []func()

	deltas  []input.Delta
	prof    *profiling.Profiler
	pacer   *Pacer
	log     *slog.Logger

	frames     int
	lastReport float64
}

// New wires a loop. Drawables are drawn in the given order every frame.
func New(platform Platform, surface Surface, cam *camera.Camera, program *graphics.ShaderProgram, drawables []Drawable, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		platform:  platform,
		surface:   surface,
		camera:    cam,
		program:   program,
		drawables: drawables,
		opts:      opts,
		prof:      profiling.New(),
		pacer:     NewPacer(opts.MaxFPS),
		log:       logger,
	}
	if opts.Clock != nil {
		l.prof = profiling.NewWithClock(opts.Clock)
		l.pacer.now = opts.Clock
	}
	if opts.Wireframe {
		l.wireframe = true
		surface.SetWireframe(true)
	}
	return l
}

// OnClose registers a teardown hook. Hooks run once, in reverse order, after
// the shader program is destroyed.
func (l *Loop) OnClose(fn func()) {
	l.teardown = append(l.teardown, fn)
}

func (l *Loop) State() State                  { return l.state }
func (l *Loop) Camera() *camera.Camera        { return l.camera }
func (l *Loop) Profiler() *profiling.Profiler { return l.prof }

// Run steps until the platform requests close, then tears down.
func (l *Loop) Run() {
	for l.Step() {
	}
}

// Step runs one frame. It returns false once the loop is Closing.
func (l *Loop) Step() bool {
	if l.state == Closing {
		return false
	}
	if l.platform.ShouldClose() {
		l.close()
		return false
	}

	l.prof.Reset()
	l.applyReloads()

	now := l.platform.Now()
	dt := 0.0
	if l.started {
		dt = now - l.lastFrame
	}
	l.lastFrame = now
	l.started = true

	func() { defer l.prof.Track("loop.input")(); l.handleInput(dt) }()
	func() { defer l.prof.Track("loop.draw")(); l.render(now) }()
	func() { defer l.prof.Track("platform.present")(); l.platform.Present() }()

	l.report(now)
	l.pacer.Wait()
	return true
}

func (l *Loop) handleInput(dt float64) {
	for _, m := range movement {
		if l.platform.IsActive(m.action) {
			l.camera.Translate(m.dir, dt)
		}
	}

	l.deltas = l.platform.PointerDeltas(l.deltas[:0])
	for _, d := range l.deltas {
		l.camera.Reorient(d.DX, d.DY)
	}

	if l.platform.JustPressed(input.ActionToggleWireframe) {
		l.wireframe = !l.wireframe
		l.surface.SetWireframe(l.wireframe)
	}
}

func (l *Loop) render(now float64) {
	l.surface.Clear()

	if err := l.program.Use(); err != nil {
		if !l.degraded {
			l.log.Warn("shader program unavailable, skipping draws", "error", err)
			l.degraded = true
		}
		return
	}
	if l.degraded {
		l.log.Info("shader program available again")
		l.degraded = false
	}

	l.program.SetMat4("view", l.camera.ViewMatrix())
	l.program.SetMat4("projection", l.camera.Projection())
	if l.opts.FrameUniforms != nil {
		l.opts.FrameUniforms(l.program, now)
	}

	for _, d := range l.drawables {
		l.program.SetMat4("model", d.Model(now))
		d.Draw(l.program, now)
	}
}

func (l *Loop) applyReloads() {
	for {
		select {
		case src, ok := <-l.opts.Reloads:
			if !ok {
				l.opts.Reloads = nil
				return
			}
			if err := l.program.Reload(src.Vertex, src.Fragment); err != nil {
				l.log.Error("shader reload failed, keeping previous program", "error", err)
				continue
			}
			l.log.Info("shader reloaded", "program", l.program.Handle())
		default:
			return
		}
	}
}

func (l *Loop) report(now float64) {
	l.frames++
	if now-l.lastReport >= 1 {
		l.log.Debug("fps", "frames", l.frames)
		l.frames = 0
		l.lastReport = now
	}

	if l.opts.SlowFrame > 0 {
		if total := l.prof.SumWithPrefix(""); total > l.opts.SlowFrame {
			l.log.Warn("slow frame", "took", total, "top", l.prof.TopN(3))
		}
	}
}

func (l *Loop) close() {
	l.state = Closing
	l.program.Destroy()
	for i := len(l.teardown) - 1; i >= 0; i-- {
		l.teardown[i]()
	}
	l.teardown = nil
}
