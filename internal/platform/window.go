// Package platform wraps a GLFW window as the render loop's clock, input
// source and presentation target. Everything here must run on the main thread.
package platform

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"learn-gl/internal/config"
	"learn-gl/internal/input"
)

func init() {
	runtime.LockOSThread()
}

// Init initializes GLFW. Pair with Terminate.
func Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	return nil
}

func Terminate() {
	glfw.Terminate()
}

// Window is a GLFW window with a current OpenGL 4.1 core context.
type Window struct {
	handle  *glfw.Window
	keys    *input.Manager
	pointer input.PointerTracker

	onResize []func(width, height int)
	log      *slog.Logger
}

// NewWindow creates the window, makes its context current and captures the cursor.
func NewWindow(cfg config.Window, bindings map[string]string, logger *slog.Logger) (*Window, error) {
	if logger == nil {
		logger = slog.Default()
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// the projection is fixed for the session, so keep the window at its aspect
	handle.SetAspectRatio(cfg.Width, cfg.Height)
	handle.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	w := &Window{
		handle: handle,
		keys:   input.NewManager(),
		log:    logger,
	}
	if err := w.bind(bindings); err != nil {
		handle.Destroy()
		return nil, err
	}
	w.installCallbacks()
	return w, nil
}

// bind installs the defaults, then each override replaces the default key of
// its action.
func (w *Window) bind(overrides map[string]string) error {
	for action, key := range DefaultBindings() {
		w.keys.BindKey(input.Key(key), action)
	}
	for name, keyName := range overrides {
		action, ok := input.ParseAction(name)
		if !ok {
			return fmt.Errorf("unknown action %q in bindings", name)
		}
		key, ok := ParseKey(keyName)
		if !ok {
			return fmt.Errorf("unknown key %q for action %s", keyName, name)
		}
		w.keys.UnbindAction(action)
		w.keys.BindKey(input.Key(key), action)
	}
	return nil
}

func (w *Window) installCallbacks() {
	w.handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Repeat {
			return
		}
		w.keys.HandleKeyEvent(input.Key(key), action == glfw.Press)
		if w.keys.JustPressed(input.ActionClose) {
			w.handle.SetShouldClose(true)
		}
	})

	w.handle.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.pointer.Move(xpos, ypos)
	})

	// re-capturing the cursor moves it arbitrarily; start from a fresh baseline
	w.handle.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		if focused {
			w.pointer.Reset()
		}
	})

	w.handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.log.Debug("framebuffer resized", "width", width, "height", height)
		for _, fn := range w.onResize {
			fn(width, height)
		}
	})
}

// OnResize registers a framebuffer-size listener and calls it with the current size.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = append(w.onResize, fn)
	fn(w.handle.GetFramebufferSize())
}

func (w *Window) Now() float64 { return glfw.GetTime() }

func (w *Window) ShouldClose() bool { return w.handle.ShouldClose() }

// RequestClose sets the close flag; the loop exits at the top of the next frame.
func (w *Window) RequestClose() { w.handle.SetShouldClose(true) }

func (w *Window) IsActive(a input.Action) bool    { return w.keys.IsActive(a) }
func (w *Window) JustPressed(a input.Action) bool { return w.keys.JustPressed(a) }

func (w *Window) PointerDeltas(dst []input.Delta) []input.Delta {
	return w.pointer.Drain(dst)
}

// Present swaps buffers and pumps events. Edge flags read during the frame
// are cleared before the new events arrive.
func (w *Window) Present() {
	w.keys.PostUpdate()
	w.handle.SwapBuffers()
	glfw.PollEvents()
}

func (w *Window) Destroy() {
	w.handle.Destroy()
}
