package platform

import (
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"learn-gl/internal/input"
)

var keyNames = map[string]glfw.Key{
	"space":        glfw.KeySpace,
	"escape":       glfw.KeyEscape,
	"enter":        glfw.KeyEnter,
	"tab":          glfw.KeyTab,
	"up":           glfw.KeyUp,
	"down":         glfw.KeyDown,
	"left":         glfw.KeyLeft,
	"right":        glfw.KeyRight,
	"leftshift":    glfw.KeyLeftShift,
	"rightshift":   glfw.KeyRightShift,
	"leftcontrol":  glfw.KeyLeftControl,
	"rightcontrol": glfw.KeyRightControl,
	"pageup":       glfw.KeyPageUp,
	"pagedown":     glfw.KeyPageDown,
}

// DefaultBindings returns the WASD + Space/Shift layout.
func DefaultBindings() map[input.Action]glfw.Key {
	return map[input.Action]glfw.Key{
		input.ActionMoveForward:     glfw.KeyW,
		input.ActionMoveBackward:    glfw.KeyS,
		input.ActionMoveLeft:        glfw.KeyA,
		input.ActionMoveRight:       glfw.KeyD,
		input.ActionMoveUp:          glfw.KeySpace,
		input.ActionMoveDown:        glfw.KeyLeftShift,
		input.ActionClose:           glfw.KeyEscape,
		input.ActionToggleWireframe: glfw.KeyF,
	}
}

// ParseKey accepts a single letter or digit, or one of the named keys above
// (case-insensitive).
func ParseKey(name string) (glfw.Key, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'a' && c <= 'z':
			return glfw.KeyA + glfw.Key(c-'a'), true
		case c >= '0' && c <= '9':
			return glfw.Key0 + glfw.Key(c-'0'), true
		}
	}
	k, ok := keyNames[n]
	return k, ok
}
