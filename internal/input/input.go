package input

// Action represents a logical demo action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionClose
	ActionToggleWireframe
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	ActionMoveForward:     "move_forward",
	ActionMoveBackward:    "move_backward",
	ActionMoveLeft:        "move_left",
	ActionMoveRight:       "move_right",
	ActionMoveUp:          "move_up",
	ActionMoveDown:        "move_down",
	ActionClose:           "close",
	ActionToggleWireframe: "toggle_wireframe",
}

func (a Action) String() string {
	if a < 0 || a >= ActionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a config name such as "move_forward" back to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// Key is a platform key code. The platform layer decides the numbering.
type Key int

// Manager maps physical keys to logical actions and tracks their state.
// It is fed from the platform's key callback and read by the render loop on
// the same thread, so it does no locking.
type Manager struct {
	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[Key][]Action

	// held records, per key that is down, the actions it was bound to when
	// pressed; an action stays active while its count is above zero
	held     map[Key][]Action
	holdings [ActionCount]int

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

func NewManager() *Manager {
	return &Manager{
		keyToActions: make(map[Key][]Action),
		held:         make(map[Key][]Action),
	}
}

// BindKey binds a physical key to a logical action.
// Multiple keys can be bound to the same action.
func (m *Manager) BindKey(key Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key. A key held at the time
// still releases the actions it pressed.
func (m *Manager) UnbindKey(key Key) {
	delete(m.keyToActions, key)
}

// UnbindAction removes every key binding of action.
func (m *Manager) UnbindAction(action Action) {
	for key, acts := range m.keyToActions {
		kept := acts[:0]
		for _, a := range acts {
			if a != action {
				kept = append(kept, a)
			}
		}
		if len(kept) == 0 {
			delete(m.keyToActions, key)
		} else {
			m.keyToActions[key] = kept
		}
	}
}

// HandleKeyEvent records a key transition. A press of a key already down is
// ignored, so repeats produce no new edge.
func (m *Manager) HandleKeyEvent(key Key, pressed bool) {
	if pressed {
		if _, down := m.held[key]; down {
			return
		}
		acts := append([]Action(nil), m.keyToActions[key]...)
		m.held[key] = acts
		for _, act := range acts {
			if m.holdings[act] == 0 {
				m.justPressed[act] = true
			}
			m.holdings[act]++
		}
		return
	}

	acts, down := m.held[key]
	if !down {
		return
	}
	delete(m.held, key)
	for _, act := range acts {
		m.holdings[act]--
		if m.holdings[act] == 0 {
			m.justReleased[act] = true
		}
	}
}

// PostUpdate clears edge flags. Call once per frame after input has been read.
func (m *Manager) PostUpdate() {
	for i := range ActionCount {
		m.justPressed[i] = false
		m.justReleased[i] = false
	}
}

// IsActive returns true if the action is currently being held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.holdings[action] > 0
}

// JustPressed returns true only if the action was pressed since the last PostUpdate
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.justPressed[action]
}

// JustReleased returns true only if the action was released since the last PostUpdate
func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	return m.justReleased[action]
}
