package resolution

import "github.com/psfguard/psfview/pkg/tier"

// Key identifies what a pane is showing. Resolution state and preload
// bookkeeping are scoped to one Key.
type Key struct {
	Identity string
	Mode     tier.DisplayMode
}

func (k Key) String() string {
	return k.Identity + "/" + k.Mode.String()
}

// Machine tracks the resolution state of one pane for its current Key.
type Machine struct {
	key     Key
	state   State
	history []State
}

// NewMachine creates a machine in StateLarge for key.
func NewMachine(key Key) *Machine {
	return &Machine{key: key, state: StateLarge, history: []State{StateLarge}}
}

// Key returns the key the state belongs to.
func (m *Machine) Key() Key { return m.key }

// State reports the current state.
func (m *Machine) State() State { return m.state }

// Fire applies ev and reports whether the state changed. EventReset is
// ignored here; use Reset with the new key.
func (m *Machine) Fire(ev Event) (State, bool) {
	if ev == EventReset {
		return m.state, false
	}
	next := Transition(m.state, ev)
	if next == m.state {
		return next, false
	}
	m.state = next
	m.history = append(m.history, next)
	return next, true
}

// Reset moves the machine to key. It returns false, leaving the state alone,
// when key is already current.
func (m *Machine) Reset(key Key) bool {
	if key == m.key {
		return false
	}
	m.key = key
	m.state = Transition(m.state, EventReset)
	m.history = []State{m.state}
	return true
}

// History returns the states observed for the current key, oldest first.
func (m *Machine) History() []State {
	return append([]State(nil), m.history...)
}
