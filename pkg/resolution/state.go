// Package resolution decides when a pane swaps its cheap Large tier for the
// Original tier.
//
// The decision is a three-state machine driven by a pure transition table:
//
//	Large --EventUpgrade--> SwitchingToOriginal --EventSettled--> Original
//
// EventReset is the only way back to Large and is only applied when the
// pane's image identity or display mode changes, so for a fixed identity the
// observed states never regress.
package resolution

import (
	"fmt"

	"github.com/psfguard/psfview/pkg/tier"
)

// State is the resolution state of one pane.
type State uint8

const (
	StateLarge State = iota
	StateSwitchingToOriginal
	StateOriginal
)

var stateNames = map[State]string{
	StateLarge:               "Large",
	StateSwitchingToOriginal: "SwitchingToOriginal",
	StateOriginal:            "Original",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", s)
}

// ParseState accepts the names printed by String, case-sensitively.
func ParseState(s string) (State, error) {
	for st, name := range stateNames {
		if name == s {
			return st, nil
		}
	}
	return StateLarge, fmt.Errorf("resolution: unknown state %q", s)
}

// DisplayTier is the tier the host should render in state s when base is
// the tier shown before the upgrade. The Original asset is shown from
// SwitchingToOriginal on; the settle delay gives the host a frame to swap it
// in.
func (s State) DisplayTier(base tier.Tier) tier.Tier {
	if s == StateLarge {
		return base
	}
	return tier.Original
}

// Event drives the state machine.
type Event uint8

const (
	// EventUpgrade fires once the Original tier is loaded and needed.
	EventUpgrade Event = iota
	// EventSettled fires when the settle delay after an upgrade elapses.
	EventSettled
	// EventReset fires on an identity or display-mode change.
	EventReset
)

var eventNames = map[Event]string{
	EventUpgrade: "Upgrade",
	EventSettled: "Settled",
	EventReset:   "Reset",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Event(%d)", e)
}

type stateTransitions struct {
	onUpgrade State
	onSettled State
}

var transitions = map[State]stateTransitions{
	StateLarge:               {onUpgrade: StateSwitchingToOriginal, onSettled: StateLarge},
	StateSwitchingToOriginal: {onUpgrade: StateSwitchingToOriginal, onSettled: StateOriginal},
	StateOriginal:            {onUpgrade: StateOriginal, onSettled: StateOriginal},
}

// Transition returns the state after ev is applied to current. Events with
// no edge leave the state unchanged; an unknown state resets to Large.
func Transition(current State, ev Event) State {
	if ev == EventReset {
		return StateLarge
	}
	row, ok := transitions[current]
	if !ok {
		return StateLarge
	}
	switch ev {
	case EventUpgrade:
		return row.onUpgrade
	case EventSettled:
		return row.onSettled
	}
	return current
}

// Conditions is the input to the upgrade guard.
type Conditions struct {
	OriginalLoaded   bool
	VisualScale      float64
	UpgradeThreshold float64
	SyncMode         bool
	PeerState        State
}

// UpgradeReady reports whether Large may advance: the Original tier is
// loaded and either the pane is zoomed past the threshold or, in sync mode,
// the peer pane already shows Original.
func (c Conditions) UpgradeReady() bool {
	if !c.OriginalLoaded {
		return false
	}
	return c.VisualScale > c.UpgradeThreshold || c.PeerOriginal()
}

// PeerOriginal reports whether the sync peer forces this pane toward
// Original regardless of its own zoom.
func (c Conditions) PeerOriginal() bool {
	return c.SyncMode && c.PeerState == StateOriginal
}
