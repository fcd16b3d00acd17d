// Package input defines the host-independent input events the viewer
// consumes and the keyboard bindings that map keys to zoom commands.
package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/psfguard/psfview/pkg/viewport"
)

// ErrUnknownCommand is returned by ParseCommand for unrecognised names.
var ErrUnknownCommand = errors.New("input: unknown command")

// Kind classifies an Event.
type Kind uint8

const (
	KindWheel Kind = iota
	KindPointerDown
	KindPointerMove
	KindPointerUp
	KindKey
	KindCommand
)

var kindNames = map[Kind]string{
	KindWheel:       "wheel",
	KindPointerDown: "down",
	KindPointerMove: "move",
	KindPointerUp:   "up",
	KindKey:         "key",
	KindCommand:     "command",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Positional reports whether events of kind k carry a pointer position.
func (k Kind) Positional() bool {
	switch k {
	case KindWheel, KindPointerDown, KindPointerMove, KindPointerUp:
		return true
	}
	return false
}

// Button identifies a pointer button.
type Button uint8

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonTertiary
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Contain reports whether all of m2 are held in m.
func (m Modifiers) Contain(m2 Modifiers) bool {
	return m&m2 == m2
}

// Command is an imperative zoom command from a toolbar or key binding.
type Command uint8

const (
	CommandZoomIn Command = iota
	CommandZoomOut
	CommandZoomToFit
	CommandZoomTo100
	CommandResetZoom
)

var commandNames = map[Command]string{
	CommandZoomIn:    "zoom-in",
	CommandZoomOut:   "zoom-out",
	CommandZoomToFit: "fit",
	CommandZoomTo100: "100",
	CommandResetZoom: "reset",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", c)
}

// ParseCommand maps a command name to a Command.
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Event is one input event. Positions are window coordinates; a pane
// subtracts its container origin before applying them.
type Event struct {
	Kind      Kind
	Position  viewport.Point
	DeltaY    float64
	Button    Button
	Key       string
	Modifiers Modifiers
	Command   Command
}

// Wheel returns a scroll event. Negative dy zooms in.
func Wheel(dy float64, at viewport.Point) Event {
	return Event{Kind: KindWheel, DeltaY: dy, Position: at}
}

// PointerDown returns a button press event.
func PointerDown(at viewport.Point, b Button) Event {
	return Event{Kind: KindPointerDown, Position: at, Button: b}
}

// PointerMove returns a pointer motion event.
func PointerMove(at viewport.Point) Event {
	return Event{Kind: KindPointerMove, Position: at}
}

// PointerUp returns a button release event.
func PointerUp(at viewport.Point, b Button) Event {
	return Event{Kind: KindPointerUp, Position: at, Button: b}
}

// Key returns a key press event.
func Key(name string, mods Modifiers) Event {
	return Event{Kind: KindKey, Key: name, Modifiers: mods}
}

// Cmd returns a command event.
func Cmd(c Command) Event {
	return Event{Kind: KindCommand, Command: c}
}

// Translate shifts the position of a positional event by d. Other events are
// returned unchanged.
func (e Event) Translate(d viewport.Point) Event {
	if e.Kind.Positional() {
		e.Position = e.Position.Add(d)
	}
	return e
}

func (e Event) String() string {
	switch e.Kind {
	case KindWheel:
		return fmt.Sprintf("wheel %g at (%g,%g)", e.DeltaY, e.Position.X, e.Position.Y)
	case KindPointerDown, KindPointerMove, KindPointerUp:
		return fmt.Sprintf("%s at (%g,%g)", e.Kind, e.Position.X, e.Position.Y)
	case KindKey:
		return fmt.Sprintf("key %q", e.Key)
	case KindCommand:
		return "command " + e.Command.String()
	}
	return e.Kind.String()
}
