// Package compare keeps two panes in lockstep for side-by-side comparison.
package compare

import (
	"fmt"
	"log/slog"

	"github.com/psfguard/psfview/internal/logging"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/viewport"
)

// ID names one of the two panes.
type ID int

const (
	Left ID = iota
	Right
)

func (id ID) String() string {
	switch id {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// ParseID accepts "left" and "right".
func ParseID(s string) (ID, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Left, fmt.Errorf("compare: unknown pane %q", s)
}

// Other returns the opposite pane.
func (id ID) Other() ID {
	if id == Left {
		return Right
	}
	return Left
}

// Coordinator owns both panes and routes input to them. With sync off each
// pane is independent. With sync on, input from either pane is applied to
// the leader (positions translated into the leader's container) and every
// leader transform is copied verbatim to the follower. A pane at Original
// pulls its peer to Original, whichever of the two leads.
type Coordinator struct {
	panes     [2]*pane.Pane
	sync      bool
	leader    ID
	mirroring bool
	log       *slog.Logger
}

// New creates a coordinator over left and right with sync off.
func New(left, right *pane.Pane) *Coordinator {
	c := &Coordinator{
		panes: [2]*pane.Pane{left, right},
		log:   logging.For("compare"),
	}
	for _, id := range []ID{Left, Right} {
		c.panes[id].OnTransform(func(viewport.Transform) { c.transformChanged() })
		c.panes[id].OnState(func(s resolution.State) { c.stateChanged(id, s) })
	}
	return c
}

// Pane returns the pane for id.
func (c *Coordinator) Pane(id ID) *pane.Pane { return c.panes[id] }

// Sync reports whether sync mode is on.
func (c *Coordinator) Sync() bool { return c.sync }

// Leader returns the leading pane's ID. It is meaningful only in sync mode.
func (c *Coordinator) Leader() ID { return c.leader }

// SetSync turns sync mode on with the given leader, or off. Turning it on
// copies the leader's transform to the follower immediately.
func (c *Coordinator) SetSync(on bool, leader ID) {
	c.sync = on
	c.leader = leader
	c.log.Debug("sync changed", "on", on, "leader", leader.String())

	if !on {
		c.panes[Left].SetPeer(false, resolution.StateLarge)
		c.panes[Right].SetPeer(false, resolution.StateLarge)
		return
	}
	lead, follow := c.panes[leader], c.panes[leader.Other()]
	lead.SetPeer(true, follow.State())
	c.mirror()
	follow.SetPeer(true, lead.State())
}

// ApplyInput handles an event that arrived on pane id and reports whether it
// was consumed.
func (c *Coordinator) ApplyInput(id ID, ev input.Event) bool {
	if !c.sync || id == c.leader {
		return c.panes[id].Apply(ev)
	}
	return c.panes[c.leader].Apply(ev.Translate(c.Translation(id)))
}

// Translation is the offset that maps a window position inside pane from's
// container to the same container-relative position in the leader's.
func (c *Coordinator) Translation(from ID) viewport.Point {
	src := containerOrigin(c.panes[from])
	dst := containerOrigin(c.panes[c.leader])
	return dst.Sub(src)
}

// Command runs a toolbar command on pane id, routed like any other input.
func (c *Coordinator) Command(id ID, cmd input.Command) bool {
	return c.ApplyInput(id, input.Cmd(cmd))
}

// transformChanged mirrors after any change on either pane; a follower that
// moved on its own (new image, tier swap) is forced back to the leader.
func (c *Coordinator) transformChanged() {
	if !c.sync {
		return
	}
	c.mirror()
}

func (c *Coordinator) stateChanged(id ID, s resolution.State) {
	if !c.sync {
		return
	}
	c.panes[id.Other()].SetPeer(true, s)
}

// mirror copies the leader transform to the follower. Applying it can make
// the follower swap tiers and rescale, so the copy is repeated once.
func (c *Coordinator) mirror() {
	if c.mirroring {
		return
	}
	c.mirroring = true
	defer func() { c.mirroring = false }()

	lead, follow := c.panes[c.leader], c.panes[c.leader.Other()]
	for i := 0; i < 2 && follow.Transform() != lead.Transform(); i++ {
		follow.SetTransform(lead.Transform())
	}
}

func containerOrigin(p *pane.Pane) viewport.Point {
	if p.Container() == nil {
		return viewport.Point{}
	}
	return p.Container().Bounds().Origin()
}
