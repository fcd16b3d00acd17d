package pane

import (
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/viewport"
)

// Apply handles one input event and reports whether it was consumed. Event
// positions are window coordinates. While LoadError is set every event is
// dropped.
func (p *Pane) Apply(ev input.Event) bool {
	if p.loadError {
		return false
	}
	switch ev.Kind {
	case input.KindWheel:
		p.vp.Wheel(ev.DeltaY, p.local(ev.Position))
	case input.KindPointerDown:
		if ev.Button != input.ButtonPrimary {
			return false
		}
		p.dragging = true
		p.lastPointer = ev.Position
		return true
	case input.KindPointerMove:
		if !p.dragging {
			return false
		}
		d := ev.Position.Sub(p.lastPointer)
		p.lastPointer = ev.Position
		p.vp.Drag(d.X, d.Y)
	case input.KindPointerUp:
		if !p.dragging {
			return false
		}
		p.dragging = false
		return true
	case input.KindKey:
		cmd, ok := p.deps.KeyMap.Lookup(ev.Key, ev.Modifiers)
		if !ok {
			return false
		}
		p.command(cmd)
	case input.KindCommand:
		p.command(ev.Command)
	default:
		return false
	}
	p.changed()
	return true
}

// Dragging reports whether a primary-button drag is in progress.
func (p *Pane) Dragging() bool { return p.dragging }

// ZoomIn zooms one step around the container center.
func (p *Pane) ZoomIn() { p.Apply(input.Cmd(input.CommandZoomIn)) }

// ZoomOut zooms out one step around the container center.
func (p *Pane) ZoomOut() { p.Apply(input.Cmd(input.CommandZoomOut)) }

// ZoomToFit fits the image in the container.
func (p *Pane) ZoomToFit() { p.Apply(input.Cmd(input.CommandZoomToFit)) }

// ZoomTo100 shows the displayed tier at 1:1.
func (p *Pane) ZoomTo100() { p.Apply(input.Cmd(input.CommandZoomTo100)) }

// ResetZoom fits the image and clears the user-zoom cooldown.
func (p *Pane) ResetZoom() { p.Apply(input.Cmd(input.CommandResetZoom)) }

func (p *Pane) command(c input.Command) {
	switch c {
	case input.CommandZoomIn:
		p.vp.ZoomIn()
	case input.CommandZoomOut:
		p.vp.ZoomOut()
	case input.CommandZoomToFit:
		p.vp.ZoomToFit()
	case input.CommandZoomTo100:
		p.vp.ZoomTo100()
	case input.CommandResetZoom:
		p.vp.ResetZoom()
	}
}

// SetTransform forces the transform, as a sync follower does with its
// leader's. It is ignored while LoadError is set.
func (p *Pane) SetTransform(t viewport.Transform) {
	if p.loadError {
		return
	}
	p.vp.SetTransform(t)
	p.changed()
}

// SetPeer tells the pane whether it is synced and which resolution state the
// other pane is in. A peer at Original pulls this pane toward Original
// regardless of its own zoom.
func (p *Pane) SetPeer(sync bool, peer resolution.State) {
	p.syncMode = sync
	p.peerState = peer
	if !sync {
		p.peerState = resolution.StateLarge
	}
	p.evaluate()
}

func (p *Pane) changed() {
	p.notifyTransform()
	p.evaluate()
}

func (p *Pane) local(at viewport.Point) viewport.Point {
	if p.deps.Container == nil {
		return at
	}
	return at.Sub(p.deps.Container.Bounds().Origin())
}
