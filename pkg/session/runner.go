// Package session replays scripted viewer sessions against a headless pair
// of panes. Scripts drive geometry, image loads, preload completions, user
// input and virtual time, and can assert on the resulting state.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/psfguard/psfview/pkg/compare"
	"github.com/psfguard/psfview/pkg/eventloop"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// Tolerance is the absolute tolerance of numeric expectations.
const Tolerance = 5e-4

// Epoch is the virtual time a session starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ExpectationError reports a failed expect statement.
type ExpectationError struct {
	Line     int
	Pane     string
	Property string
	Want     string
	Got      string
}

func (e *ExpectationError) Error() string {
	if e.Pane == "" {
		return fmt.Sprintf("line %d: expect %s: got %s, want %s", e.Line, e.Property, e.Got, e.Want)
	}
	return fmt.Sprintf("line %d: expect %s %s: got %s, want %s", e.Line, e.Pane, e.Property, e.Got, e.Want)
}

// Runner executes scripts against two panes under a coordinator. It keeps
// state between Run calls.
type Runner struct {
	Loop     *eventloop.Manual
	Fetcher  *tier.ScriptedFetcher
	Resolver tier.Resolver
	Coord    *compare.Coordinator

	rects [2]viewport.Rect
	out   io.Writer
	keys  input.KeyMap
}

// NewRunner creates a runner with both containers at 800x600, side by side.
// A nil cfg selects pane.DefaultConfig; trace lines go to out when non-nil.
func NewRunner(cfg *pane.Config, resolver tier.Resolver, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	r := &Runner{
		Loop:     eventloop.NewManual(Epoch),
		Fetcher:  tier.NewScriptedFetcher(),
		Resolver: resolver,
		out:      out,
		keys:     input.DefaultKeyMap(),
	}
	r.rects[compare.Left] = viewport.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	r.rects[compare.Right] = viewport.Rect{X: 800, Y: 0, Width: 800, Height: 600}

	store := tier.NewCanonicalStore(0)
	mk := func(id compare.ID) *pane.Pane {
		return pane.New(id.String(), pane.Deps{
			Context:    context.Background(),
			Dispatcher: r.Loop,
			Container:  viewport.ContainerFunc(func() viewport.Rect { return r.rects[id] }),
			Resolver:   resolver,
			Fetcher:    r.Fetcher,
			Canonical:  store,
			KeyMap:     r.keys,
		}, cfg)
	}
	r.Coord = compare.New(mk(compare.Left), mk(compare.Right))
	return r
}

// Run executes every statement of s in order and stops at the first error.
func (r *Runner) Run(s *Script) error {
	for _, st := range s.Statements {
		if err := r.exec(st); err != nil {
			var ee *ExpectationError
			if errors.As(err, &ee) {
				return err
			}
			return fmt.Errorf("session: line %d: %w", st.Pos.Line, err)
		}
		r.Loop.Drain()
	}
	return nil
}

func (r *Runner) exec(st *Statement) error {
	switch {
	case st.Container != nil:
		c := st.Container
		id, err := compare.ParseID(c.Pane)
		if err != nil {
			return err
		}
		r.rects[id] = viewport.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
		return nil

	case st.Image != nil:
		im := st.Image
		mode, err := tier.ParseDisplayMode(im.Mode)
		if err != nil {
			return err
		}
		var hint tier.Dimensions
		if im.Hint != "" {
			if hint, err = tier.ParseDimensions(im.Hint); err != nil {
				return err
			}
		}
		p, err := r.pane(im.Pane)
		if err != nil {
			return err
		}
		p.SetImage(im.Identity, mode, hint)
		return nil

	case st.Load != nil:
		p, err := r.pane(st.Load.Pane)
		if err != nil {
			return err
		}
		t, err := tier.ParseTier(st.Load.Tier)
		if err != nil {
			return err
		}
		d, err := tier.ParseDimensions(st.Load.Size)
		if err != nil {
			return err
		}
		key := p.Key()
		p.AssetLoaded(tier.ImageAsset{Tier: t, Width: d.Width, Height: d.Height, URL: r.Resolver.URL(key.Identity, t, key.Mode)})
		return nil

	case st.Fail != nil:
		p, err := r.pane(st.Fail.Pane)
		if err != nil {
			return err
		}
		t, err := tier.ParseTier(st.Fail.Tier)
		if err != nil {
			return err
		}
		p.AssetFailed(t)
		return nil

	case st.Preload != nil:
		return r.preload(st.Preload)

	case st.Wheel != nil:
		id, err := compare.ParseID(st.Wheel.Pane)
		if err != nil {
			return err
		}
		at := r.center(id)
		if st.Wheel.At != nil {
			at = viewport.Point{X: st.Wheel.At.X, Y: st.Wheel.At.Y}
		}
		r.Coord.ApplyInput(id, input.Wheel(st.Wheel.Delta, at))
		return nil

	case st.Pointer != nil:
		id, err := compare.ParseID(st.Pointer.Pane)
		if err != nil {
			return err
		}
		at := viewport.Point{X: st.Pointer.At.X, Y: st.Pointer.At.Y}
		var ev input.Event
		switch st.Pointer.Kind {
		case "down":
			ev = input.PointerDown(at, input.ButtonPrimary)
		case "move":
			ev = input.PointerMove(at)
		default:
			ev = input.PointerUp(at, input.ButtonPrimary)
		}
		r.Coord.ApplyInput(id, ev)
		return nil

	case st.Key != nil:
		id, err := compare.ParseID(st.Key.Pane)
		if err != nil {
			return err
		}
		r.Coord.ApplyInput(id, input.Key(st.Key.Key, parseModifiers(st.Key.Modifiers)))
		return nil

	case st.Cmd != nil:
		id, err := compare.ParseID(st.Cmd.Pane)
		if err != nil {
			return err
		}
		cmd, err := input.ParseCommand(st.Cmd.Name)
		if err != nil {
			return err
		}
		r.Coord.Command(id, cmd)
		return nil

	case st.Sync != nil:
		if st.Sync.State == "off" {
			r.Coord.SetSync(false, r.Coord.Leader())
			return nil
		}
		leader := compare.Left
		if st.Sync.Leader != "" {
			var err error
			if leader, err = compare.ParseID(st.Sync.Leader); err != nil {
				return err
			}
		}
		r.Coord.SetSync(true, leader)
		return nil

	case st.Transform != nil:
		p, err := r.pane(st.Transform.Pane)
		if err != nil {
			return err
		}
		p.SetTransform(viewport.Transform{Scale: st.Transform.Scale, OffsetX: st.Transform.OffsetX, OffsetY: st.Transform.OffsetY})
		return nil

	case st.Wait != nil:
		d, err := time.ParseDuration(st.Wait.Duration)
		if err != nil {
			return fmt.Errorf("wait: %w", err)
		}
		r.Loop.Advance(d)
		return nil

	case st.Expect != nil:
		return r.expect(st.Pos.Line, st.Expect)

	case st.Print != nil:
		p, err := r.pane(st.Print.Pane)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, Status(p))
		return nil
	}
	return errors.New("empty statement")
}

func (r *Runner) preload(st *PreloadStmt) error {
	p, err := r.pane(st.Pane)
	if err != nil {
		return err
	}
	key := p.Key()
	if st.Identity != "" {
		key.Identity = st.Identity
	}
	url := r.Resolver.URL(key.Identity, tier.Original, key.Mode)
	if r.Fetcher.Pending(url) == 0 {
		return fmt.Errorf("no preload pending for %s (%s)", st.Pane, key)
	}
	if st.Outcome == "fail" {
		r.Fetcher.Fail(url, errors.New("scripted failure"))
		return nil
	}
	if st.Size == "" {
		return fmt.Errorf("preload ok needs a size")
	}
	d, err := tier.ParseDimensions(st.Size)
	if err != nil {
		return err
	}
	r.Fetcher.Complete(url, d)
	return nil
}

func (r *Runner) expect(line int, e *ExpectStmt) error {
	if e.Equal {
		lt := r.Coord.Pane(compare.Left).Transform()
		rt := r.Coord.Pane(compare.Right).Transform()
		if lt != rt {
			return &ExpectationError{Line: line, Property: "equal", Want: formatTransform(lt), Got: formatTransform(rt)}
		}
		return nil
	}

	p, err := r.pane(e.Pane)
	if err != nil {
		return err
	}
	fail := func(got string) error {
		return &ExpectationError{Line: line, Pane: e.Pane, Property: e.Property, Want: e.Value, Got: got}
	}
	number := func(got float64) error {
		want, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return fmt.Errorf("expect %s: %w", e.Property, err)
		}
		if !scalar.EqualWithinAbs(got, want, Tolerance) {
			return fail(strconv.FormatFloat(got, 'f', 4, 64))
		}
		return nil
	}
	text := func(got string) error {
		if !strings.EqualFold(got, e.Value) {
			return fail(got)
		}
		return nil
	}

	t := p.Transform()
	switch e.Property {
	case "state":
		want, err := resolution.ParseState(e.Value)
		if err != nil {
			return fmt.Errorf("expect state: %w", err)
		}
		if got := p.State(); got != want {
			return fail(got.String())
		}
		return nil
	case "tier":
		return text(p.DisplayTier().String())
	case "scale":
		return number(t.Scale)
	case "offsetx":
		return number(t.OffsetX)
	case "offsety":
		return number(t.OffsetY)
	case "visual":
		return number(p.VisualScale())
	case "percent":
		return number(float64(p.ZoomPercentage()))
	case "overflow":
		return text(strconv.FormatBool(p.HasOverflow()))
	case "error":
		return text(strconv.FormatBool(p.LoadError()))
	case "preloading":
		return text(strconv.FormatBool(p.Preloading()))
	case "history":
		return text(formatHistory(p.History()))
	case "size":
		return text(p.DisplayedSize().String())
	}
	return fmt.Errorf("expect: unknown property %q", e.Property)
}

func (r *Runner) pane(name string) (*pane.Pane, error) {
	id, err := compare.ParseID(name)
	if err != nil {
		return nil, err
	}
	return r.Coord.Pane(id), nil
}

func (r *Runner) center(id compare.ID) viewport.Point {
	b := r.rects[id]
	return viewport.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

func parseModifiers(names []string) input.Modifiers {
	var m input.Modifiers
	for _, n := range names {
		switch n {
		case "shift":
			m |= input.ModShift
		case "ctrl":
			m |= input.ModCtrl
		case "alt":
			m |= input.ModAlt
		case "meta":
			m |= input.ModMeta
		}
	}
	return m
}

// Status renders one pane as a single trace line.
func Status(p *pane.Pane) string {
	return fmt.Sprintf("%s: %s %s state=%s tier=%s visual=%.4f (%d%%)",
		p.Name(), p.Key(), formatTransform(p.Transform()), p.State(), p.DisplayTier(), p.VisualScale(), p.ZoomPercentage())
}

func formatTransform(t viewport.Transform) string {
	return fmt.Sprintf("scale=%.4f offset=(%.2f,%.2f)", t.Scale, t.OffsetX, t.OffsetY)
}

func formatHistory(h []resolution.State) string {
	names := make([]string, len(h))
	for i, s := range h {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}
