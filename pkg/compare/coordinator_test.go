package compare

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/psfguard/psfview/pkg/eventloop"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

var (
	leftRect  = viewport.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	rightRect = viewport.Rect{X: 810, Y: 40, Width: 800, Height: 600}
)

type fixture struct {
	loop     *eventloop.Manual
	fetcher  *tier.ScriptedFetcher
	resolver *tier.HTTPResolver
	coord    *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	r, err := tier.NewHTTPResolver(tier.ServerOptions{BaseURL: "http://psf.local:3000", Stretch: true})
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{
		loop:     eventloop.NewManual(time.Date(2024, 3, 1, 22, 0, 0, 0, time.UTC)),
		fetcher:  tier.NewScriptedFetcher(),
		resolver: r,
	}
	store := tier.NewCanonicalStore(0)
	mk := func(name string, rect viewport.Rect) *pane.Pane {
		return pane.New(name, pane.Deps{
			Dispatcher: f.loop,
			Container:  rect,
			Resolver:   r,
			Fetcher:    f.fetcher,
			Canonical:  store,
		}, nil)
	}
	f.coord = New(mk("left", leftRect), mk("right", rightRect))
	return f
}

func (f *fixture) left() *pane.Pane  { return f.coord.Pane(Left) }
func (f *fixture) right() *pane.Pane { return f.coord.Pane(Right) }

func TestSyncMirrorsLeaderTransform(t *testing.T) {
	f := newFixture(t)
	f.left().SetImage("42", tier.Plain, tier.Dimensions{Width: 8000, Height: 6000})
	f.right().SetImage("43", tier.Plain, tier.Dimensions{Width: 6000, Height: 4000})
	f.right().ZoomTo100()
	f.right().Apply(input.PointerDown(viewport.Point{X: 900, Y: 100}, input.ButtonPrimary))
	f.right().Apply(input.PointerMove(viewport.Point{X: 870, Y: 130}))

	f.coord.SetSync(true, Left)
	if f.right().Transform() != f.left().Transform() {
		t.Fatalf("follower %+v != leader %+v after enabling sync", f.right().Transform(), f.left().Transform())
	}

	want := viewport.Transform{Scale: 2.0, OffsetX: 10, OffsetY: 20}
	f.left().SetTransform(want)
	if got := f.right().Transform(); got != want {
		t.Fatalf("follower transform = %+v, want %+v", got, want)
	}

	f.coord.ApplyInput(Left, input.Key("+", input.ModShift))
	if f.right().Transform() != f.left().Transform() {
		t.Fatal("follower diverged after leader zoom")
	}

	f.right().SetImage("44", tier.Plain, tier.Dimensions{Width: 3000, Height: 3000})
	if f.right().Transform() != f.left().Transform() {
		t.Fatal("follower image change broke transform equality")
	}
}

func TestFollowerInputIsTranslatedToLeader(t *testing.T) {
	f := newFixture(t)
	dims := tier.Dimensions{Width: 8000, Height: 6000}
	f.left().SetImage("42", tier.Plain, dims)
	f.right().SetImage("42", tier.Annotated, dims)
	f.coord.SetSync(true, Left)

	ref := viewport.New(leftRect, nil)
	ref.SetImage(viewport.Size{Width: 2000, Height: 1500}, 8000)

	if d := f.coord.Translation(Right); d != (viewport.Point{X: -810, Y: -40}) {
		t.Fatalf("Translation(Right) = %v", d)
	}

	f.coord.ApplyInput(Right, input.Wheel(-120, viewport.Point{X: 810 + 150, Y: 40 + 90}))
	ref.Wheel(-120, viewport.Point{X: 150, Y: 90})

	if got := f.left().Transform(); got != ref.Transform() {
		t.Fatalf("leader transform %+v, want %+v", got, ref.Transform())
	}
	if f.right().Transform() != f.left().Transform() {
		t.Fatal("follower did not mirror translated input")
	}

	f.coord.ApplyInput(Right, input.PointerDown(viewport.Point{X: 900, Y: 300}, input.ButtonPrimary))
	f.coord.ApplyInput(Right, input.PointerMove(viewport.Point{X: 880, Y: 310}))
	f.coord.ApplyInput(Right, input.PointerUp(viewport.Point{X: 880, Y: 310}, input.ButtonPrimary))
	ref.Drag(-20, 10)
	if got := f.left().Transform(); got != ref.Transform() {
		t.Fatalf("leader after drag %+v, want %+v", got, ref.Transform())
	}
	if f.right().Dragging() || f.left().Dragging() {
		t.Fatal("drag still active after release")
	}
}

func TestSyncOffPanesAreIndependent(t *testing.T) {
	f := newFixture(t)
	dims := tier.Dimensions{Width: 8000, Height: 6000}
	f.left().SetImage("42", tier.Plain, dims)
	f.right().SetImage("43", tier.Plain, dims)

	before := f.right().Transform()
	f.coord.ApplyInput(Left, input.Cmd(input.CommandZoomTo100))
	if f.right().Transform() != before {
		t.Fatal("right pane moved with sync off")
	}

	f.coord.SetSync(true, Right)
	if f.left().Transform() != f.right().Transform() {
		t.Fatal("left did not follow new leader")
	}
	f.coord.SetSync(false, Left)
	f.coord.Command(Left, input.CommandZoomIn)
	if f.left().Transform() == f.right().Transform() {
		t.Fatal("panes still mirrored after sync off")
	}
}

func TestFollowerFollowsLeaderToOriginal(t *testing.T) {
	f := newFixture(t)
	f.left().SetImage("42", tier.Plain, tier.Dimensions{Width: 8000, Height: 6000})
	f.right().SetImage("43", tier.Plain, tier.Dimensions{Width: 16000, Height: 12000})
	f.coord.SetSync(true, Left)

	f.coord.ApplyInput(Left, input.Cmd(input.CommandZoomTo100))
	f.coord.ApplyInput(Left, input.Wheel(-420, viewport.Point{X: 400, Y: 300}))
	if f.right().VisualScale() >= 0.8 || f.right().Preloading() {
		t.Fatalf("follower visual %v preloading %v before leader upgrade", f.right().VisualScale(), f.right().Preloading())
	}

	f.fetcher.Complete(f.resolver.URL("42", tier.Original, tier.Plain), tier.Dimensions{Width: 8000, Height: 6000})
	f.loop.Drain()
	if f.left().State() != resolution.StateSwitchingToOriginal {
		t.Fatalf("leader state %s", f.left().State())
	}
	if f.right().Preloading() {
		t.Fatal("follower pulled before leader reached Original")
	}

	f.loop.Advance(300 * time.Millisecond)
	if f.left().State() != resolution.StateOriginal {
		t.Fatalf("leader state %s after settle", f.left().State())
	}
	if !f.right().Preloading() {
		t.Fatal("follower did not start preloading when leader reached Original")
	}
	if f.right().VisualScale() > 1 {
		t.Fatalf("follower visual %v would upgrade on its own", f.right().VisualScale())
	}

	f.fetcher.Complete(f.resolver.URL("43", tier.Original, tier.Plain), tier.Dimensions{Width: 16000, Height: 12000})
	f.loop.Drain()
	if f.right().State() != resolution.StateSwitchingToOriginal {
		t.Fatalf("follower state %s, want %s", f.right().State(), resolution.StateSwitchingToOriginal)
	}
	f.loop.Advance(300 * time.Millisecond)
	if f.right().State() != resolution.StateOriginal {
		t.Fatalf("follower state %s after settle", f.right().State())
	}
	if f.right().Transform() != f.left().Transform() {
		t.Fatal("follower transform diverged after its upgrade")
	}
}

func TestFollowerAtOriginalPullsLeader(t *testing.T) {
	f := newFixture(t)
	dims := tier.Dimensions{Width: 8000, Height: 6000}
	f.left().SetImage("42", tier.Plain, dims)
	f.right().SetImage("43", tier.Plain, dims)

	f.coord.ApplyInput(Right, input.Cmd(input.CommandZoomTo100))
	f.coord.ApplyInput(Right, input.Wheel(-420, viewport.Point{X: 810 + 400, Y: 40 + 300}))
	f.fetcher.Complete(f.resolver.URL("43", tier.Original, tier.Plain), dims)
	f.loop.Drain()
	f.loop.Advance(300 * time.Millisecond)
	if f.right().State() != resolution.StateOriginal {
		t.Fatalf("right state %s, want Original", f.right().State())
	}
	if f.left().Preloading() {
		t.Fatal("left preloading with sync off")
	}

	f.coord.SetSync(true, Left)
	if !f.left().Preloading() {
		t.Fatal("leader not pulled by a follower at Original")
	}
	if f.left().VisualScale() >= 0.8 {
		t.Fatalf("leader visual %v would preload on its own", f.left().VisualScale())
	}
	f.fetcher.Complete(f.resolver.URL("42", tier.Original, tier.Plain), dims)
	f.loop.Drain()
	if f.left().State() != resolution.StateSwitchingToOriginal {
		t.Fatalf("leader state %s, want %s", f.left().State(), resolution.StateSwitchingToOriginal)
	}
	if f.right().State() != resolution.StateOriginal {
		t.Fatalf("follower regressed to %s", f.right().State())
	}
	if f.right().Transform() != f.left().Transform() {
		t.Fatal("panes diverged after leader upgrade")
	}
}

func TestLeaderFailureStaysLocal(t *testing.T) {
	f := newFixture(t)
	dims := tier.Dimensions{Width: 8000, Height: 6000}
	f.left().SetImage("42", tier.Plain, dims)
	f.right().SetImage("43", tier.Plain, dims)

	f.left().AssetFailed(tier.Large)
	if f.right().LoadError() {
		t.Fatal("failure crossed panes")
	}
	if !f.coord.ApplyInput(Right, input.Cmd(input.CommandZoomTo100)) {
		t.Fatal("independent pane rejected input")
	}
	if !scalar.EqualWithinAbs(f.right().Transform().Scale, 1, 1e-12) {
		t.Fatalf("right scale = %v", f.right().Transform().Scale)
	}
}

func TestParseID(t *testing.T) {
	for _, id := range []ID{Left, Right} {
		got, err := ParseID(id.String())
		if err != nil || got != id {
			t.Fatalf("ParseID(%q) = %v, %v", id.String(), got, err)
		}
	}
	if _, err := ParseID("middle"); err == nil {
		t.Fatal("ParseID accepted unknown pane")
	}
}
