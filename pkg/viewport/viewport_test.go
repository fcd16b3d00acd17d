package viewport

import (
	"math/rand"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func newTestViewport(t *testing.T, container Rect, natural Size) (*Viewport, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	v := New(container, nil, WithClock(func() time.Time { return now }))
	v.SetImage(natural, 0)
	return v, &now
}

func TestFit(t *testing.T) {
	cases := []struct {
		name      string
		container Size
		natural   Size
		want      float64
	}{
		{"landscape", Size{800, 600}, Size{4000, 3000}, 580.0 / 3000},
		{"wide", Size{800, 600}, Size{4000, 1000}, 780.0 / 4000},
		{"small image scales up", Size{800, 600}, Size{100, 50}, 7.8},
		{"zero container", Size{0, 600}, Size{4000, 3000}, 1},
		{"unknown natural", Size{800, 600}, Size{}, 1},
		{"padding eats container", Size{20, 20}, Size{100, 100}, 1},
	}
	for _, tc := range cases {
		got := Fit(tc.container, tc.natural, 20)
		if !scalar.EqualWithinAbs(got, tc.want, tol) {
			t.Fatalf("%s: Fit(%v, %v) = %v, want %v", tc.name, tc.container, tc.natural, got, tc.want)
		}
	}
}

func TestConstrain(t *testing.T) {
	container := Size{800, 600}
	natural := Size{4000, 3000}
	cases := []struct {
		name   string
		offset Point
		scale  float64
		want   Point
	}{
		{"fits: centered", Point{500, -40}, 0.1, Point{200, 150}},
		{"inside range", Point{-1600, -1200}, 1, Point{-1600, -1200}},
		{"overscroll right", Point{900, 0}, 1, Point{400, 0}},
		{"overscroll left", Point{-9000, -9000}, 1, Point{-3600, -2700}},
		{"exact fit", Point{-50, 77}, 0.2, Point{0, 0}},
	}
	for _, tc := range cases {
		got := Constrain(tc.offset, tc.scale, natural, container, 0.1)
		if !scalar.EqualWithinAbs(got.X, tc.want.X, tol) || !scalar.EqualWithinAbs(got.Y, tc.want.Y, tol) {
			t.Fatalf("%s: Constrain(%v, %v) = %v, want %v", tc.name, tc.offset, tc.scale, got, tc.want)
		}
	}

	if got := Constrain(Point{5, 5}, 1, Size{}, container, 0.1); got != (Point{}) {
		t.Fatalf("Constrain with unknown image = %v, want origin", got)
	}
}

func TestZoomToFitFirstLoad(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})

	tr := v.Transform()
	want := 580.0 / 3000
	if !scalar.EqualWithinAbs(tr.Scale, want, tol) {
		t.Fatalf("scale = %v, want %v", tr.Scale, want)
	}
	if !scalar.EqualWithinAbs(tr.OffsetX, (800-4000*want)/2, tol) || !scalar.EqualWithinAbs(tr.OffsetY, 10, tol) {
		t.Fatalf("offsets = (%v, %v), image not centered", tr.OffsetX, tr.OffsetY)
	}
	if !scalar.EqualWithinAbs(v.VisualScale(), want, tol) {
		t.Fatalf("visual scale = %v, want %v", v.VisualScale(), want)
	}
	if v.ZoomPercentage() != 19 {
		t.Fatalf("ZoomPercentage() = %d, want 19", v.ZoomPercentage())
	}
	if v.HasOverflow() {
		t.Fatal("HasOverflow() = true after fit")
	}

	v.ZoomToFit()
	if v.Transform() != tr {
		t.Fatalf("second ZoomToFit changed transform: %+v -> %+v", tr, v.Transform())
	}
}

func TestVisualScaleUsesCanonicalWidth(t *testing.T) {
	v := New(Rect{Width: 800, Height: 600}, nil)
	v.SetImage(Size{2000, 1500}, 8000)

	fit := 580.0 / 1500
	if !scalar.EqualWithinAbs(v.VisualScale(), fit*2000/8000, tol) {
		t.Fatalf("visual = %v, want %v", v.VisualScale(), fit/4)
	}

	v.ZoomTo100()
	if v.Transform().Scale != 1 {
		t.Fatalf("ZoomTo100 scale = %v, want 1 (displayed tier)", v.Transform().Scale)
	}
	if v.ZoomPercentage() != 25 {
		t.Fatalf("ZoomPercentage() = %d, want 25", v.ZoomPercentage())
	}
	if !v.HasOverflow() {
		t.Fatal("HasOverflow() = false at 100%")
	}
}

func TestWheelKeepsPointUnderCursor(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	v.ZoomTo100()

	cursor := Point{100, 100}
	before := v.Transform().ScreenToImage(cursor)
	v.Wheel(-100, cursor)

	if got := v.Transform().Scale; !scalar.EqualWithinAbs(got, 2, tol) {
		t.Fatalf("scale after wheel = %v, want 2", got)
	}
	after := v.Transform().ScreenToImage(cursor)
	if !scalar.EqualWithinAbs(before.X, after.X, 1e-6) || !scalar.EqualWithinAbs(before.Y, after.Y, 1e-6) {
		t.Fatalf("point under cursor moved: %v -> %v", before, after)
	}

	v.Wheel(0, cursor)
	if got := v.Transform().Scale; got != 2 {
		t.Fatalf("zero delta changed scale to %v", got)
	}
}

func TestZoomStepsAndBounds(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	cfg := v.Config()

	for i := 0; i < 500; i++ {
		v.ZoomIn()
	}
	if got := v.Transform().Scale; got != cfg.MaxScale {
		t.Fatalf("scale after many ZoomIn = %v, want %v", got, cfg.MaxScale)
	}
	for i := 0; i < 500; i++ {
		v.ZoomOut()
	}
	if got := v.Transform().Scale; got != cfg.MinScale {
		t.Fatalf("scale after many ZoomOut = %v, want %v", got, cfg.MinScale)
	}
	v.Wheel(1e9, Point{1, 1})
	if got := v.Transform().Scale; got != cfg.MinScale {
		t.Fatalf("huge wheel delta gave scale %v", got)
	}
}

func TestRandomOperationsRespectInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	container := Rect{Width: 640, Height: 480}
	natural := Size{3000, 2000}
	v, _ := newTestViewport(t, container, natural)
	cfg := v.Config()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(6) {
		case 0:
			v.ZoomIn()
		case 1:
			v.ZoomOut()
		case 2:
			v.Wheel((rng.Float64()-0.5)*600, Point{rng.Float64() * 640, rng.Float64() * 480})
		case 3:
			v.Drag((rng.Float64()-0.5)*4000, (rng.Float64()-0.5)*4000)
		case 4:
			v.ZoomToFit()
		case 5:
			v.ZoomTo100()
		}

		tr := v.Transform()
		if tr.Scale < cfg.MinScale || tr.Scale > cfg.MaxScale {
			t.Fatalf("step %d: scale %v out of bounds", i, tr.Scale)
		}
		want := Constrain(tr.Offset(), tr.Scale, natural, container.Size(), cfg.OverscrollRatio)
		if !scalar.EqualWithinAbs(want.X, tr.OffsetX, 1e-6) || !scalar.EqualWithinAbs(want.Y, tr.OffsetY, 1e-6) {
			t.Fatalf("step %d: offsets %v violate constraint (want %v)", i, tr.Offset(), want)
		}
	}
}

func TestDrag(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	v.ZoomTo100()
	start := v.Transform()

	v.Drag(25, -40)
	got := v.Transform()
	if got.OffsetX != start.OffsetX+25 || got.OffsetY != start.OffsetY-40 {
		t.Fatalf("Drag offsets = (%v, %v), want (%v, %v)", got.OffsetX, got.OffsetY, start.OffsetX+25, start.OffsetY-40)
	}

	v.Drag(1e6, 1e6)
	if got := v.Transform(); got.OffsetX != 400 || got.OffsetY != 300 {
		t.Fatalf("Drag past edge = (%v, %v), want overscroll limit (400, 300)", got.OffsetX, got.OffsetY)
	}

	v.ZoomToFit()
	fitted := v.Transform()
	v.Drag(50, 50)
	if v.Transform() != fitted {
		t.Fatal("Drag moved an image that fits the container")
	}
}

func TestDegenerateGeometry(t *testing.T) {
	var bounds Rect
	v := New(ContainerFunc(func() Rect { return bounds }), nil)
	v.SetImage(Size{4000, 3000}, 0)
	if v.Transform() != Identity {
		t.Fatalf("transform before layout = %+v, want identity", v.Transform())
	}

	v.ZoomIn()
	v.Drag(10, 10)
	v.Wheel(-50, Point{1, 2})
	if v.Transform() != Identity {
		t.Fatalf("transform with zero container = %+v, want identity", v.Transform())
	}

	bounds = Rect{Width: 800, Height: 600}
	v.ZoomToFit()
	if !scalar.EqualWithinAbs(v.Transform().Scale, 580.0/3000, tol) {
		t.Fatalf("scale after container resize = %v", v.Transform().Scale)
	}
}

func TestUserZoomSuppressesReset(t *testing.T) {
	v, now := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	v.ZoomIn()
	v.ZoomIn()
	zoomed := v.Transform()
	visual := v.VisualScale()

	*now = now.Add(time.Second)
	v.SetImage(Size{}, 0)
	if v.Transform() != zoomed {
		t.Fatalf("reset within cooldown replaced transform: %+v", v.Transform())
	}
	if p, ok := v.PendingUserZoom(); !ok || p != visual {
		t.Fatalf("PendingUserZoom() = %v, %v, want %v, true", p, ok, visual)
	}

	v.SetNatural(Size{4000, 3000})
	if got := v.VisualScale(); !scalar.EqualWithinAbs(got, visual, tol) {
		t.Fatalf("visual after pending zoom = %v, want %v", got, visual)
	}
	if _, ok := v.PendingUserZoom(); ok {
		t.Fatal("pending user zoom not cleared after layout")
	}

	*now = now.Add(3 * time.Second)
	v.SetImage(Size{4000, 3000}, 0)
	if !scalar.EqualWithinAbs(v.Transform().Scale, 580.0/3000, tol) {
		t.Fatalf("reset after cooldown scale = %v, want fit", v.Transform().Scale)
	}
}

func TestResetZoomClearsCooldown(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	v.Wheel(-300, Point{400, 300})
	v.ResetZoom()
	v.SetImage(Size{2000, 1000}, 0)
	if !scalar.EqualWithinAbs(v.Transform().Scale, 780.0/2000, tol) {
		t.Fatalf("scale = %v, want fit after ResetZoom", v.Transform().Scale)
	}
}

func TestSetTransformCopiesVerbatim(t *testing.T) {
	v, _ := newTestViewport(t, Rect{Width: 800, Height: 600}, Size{4000, 3000})
	want := Transform{Scale: 2, OffsetX: 10, OffsetY: 20}
	v.SetTransform(want)
	if v.Transform() != want {
		t.Fatalf("Transform() = %+v, want %+v", v.Transform(), want)
	}
	if v.VisualScale() != 2 {
		t.Fatalf("VisualScale() = %v, want 2", v.VisualScale())
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{MinScale: -1, MaxScale: 0, ZoomStep: 0, OverscrollRatio: -3, UserZoomCooldown: -time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	def := DefaultConfig()
	if cfg.MinScale != def.MinScale || cfg.MaxScale != def.MaxScale || cfg.ZoomStep != def.ZoomStep {
		t.Fatalf("Validate did not restore defaults: %+v", cfg)
	}
	if cfg.OverscrollRatio != def.OverscrollRatio || cfg.UserZoomCooldown != 0 {
		t.Fatalf("Validate did not clamp: %+v", cfg)
	}

	bad := DefaultConfig()
	bad.MinScale, bad.MaxScale = 5, 2
	if err := bad.Validate(); err == nil {
		t.Fatal("Validate() accepted inverted bounds")
	}
}
