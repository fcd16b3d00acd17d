package viewport

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func TestAdjustForNewImagePreservesCenterPoint(t *testing.T) {
	container := Rect{X: 30, Y: 40, Width: 800, Height: 600}
	center := Point{X: 400, Y: 300}

	cases := []struct {
		name                   string
		oldW, oldH, newW, newH float64
		start                  Transform
	}{
		{"large to original", 2000, 1500, 8000, 6000, Transform{Scale: 1.3, OffsetX: -900, OffsetY: -500}},
		{"screen to large", 1200, 900, 2000, 1500, Transform{Scale: 0.5, OffsetX: 100, OffsetY: 75}},
		{"downgrade", 8000, 6000, 2000, 1500, Transform{Scale: 0.2, OffsetX: -350, OffsetY: -120}},
		{"rounded aspect", 2000, 1333, 8000, 5332, Transform{Scale: 2, OffsetX: -1700, OffsetY: -1000}},
		{"zoomed out", 2000, 1500, 6000, 4500, Transform{Scale: 0.1, OffsetX: 300, OffsetY: 225}},
	}

	for _, tc := range cases {
		v := New(container, nil)
		v.SetImage(Size{tc.oldW, tc.oldH}, 8000)
		v.SetTransform(tc.start)
		visual := v.VisualScale()
		pct := v.ZoomPercentage()
		before := v.Transform().ScreenToImage(center)

		v.AdjustForNewImage(tc.oldW, tc.oldH, tc.newW, tc.newH)

		after := v.Transform().ScreenToImage(center)
		ratio := tc.newW / tc.oldW
		if !scalar.EqualWithinAbs(after.X, before.X*ratio, 1e-6) || !scalar.EqualWithinAbs(after.Y, before.Y*ratio, 1e-6) {
			t.Fatalf("%s: center point %v -> %v, want %v", tc.name, before, after, Point{before.X * ratio, before.Y * ratio})
		}
		if want := tc.start.Scale * tc.oldW / tc.newW; !scalar.EqualWithinAbs(v.Transform().Scale, want, tol) {
			t.Fatalf("%s: scale = %v, want %v", tc.name, v.Transform().Scale, want)
		}
		if v.VisualScale() != visual || v.ZoomPercentage() != pct {
			t.Fatalf("%s: visual scale changed across swap: %v -> %v", tc.name, visual, v.VisualScale())
		}
		if v.Natural() != (Size{tc.newW, tc.newH}) {
			t.Fatalf("%s: natural = %v after swap", tc.name, v.Natural())
		}
	}
}

func TestAdjustForNewImageKeepsScreenPixels(t *testing.T) {
	v := New(Rect{Width: 800, Height: 600}, nil)
	v.SetImage(Size{2000, 1500}, 0)
	v.ZoomTo100()
	v.Drag(-123, 45)
	old := v.Transform()

	v.AdjustForNewImage(2000, 1500, 8000, 6000)
	tr := v.Transform()

	for _, p := range []Point{{0, 0}, {1000, 750}, {1999, 1499}} {
		want := old.ImageToScreen(p)
		got := tr.ImageToScreen(Point{p.X * 4, p.Y * 4})
		if !scalar.EqualWithinAbs(got.X, want.X, 1e-6) || !scalar.EqualWithinAbs(got.Y, want.Y, 1e-6) {
			t.Fatalf("image point %v drawn at %v after swap, want %v", p, got, want)
		}
	}
}

func TestAdjustForNewImageClampedScaleStaysConstrained(t *testing.T) {
	v := New(Rect{Width: 800, Height: 600}, nil)
	v.SetImage(Size{100, 75}, 0)
	v.SetTransform(Transform{Scale: 10, OffsetX: -100, OffsetY: -75})

	v.AdjustForNewImage(100, 75, 10, 7)

	tr := v.Transform()
	if tr.Scale != v.Config().MaxScale {
		t.Fatalf("scale = %v, want clamp at %v", tr.Scale, v.Config().MaxScale)
	}
	want := Constrain(tr.Offset(), tr.Scale, Size{10, 7}, Size{800, 600}, v.Config().OverscrollRatio)
	if tr.Offset() != want {
		t.Fatalf("offsets %v not constrained (want %v)", tr.Offset(), want)
	}
}

func TestAdjustForNewImageDegenerate(t *testing.T) {
	v := New(Rect{Width: 800, Height: 600}, nil)
	v.SetImage(Size{2000, 1500}, 0)
	tr := v.Transform()

	v.AdjustForNewImage(0, 0, 8000, 6000)
	if v.Transform() != tr {
		t.Fatalf("transform changed on unknown old size: %+v", v.Transform())
	}
	if v.Natural() != (Size{8000, 6000}) {
		t.Fatalf("natural = %v, want new size recorded", v.Natural())
	}
}
