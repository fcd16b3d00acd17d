package viewport

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return positive(s.Width) && positive(s.Height)
}

// Scale returns the size multiplied by k.
func (s Size) Scale(k float64) Size {
	return Size{Width: s.Width * k, Height: s.Height * k}
}

// Point is a position in pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Rect is an axis-aligned rectangle. For a container, X and Y locate it in
// window coordinates; viewport math only uses its size.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Bounds lets a fixed Rect act as a Container.
func (r Rect) Bounds() Rect { return r }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Container is the host element a viewport draws into. It is queried on
// every operation, so resizes are picked up without notification.
type Container interface {
	Bounds() Rect
}

// ContainerFunc adapts a function to the Container interface.
type ContainerFunc func() Rect

// Bounds calls f.
func (f ContainerFunc) Bounds() Rect { return f() }

// Transform is what the host applies when drawing the displayed tier.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity is the degenerate-geometry fallback transform.
var Identity = Transform{Scale: 1}

// Offset returns the translation part of the transform.
func (t Transform) Offset() Point { return Point{X: t.OffsetX, Y: t.OffsetY} }

// ImageToScreen maps an image pixel to container-local screen coordinates.
func (t Transform) ImageToScreen(p Point) Point {
	return Point{X: p.X*t.Scale + t.OffsetX, Y: p.Y*t.Scale + t.OffsetY}
}

// ScreenToImage maps a container-local screen point back to image pixels.
func (t Transform) ScreenToImage(p Point) Point {
	if !positive(t.Scale) {
		return p
	}
	return Point{X: (p.X - t.OffsetX) / t.Scale, Y: (p.Y - t.OffsetY) / t.Scale}
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
