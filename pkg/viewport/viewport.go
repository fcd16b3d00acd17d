package viewport

import (
	"math"
	"time"
)

// Viewport is the transform state of one pane.
type Viewport struct {
	cfg       Config
	container Container
	now       func() time.Time

	natural        Size    // decoded size of the displayed tier
	canonicalWidth float64 // Original tier width, 0 while unknown

	t      Transform
	visual float64

	lastUserZoom time.Time

	// pendingUserZoom is the visual scale of a user zoom that suppressed an
	// automatic reset. While set it wins over Fit when the next image is
	// laid out.
	pendingUserZoom    float64
	hasPendingUserZoom bool
}

// New creates a viewport drawing into c. A nil cfg selects DefaultConfig.
func New(c Container, cfg *Config, opts ...Option) *Viewport {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	conf := *cfg
	_ = conf.Validate()
	if conf.MinScale > conf.MaxScale {
		conf.MinScale, conf.MaxScale = conf.MaxScale, conf.MinScale
	}
	return &Viewport{
		cfg:       conf,
		container: c,
		now:       o.now,
		t:         Identity,
		visual:    1,
	}
}

// Config returns the viewport's effective configuration.
func (v *Viewport) Config() Config { return v.cfg }

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.t }

// VisualScale is the zoom relative to the canonical width.
func (v *Viewport) VisualScale() float64 { return v.visual }

// Natural returns the decoded size of the displayed tier.
func (v *Viewport) Natural() Size { return v.natural }

// CanonicalWidth returns the Original tier width, or 0 while unknown.
func (v *Viewport) CanonicalWidth() float64 { return v.canonicalWidth }

// PendingUserZoom reports the visual scale carried across a suppressed reset.
func (v *Viewport) PendingUserZoom() (float64, bool) {
	return v.pendingUserZoom, v.hasPendingUserZoom
}

// ZoomPercentage is the visual scale as a rounded integer percent.
func (v *Viewport) ZoomPercentage() int {
	return int(math.Round(v.visual * 100))
}

// HasOverflow reports whether the scaled image exceeds the container on
// either axis.
func (v *Viewport) HasOverflow() bool {
	c := v.containerSize()
	if !c.Valid() || !v.natural.Valid() {
		return false
	}
	scaled := v.natural.Scale(v.t.Scale)
	return scaled.Width > c.Width || scaled.Height > c.Height
}

// SetImage lays out a new image identity. natural may be zero when the size
// is not known yet; canonicalWidth may be zero when the Original tier size is
// unknown.
//
// If the user zoomed within the cooldown, the reset to fit is suppressed:
// the current transform is kept and its visual scale is stored as the pending
// user zoom, which is then applied instead of fit once the size is known.
func (v *Viewport) SetImage(natural Size, canonicalWidth float64) {
	if v.userZoomRecent() {
		if !v.hasPendingUserZoom {
			v.pendingUserZoom = v.visual
			v.hasPendingUserZoom = true
		}
	} else {
		v.hasPendingUserZoom = false
	}

	v.natural = natural
	v.canonicalWidth = 0
	if positive(canonicalWidth) {
		v.canonicalWidth = canonicalWidth
	}

	if !natural.Valid() {
		if !v.hasPendingUserZoom {
			v.t = Identity
			v.visual = 1
		}
		return
	}
	v.layout()
}

// SetNatural records the decoded size of an image whose size was unknown
// when SetImage ran, and lays it out.
func (v *Viewport) SetNatural(natural Size) {
	v.natural = natural
	if !natural.Valid() {
		return
	}
	v.layout()
}

// SetCanonicalWidth records the Original tier width and recomputes the
// visual scale. The transform itself does not change.
func (v *Viewport) SetCanonicalWidth(w float64) {
	if !positive(w) {
		return
	}
	v.canonicalWidth = w
	v.updateVisual()
}

func (v *Viewport) layout() {
	if v.hasPendingUserZoom {
		v.applyPendingUserZoom()
		return
	}
	v.fit()
}

func (v *Viewport) applyPendingUserZoom() {
	target := v.pendingUserZoom
	v.hasPendingUserZoom = false

	scale := target
	if positive(v.canonicalWidth) && v.natural.Valid() {
		scale = target * v.canonicalWidth / v.natural.Width
	}
	v.center(v.cfg.clamp(scale))
}

// ZoomToFit scales the image to fit the container and centers it.
func (v *Viewport) ZoomToFit() {
	if !v.geometryValid() {
		v.degenerate()
		return
	}
	v.fit()
}

// ResetZoom fits the image and forgets any recent user zoom, so the next
// image change resets normally.
func (v *Viewport) ResetZoom() {
	v.lastUserZoom = time.Time{}
	v.hasPendingUserZoom = false
	v.ZoomToFit()
}

// ZoomTo100 shows the displayed tier at one image pixel per screen pixel,
// centered.
func (v *Viewport) ZoomTo100() {
	v.markUserZoom()
	if !v.geometryValid() {
		v.degenerate()
		return
	}
	v.center(v.cfg.clamp(1))
}

// ZoomIn increases the scale by one step around the container center.
func (v *Viewport) ZoomIn() {
	v.zoomStep(v.cfg.ZoomStep)
}

// ZoomOut decreases the scale by one step around the container center.
func (v *Viewport) ZoomOut() {
	v.zoomStep(-v.cfg.ZoomStep)
}

func (v *Viewport) zoomStep(step float64) {
	v.markUserZoom()
	if !v.geometryValid() {
		v.degenerate()
		return
	}
	c := v.containerSize()
	v.zoomAround(Point{X: c.Width / 2, Y: c.Height / 2}, v.cfg.clamp(v.t.Scale+step))
}

// Wheel zooms by a scroll delta around cursor (container-local). Negative
// deltaY zooms in.
func (v *Viewport) Wheel(deltaY float64, cursor Point) {
	if !finite(deltaY) || deltaY == 0 {
		return
	}
	v.markUserZoom()
	if !v.geometryValid() {
		v.degenerate()
		return
	}
	if !finite(cursor.X) || !finite(cursor.Y) {
		c := v.containerSize()
		cursor = Point{X: c.Width / 2, Y: c.Height / 2}
	}
	delta := -0.01 * deltaY * v.cfg.WheelStepFactor
	v.zoomAround(cursor, v.cfg.clamp(v.t.Scale+delta))
}

// Drag pans by a screen delta.
func (v *Viewport) Drag(dx, dy float64) {
	if !v.geometryValid() {
		v.degenerate()
		return
	}
	if !finite(dx) {
		dx = 0
	}
	if !finite(dy) {
		dy = 0
	}
	v.setOffset(v.t.Offset().Add(Point{X: dx, Y: dy}))
}

// SetTransform replaces the transform verbatim. Sync mode uses it to force a
// follower to equal its leader; the visual scale is recomputed from this
// viewport's own image.
func (v *Viewport) SetTransform(t Transform) {
	if !positive(t.Scale) || !finite(t.OffsetX) || !finite(t.OffsetY) {
		return
	}
	v.t = t
	v.updateVisual()
}

// zoomAround changes the scale keeping the image point under anchor fixed.
func (v *Viewport) zoomAround(anchor Point, scale float64) {
	old := v.t.Scale
	if !positive(old) {
		old = 1
	}
	k := scale / old
	off := Point{
		X: anchor.X - k*(anchor.X-v.t.OffsetX),
		Y: anchor.Y - k*(anchor.Y-v.t.OffsetY),
	}
	v.t.Scale = scale
	v.setOffset(off)
}

func (v *Viewport) fit() {
	scale := v.cfg.clamp(Fit(v.containerSize(), v.natural, v.cfg.FitPadding))
	v.center(scale)
}

func (v *Viewport) center(scale float64) {
	c := v.containerSize()
	v.t.Scale = scale
	if !c.Valid() || !v.natural.Valid() {
		v.t.OffsetX, v.t.OffsetY = 0, 0
		v.updateVisual()
		return
	}
	v.setOffset(Point{
		X: (c.Width - v.natural.Width*scale) / 2,
		Y: (c.Height - v.natural.Height*scale) / 2,
	})
}

func (v *Viewport) setOffset(p Point) {
	p = Constrain(p, v.t.Scale, v.natural, v.containerSize(), v.cfg.OverscrollRatio)
	v.t.OffsetX, v.t.OffsetY = p.X, p.Y
	v.updateVisual()
}

func (v *Viewport) updateVisual() {
	if positive(v.canonicalWidth) && v.natural.Valid() {
		v.visual = v.t.Scale * v.natural.Width / v.canonicalWidth
		return
	}
	v.visual = v.t.Scale
}

func (v *Viewport) degenerate() {
	v.t = Identity
	v.updateVisual()
}

func (v *Viewport) markUserZoom() {
	v.lastUserZoom = v.now()
}

func (v *Viewport) userZoomRecent() bool {
	if v.lastUserZoom.IsZero() || v.cfg.UserZoomCooldown <= 0 {
		return false
	}
	return v.now().Sub(v.lastUserZoom) < v.cfg.UserZoomCooldown
}

func (v *Viewport) geometryValid() bool {
	return v.containerSize().Valid() && v.natural.Valid()
}

func (v *Viewport) containerSize() Size {
	if v.container == nil {
		return Size{}
	}
	return v.container.Bounds().Size()
}
