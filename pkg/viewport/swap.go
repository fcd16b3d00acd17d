package viewport

// AdjustForNewImage keeps the picture still when the displayed tier is
// replaced by one of a different decoded size.
//
// The scale is multiplied by oldW/newW so the on-screen footprint is
// unchanged, and the offsets are solved so the image point under the
// container center before the call (rescaled by newW/oldW) stays under it.
// The width ratio is applied to both axes; tiers share an aspect ratio up to
// rounding. The visual scale is held as is.
//
// The offsets are only constrained again when the new scale had to be
// clamped, since an unclamped swap leaves the screen footprint unchanged.
func (v *Viewport) AdjustForNewImage(oldW, oldH, newW, newH float64) {
	newSize := Size{Width: newW, Height: newH}
	if !positive(oldW) || !positive(oldH) || !newSize.Valid() {
		if newSize.Valid() {
			v.natural = newSize
		}
		return
	}

	c := v.containerSize()
	v.natural = newSize
	if !c.Valid() {
		return
	}

	ratio := newW / oldW
	center := Point{X: c.Width / 2, Y: c.Height / 2}
	p := v.t.ScreenToImage(center)
	p = Point{X: p.X * ratio, Y: p.Y * ratio}

	want := v.t.Scale * oldW / newW
	scale := v.cfg.clamp(want)

	v.t.Scale = scale
	v.t.OffsetX = center.X - p.X*scale
	v.t.OffsetY = center.Y - p.Y*scale

	if scale != want {
		off := Constrain(v.t.Offset(), scale, v.natural, c, v.cfg.OverscrollRatio)
		v.t.OffsetX, v.t.OffsetY = off.X, off.Y
		v.updateVisual()
	}
}
