// Package viewport holds the per-pane geometric state of the image viewer:
// the transform the host applies when drawing the current tier, plus the
// zoom and pan operations that mutate it.
//
// Coordinates are container-local pixels. A Transform maps an image pixel p
// of the displayed tier to the screen point p*Scale + Offset. The visual
// scale is the same zoom expressed against the canonical (Original tier)
// width, so it does not change when a different tier is swapped in.
//
// Every operation leaves Scale within [MinScale, MaxScale] and the offsets
// within the Constrain policy. Degenerate geometry (an unknown container or
// image size) never errors; the transform falls back to scale 1 and zero
// offsets.
package viewport
