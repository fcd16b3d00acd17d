package ui

import (
	"fmt"
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/psfguard/psfview/pkg/compare"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// scrollBound is the per-event scroll range the pane accepts.
const scrollBound = 1 << 20

var paneBackground = color.NRGBA{R: 24, G: 26, B: 32, A: 255}

// paneView hosts one engine pane: it reports its window rectangle, turns
// Gio pointer events into engine input, loads the tier the engine asks for
// and draws it under the engine transform.
type paneView struct {
	id   compare.ID
	pane *pane.Pane

	rect viewport.Rect // window coordinates, updated every frame

	requested string // URL handed to the loader
	shownURL  string
	img       image.Image
	imgOp     paint.ImageOp
	failed    bool
}

func (v *paneView) container() viewport.Rect { return v.rect }

// handlePointer drains pointer events and routes them through the
// coordinator. It reports whether the pointer is over this pane.
func (v *paneView) handlePointer(gtx layout.Context, coord *compare.Coordinator) bool {
	hovered := false
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Scroll | pointer.Move | pointer.Enter,
			ScrollY: pointer.ScrollRange{Min: -scrollBound, Max: scrollBound},
		})
		if !ok {
			break
		}
		pev, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		at := v.window(pev.Position)
		hovered = true
		switch pev.Kind {
		case pointer.Press:
			if pev.Buttons.Contain(pointer.ButtonPrimary) {
				coord.ApplyInput(v.id, input.PointerDown(at, input.ButtonPrimary))
			}
		case pointer.Drag:
			coord.ApplyInput(v.id, input.PointerMove(at))
		case pointer.Release:
			coord.ApplyInput(v.id, input.PointerUp(at, input.ButtonPrimary))
		case pointer.Scroll:
			if pev.Scroll.Y != 0 {
				coord.ApplyInput(v.id, input.Wheel(float64(pev.Scroll.Y), at))
			}
		}
	}
	return hovered
}

// window converts a pane-local Gio position to window coordinates.
func (v *paneView) window(p f32.Point) viewport.Point {
	return viewport.Point{X: v.rect.X + float64(p.X), Y: v.rect.Y + float64(p.Y)}
}

// wantURL is the tier the host should have decoded, or "" when the current
// image already matches.
func (v *paneView) wantURL() string {
	url := v.pane.DisplayURL()
	if url == "" || url == v.requested {
		return ""
	}
	return url
}

// loaded installs a decoded tier and reports it to the engine. Results for a
// URL the pane no longer displays are dropped.
func (v *paneView) loaded(url string, t tier.Tier, img image.Image, err error) error {
	if url != v.pane.DisplayURL() {
		return nil
	}
	if err != nil {
		v.failed = true
		v.pane.AssetFailed(t)
		return err
	}
	b := img.Bounds()
	v.img = img
	v.imgOp = paint.NewImageOp(img)
	v.imgOp.Filter = paint.FilterLinear
	v.shownURL = url
	v.failed = false
	v.pane.AssetLoaded(tier.ImageAsset{Tier: t, Width: b.Dx(), Height: b.Dy(), URL: url})
	return nil
}

// drawScale maps decoded pixels to screen pixels. While a new tier is still
// loading the previous decode is stretched to the displayed tier's size.
func (v *paneView) drawScale() float32 {
	t := v.pane.Transform()
	if v.img == nil {
		return 0
	}
	w := v.img.Bounds().Dx()
	if d := v.pane.DisplayedSize(); d.Valid() && w > 0 {
		return float32(t.Scale * float64(d.Width) / float64(w))
	}
	return float32(t.Scale)
}

func (v *paneView) layout(gtx layout.Context, th *material.Theme, active bool) layout.Dimensions {
	size := gtx.Constraints.Max
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, paneBackground)
	event.Op(gtx.Ops, v)
	v.cursor().Add(gtx.Ops)

	if s := v.drawScale(); s > 0 {
		t := v.pane.Transform()
		aff := f32.Affine2D{}.
			Scale(f32.Point{}, f32.Pt(s, s)).
			Offset(f32.Pt(float32(t.OffsetX), float32(t.OffsetY)))
		stack := op.Affine(aff).Push(gtx.Ops)
		v.imgOp.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		stack.Pop()
	}

	if active {
		border := color.NRGBA{R: 80, G: 120, B: 255, A: 255}
		paint.FillShape(gtx.Ops, border, clip.Stroke{
			Path:  clip.Rect{Max: size}.Path(),
			Width: float32(gtx.Dp(unit.Dp(2))),
		}.Op())
	}

	layout.NW.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(th, v.caption())
			lbl.Color = color.NRGBA{R: 230, G: 232, B: 240, A: 255}
			return lbl.Layout(gtx)
		})
	})
	return layout.Dimensions{Size: size}
}

// cursor shows a grab hand while the image can be panned.
func (v *paneView) cursor() pointer.Cursor {
	switch {
	case v.pane.Dragging():
		return pointer.CursorGrabbing
	case v.pane.HasOverflow():
		return pointer.CursorGrab
	}
	return pointer.CursorDefault
}

func (v *paneView) caption() string {
	if !v.pane.HasImage() {
		return fmt.Sprintf("%s: no image", v.id)
	}
	key := v.pane.Key()
	s := fmt.Sprintf("%s  %s  %d%%  %s", key.Identity, key.Mode, v.pane.ZoomPercentage(), v.pane.State())
	switch {
	case v.pane.LoadError():
		s += "  (load failed)"
	case v.pane.Preloading() && !v.pane.OriginalLoaded():
		s += "  (preloading original)"
	}
	return s
}

// modifiers converts Gio modifiers to engine modifiers.
func modifiers(m key.Modifiers) input.Modifiers {
	var out input.Modifiers
	if m.Contain(key.ModShift) {
		out |= input.ModShift
	}
	if m.Contain(key.ModCtrl) {
		out |= input.ModCtrl
	}
	if m.Contain(key.ModAlt) {
		out |= input.ModAlt
	}
	if m.Contain(key.ModSuper) || m.Contain(key.ModCommand) {
		out |= input.ModMeta
	}
	return out
}
