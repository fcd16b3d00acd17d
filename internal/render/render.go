// Package render rasterizes a pane's view of an image with the gg software
// renderer, for snapshots and headless checks.
package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/psfguard/psfview/pkg/viewport"
)

// Options controls a snapshot.
type Options struct {
	Background gg.RGBA
	Nearest    bool // nearest-neighbour sampling instead of bilinear
}

// DefaultOptions renders on the viewer's dark background with bilinear
// sampling.
func DefaultOptions() Options {
	return Options{Background: gg.Hex("#1e1e1e")}
}

// Load decodes the image at path. TIFF, PNG, JPEG, WebP and BMP are
// supported.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("render: decode %s: %w", path, err)
	}
	return img, nil
}

// Visible returns the part of an image of the given size that t maps into a
// container of width x height, in image pixels. The result is empty when
// nothing is visible.
func Visible(size image.Point, width, height int, t viewport.Transform) image.Rectangle {
	if t.Scale <= 0 || width <= 0 || height <= 0 {
		return image.Rectangle{}
	}
	tl := t.ScreenToImage(viewport.Point{})
	br := t.ScreenToImage(viewport.Point{X: float64(width), Y: float64(height)})
	r := image.Rect(
		int(math.Floor(tl.X)), int(math.Floor(tl.Y)),
		int(math.Ceil(br.X)), int(math.Ceil(br.Y)),
	)
	return r.Intersect(image.Rectangle{Max: size})
}

// Snapshot draws img into a width x height canvas under transform t. Only
// the visible part of the source is sampled. The caller closes the returned
// context.
func Snapshot(img image.Image, width, height int, t viewport.Transform, opts Options) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: canvas %dx%d must be positive", width, height)
	}
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(opts.Background)
	if img == nil {
		return dc, nil
	}

	b := img.Bounds()
	src := Visible(b.Size(), width, height, t)
	if src.Empty() {
		return dc, nil
	}
	buf := gg.ImageBufFromImage(img)

	interp := gg.InterpBilinear
	if opts.Nearest {
		interp = gg.InterpNearest
	}
	dst := t.ImageToScreen(viewport.Point{X: float64(src.Min.X), Y: float64(src.Min.Y)})
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             dst.X,
		Y:             dst.Y,
		DstWidth:      float64(src.Dx()) * t.Scale,
		DstHeight:     float64(src.Dy()) * t.Scale,
		SrcRect:       &src,
		Interpolation: interp,
	})
	return dc, nil
}

// WritePNG renders a snapshot and encodes it to w.
func WritePNG(w io.Writer, img image.Image, width, height int, t viewport.Transform, opts Options) error {
	dc, err := Snapshot(img, width, height, t, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
