// Package tier describes the resolution variants the image server renders
// for one picture, how to address them, and what their sizes are.
package tier

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTier is reported by ParseTier for names the server does not know.
var ErrUnknownTier = errors.New("tier: unknown tier")

// Tier is one resolution variant of an image.
type Tier uint8

const (
	Screen Tier = iota
	Large
	Original
)

var tierNames = map[Tier]string{
	Screen:   "screen",
	Large:    "large",
	Original: "original",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", t)
}

// All lists the tiers from cheapest to most expensive.
func All() []Tier {
	return []Tier{Screen, Large, Original}
}

// ParseTier maps a server size name to a Tier. Unknown names resolve to
// Screen, the server's own fallback, and ErrUnknownTier is returned with it.
func ParseTier(s string) (Tier, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range tierNames {
		if n == name {
			return t, nil
		}
	}
	return Screen, fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// MaxDimension returns the bound the server resizes a tier to, in pixels on
// the longer side. Original is not resized.
func MaxDimension(t Tier) (int, bool) {
	switch t {
	case Large:
		return 2000, true
	case Original:
		return 0, false
	default:
		return 1200, true
	}
}

// DisplayMode selects the plain stretched preview or the star-annotated
// rendering of an image.
type DisplayMode uint8

const (
	Plain DisplayMode = iota
	Annotated
)

func (m DisplayMode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Annotated:
		return "annotated"
	}
	return fmt.Sprintf("DisplayMode(%d)", m)
}

// ParseDisplayMode accepts "plain" and "annotated".
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "":
		return Plain, nil
	case "annotated":
		return Annotated, nil
	}
	return Plain, fmt.Errorf("tier: unknown display mode %q", s)
}

// Dimensions is a decoded pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (d Dimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ParseDimensions parses "WxH".
func ParseDimensions(s string) (Dimensions, error) {
	var d Dimensions
	if _, err := fmt.Sscanf(strings.ToLower(strings.TrimSpace(s)), "%dx%d", &d.Width, &d.Height); err != nil {
		return Dimensions{}, fmt.Errorf("tier: parse dimensions %q: %w", s, err)
	}
	if !d.Valid() {
		return Dimensions{}, fmt.Errorf("tier: dimensions %q must be positive", s)
	}
	return d, nil
}

// PredictSize returns the size the server produces for tier t of an image
// whose Original tier is canonical. The longer side is bounded by
// MaxDimension and the aspect ratio kept, truncating the shorter side.
func PredictSize(t Tier, canonical Dimensions) Dimensions {
	limit, bounded := MaxDimension(t)
	if !bounded || !canonical.Valid() {
		return canonical
	}
	if canonical.Width <= limit && canonical.Height <= limit {
		return canonical
	}
	w, h := float64(canonical.Width), float64(canonical.Height)
	if canonical.Width > canonical.Height {
		return Dimensions{Width: limit, Height: int(float64(limit) * h / w)}
	}
	return Dimensions{Width: int(float64(limit) * w / h), Height: limit}
}

// ImageAsset is one loaded tier of an image.
type ImageAsset struct {
	Tier   Tier
	Width  int
	Height int
	URL    string
}

// Dimensions returns the asset's decoded size.
func (a ImageAsset) Dimensions() Dimensions {
	return Dimensions{Width: a.Width, Height: a.Height}
}
