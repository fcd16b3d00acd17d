package viewport

import (
	"fmt"
	"time"
)

// Config holds the tunables of a Viewport.
type Config struct {
	MinScale float64 // lower bound on Transform.Scale (default: 0.01)
	MaxScale float64 // upper bound on Transform.Scale (default: 20)

	FitPadding      float64 // pixels subtracted from each container side by Fit (default: 20)
	ZoomStep        float64 // additive step of ZoomIn/ZoomOut (default: 0.2)
	WheelStepFactor float64 // multiplier on 0.01 per wheel delta unit (default: 1)
	OverscrollRatio float64 // allowed pan past an edge, as a share of the scaled size (default: 0.1)

	// UserZoomCooldown is how long after an explicit zoom an automatic
	// reset is suppressed (default: 2s).
	UserZoomCooldown time.Duration
}

// DefaultConfig returns the viewer's standard viewport settings.
func DefaultConfig() *Config {
	return &Config{
		MinScale:         0.01,
		MaxScale:         20,
		FitPadding:       20,
		ZoomStep:         0.2,
		WheelStepFactor:  1,
		OverscrollRatio:  0.1,
		UserZoomCooldown: 2 * time.Second,
	}
}

// Validate replaces unusable values with defaults and reports an error when
// the scale bounds are inverted.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if !positive(c.MinScale) {
		c.MinScale = def.MinScale
	}
	if !positive(c.MaxScale) {
		c.MaxScale = def.MaxScale
	}
	if !finite(c.FitPadding) || c.FitPadding < 0 {
		c.FitPadding = def.FitPadding
	}
	if !positive(c.ZoomStep) {
		c.ZoomStep = def.ZoomStep
	}
	if !positive(c.WheelStepFactor) {
		c.WheelStepFactor = def.WheelStepFactor
	}
	if !finite(c.OverscrollRatio) || c.OverscrollRatio < 0 {
		c.OverscrollRatio = def.OverscrollRatio
	}
	if c.UserZoomCooldown < 0 {
		c.UserZoomCooldown = 0
	}

	if c.MinScale > c.MaxScale {
		return fmt.Errorf("viewport: min scale %g exceeds max scale %g", c.MinScale, c.MaxScale)
	}
	return nil
}

func (c *Config) clamp(scale float64) float64 {
	if !finite(scale) {
		scale = 1
	}
	if scale < c.MinScale {
		return c.MinScale
	}
	if scale > c.MaxScale {
		return c.MaxScale
	}
	return scale
}
