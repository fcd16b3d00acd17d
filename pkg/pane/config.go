package pane

import (
	"fmt"
	"time"

	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// Config controls one pane's zoom behaviour and tier switching.
type Config struct {
	Viewport viewport.Config

	PreloadThreshold float64       // visual scale at which Original starts downloading (default: 0.8)
	UpgradeThreshold float64       // visual scale above which Original is shown (default: 1.0)
	SettleDelay      time.Duration // SwitchingToOriginal dwell time (default: 300ms)
	BaseTier         tier.Tier     // tier shown before the upgrade (default: Large)
}

// DefaultConfig returns the standard pane settings.
func DefaultConfig() *Config {
	return &Config{
		Viewport:         *viewport.DefaultConfig(),
		PreloadThreshold: 0.8,
		UpgradeThreshold: 1.0,
		SettleDelay:      300 * time.Millisecond,
		BaseTier:         tier.Large,
	}
}

// Validate clamps unusable values and checks that the preload threshold does
// not exceed the upgrade threshold.
func (c *Config) Validate() error {
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	def := DefaultConfig()
	if c.PreloadThreshold <= 0 {
		c.PreloadThreshold = def.PreloadThreshold
	}
	if c.UpgradeThreshold <= 0 {
		c.UpgradeThreshold = def.UpgradeThreshold
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
	if c.BaseTier == tier.Original {
		return fmt.Errorf("pane: base tier must be cheaper than %s", tier.Original)
	}
	if c.PreloadThreshold > c.UpgradeThreshold {
		return fmt.Errorf("pane: preload threshold %g exceeds upgrade threshold %g", c.PreloadThreshold, c.UpgradeThreshold)
	}
	return nil
}
