// Package config loads the viewer's TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/psfguard/psfview/pkg/pane"
	"github.com/psfguard/psfview/pkg/tier"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Duration is a time.Duration written as a string such as "300ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Server addresses the image server.
type Server struct {
	BaseURL  string   `toml:"base_url"`
	MaxStars int      `toml:"max_stars"`
	Stretch  bool     `toml:"stretch"`
	Timeout  Duration `toml:"timeout"`
}

// Viewport holds zoom and pan tunables.
type Viewport struct {
	MinScale         float64  `toml:"min_scale"`
	MaxScale         float64  `toml:"max_scale"`
	FitPadding       float64  `toml:"fit_padding"`
	ZoomStep         float64  `toml:"zoom_step"`
	WheelStepFactor  float64  `toml:"wheel_step_factor"`
	Overscroll       float64  `toml:"overscroll"`
	UserZoomCooldown Duration `toml:"user_zoom_cooldown"`
}

// Resolution holds the tier switching tunables.
type Resolution struct {
	BaseTier         string   `toml:"base_tier"`
	PreloadThreshold float64  `toml:"preload_threshold"`
	UpgradeThreshold float64  `toml:"upgrade_threshold"`
	SettleDelay      Duration `toml:"settle_delay"`
}

// UI holds window settings of the interactive viewer.
type UI struct {
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	Sync   bool `toml:"sync"`
}

// Config is the whole configuration file.
type Config struct {
	Server     Server     `toml:"server"`
	Viewport   Viewport   `toml:"viewport"`
	Resolution Resolution `toml:"resolution"`
	UI         UI         `toml:"ui"`
}

// New returns the default configuration.
func New() *Config {
	def := pane.DefaultConfig()
	vp := def.Viewport
	return &Config{
		Server: Server{
			BaseURL: "http://localhost:3000",
			Stretch: true,
			Timeout: Duration{30 * time.Second},
		},
		Viewport: Viewport{
			MinScale:         vp.MinScale,
			MaxScale:         vp.MaxScale,
			FitPadding:       vp.FitPadding,
			ZoomStep:         vp.ZoomStep,
			WheelStepFactor:  vp.WheelStepFactor,
			Overscroll:       vp.OverscrollRatio,
			UserZoomCooldown: Duration{vp.UserZoomCooldown},
		},
		Resolution: Resolution{
			BaseTier:         def.BaseTier.String(),
			PreloadThreshold: def.PreloadThreshold,
			UpgradeThreshold: def.UpgradeThreshold,
			SettleDelay:      Duration{def.SettleDelay},
		},
		UI: UI{Width: 1600, Height: 900},
	}
}

// Parse reads a TOML document from r on top of the defaults. Keys the file
// leaves out keep their default values; unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	c := New()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalid, undecoded[0].String())
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values Engine and Resolver cannot repair themselves.
func (c *Config) Validate() error {
	if _, err := tier.ParseTier(c.Resolution.BaseTier); err != nil {
		return fmt.Errorf("%w: resolution.base_tier: %v", ErrInvalid, err)
	}
	if _, err := c.Resolver(); err != nil {
		return fmt.Errorf("%w: server: %v", ErrInvalid, err)
	}
	if _, err := c.Engine(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.UI.Width < 0 || c.UI.Height < 0 {
		return fmt.Errorf("%w: ui size %dx%d", ErrInvalid, c.UI.Width, c.UI.Height)
	}
	return nil
}

// Engine converts the [viewport] and [resolution] sections to a validated
// pane configuration.
func (c *Config) Engine() (*pane.Config, error) {
	base, err := tier.ParseTier(c.Resolution.BaseTier)
	if err != nil {
		return nil, err
	}
	e := pane.DefaultConfig()
	e.Viewport.MinScale = c.Viewport.MinScale
	e.Viewport.MaxScale = c.Viewport.MaxScale
	e.Viewport.FitPadding = c.Viewport.FitPadding
	e.Viewport.ZoomStep = c.Viewport.ZoomStep
	e.Viewport.WheelStepFactor = c.Viewport.WheelStepFactor
	e.Viewport.OverscrollRatio = c.Viewport.Overscroll
	e.Viewport.UserZoomCooldown = c.Viewport.UserZoomCooldown.Duration
	e.PreloadThreshold = c.Resolution.PreloadThreshold
	e.UpgradeThreshold = c.Resolution.UpgradeThreshold
	e.SettleDelay = c.Resolution.SettleDelay.Duration
	e.BaseTier = base
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Resolver builds the tier URL resolver for the [server] section.
func (c *Config) Resolver() (*tier.HTTPResolver, error) {
	return tier.NewHTTPResolver(tier.ServerOptions{
		BaseURL:  c.Server.BaseURL,
		MaxStars: c.Server.MaxStars,
		Stretch:  c.Server.Stretch,
	})
}

// String returns the configuration as a TOML document.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("# encode: %v\n", err)
	}
	return buf.String()
}
