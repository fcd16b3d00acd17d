// Package pane ties one viewport, its resolution state machine and its
// Original-tier preloader to a single image slot of the viewer.
//
// A Pane is driven from one thread of control (its eventloop.Dispatcher).
// The host reports image loads and input; the pane updates its transform,
// decides which tier to show, and notifies observers.
package pane

import (
	"context"
	"log/slog"

	"github.com/psfguard/psfview/internal/logging"
	"github.com/psfguard/psfview/pkg/eventloop"
	"github.com/psfguard/psfview/pkg/input"
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// Deps are the collaborators a Pane needs.
type Deps struct {
	Context    context.Context
	Dispatcher eventloop.Dispatcher
	Container  viewport.Container
	Resolver   tier.Resolver
	Fetcher    tier.Fetcher
	Canonical  *tier.CanonicalStore // shared between panes; created if nil
	KeyMap     input.KeyMap         // DefaultKeyMap if nil
}

// Pane is one image slot of the viewer.
type Pane struct {
	name string
	cfg  Config
	deps Deps
	log  *slog.Logger

	vp      *viewport.Viewport
	machine *resolution.Machine
	pre     *resolution.Preloader

	hasImage  bool
	displayed tier.Dimensions // decoded size of the tier being rendered
	loaded    bool            // displayed came from a load, not a prediction
	loadError bool

	cancelSettle eventloop.CancelFunc

	syncMode  bool
	peerState resolution.State

	dragging    bool
	lastPointer viewport.Point

	transformObservers []func(viewport.Transform)
	stateObservers     []func(resolution.State)
}

// New creates an empty pane. A nil cfg selects DefaultConfig.
func New(name string, deps Deps, cfg *Config) *Pane {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	conf := *cfg
	if err := conf.Validate(); err != nil {
		conf = *DefaultConfig()
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Canonical == nil {
		deps.Canonical = tier.NewCanonicalStore(0)
	}
	if deps.KeyMap == nil {
		deps.KeyMap = input.DefaultKeyMap()
	}

	p := &Pane{
		name:    name,
		cfg:     conf,
		deps:    deps,
		log:     logging.For("pane").With("pane", name),
		machine: resolution.NewMachine(resolution.Key{}),
	}
	p.vp = viewport.New(deps.Container, &conf.Viewport, viewport.WithClock(deps.Dispatcher.Now))
	p.pre = resolution.NewPreloader(deps.Context, deps.Dispatcher, deps.Resolver, deps.Fetcher, p.preloadDone)
	return p
}

// Name returns the pane's label.
func (p *Pane) Name() string { return p.name }

// Config returns the effective configuration.
func (p *Pane) Config() Config { return p.cfg }

// Container returns the element the pane draws into.
func (p *Pane) Container() viewport.Container { return p.deps.Container }

// Viewport exposes the underlying viewport for read access.
func (p *Pane) Viewport() *viewport.Viewport { return p.vp }

// Transform is what the host applies when drawing DisplayURL.
func (p *Pane) Transform() viewport.Transform { return p.vp.Transform() }

// VisualScale is the zoom relative to the Original tier.
func (p *Pane) VisualScale() float64 { return p.vp.VisualScale() }

// ZoomPercentage is the visual scale as an integer percent.
func (p *Pane) ZoomPercentage() int { return p.vp.ZoomPercentage() }

// HasOverflow reports whether the image exceeds the container.
func (p *Pane) HasOverflow() bool { return p.vp.HasOverflow() }

// State returns the resolution state.
func (p *Pane) State() resolution.State { return p.machine.State() }

// History returns the resolution states seen for the current image.
func (p *Pane) History() []resolution.State { return p.machine.History() }

// Key returns the current image identity and display mode.
func (p *Pane) Key() resolution.Key { return p.machine.Key() }

// HasImage reports whether SetImage was called.
func (p *Pane) HasImage() bool { return p.hasImage }

// LoadError reports whether the displayed tier failed to load.
func (p *Pane) LoadError() bool { return p.loadError }

// Preloading reports whether an Original fetch was issued for the current
// image.
func (p *Pane) Preloading() bool { return p.pre.Requested() }

// OriginalLoaded reports whether the Original tier finished preloading.
func (p *Pane) OriginalLoaded() bool { return p.pre.Loaded() }

// DisplayTier is the tier the host should render.
func (p *Pane) DisplayTier() tier.Tier {
	return p.machine.State().DisplayTier(p.cfg.BaseTier)
}

// DisplayURL is the URL of DisplayTier, or "" before an image is set.
func (p *Pane) DisplayURL() string {
	if !p.hasImage {
		return ""
	}
	key := p.machine.Key()
	return p.deps.Resolver.URL(key.Identity, p.DisplayTier(), key.Mode)
}

// DisplayedSize is the decoded size of the rendered tier, predicted from
// the canonical size until the host reports a load.
func (p *Pane) DisplayedSize() tier.Dimensions { return p.displayed }

// OnTransform registers fn to run after every transform change.
func (p *Pane) OnTransform(fn func(viewport.Transform)) {
	p.transformObservers = append(p.transformObservers, fn)
}

// OnState registers fn to run after every resolution state change.
func (p *Pane) OnState(fn func(resolution.State)) {
	p.stateObservers = append(p.stateObservers, fn)
}

func (p *Pane) notifyTransform() {
	t := p.vp.Transform()
	for _, fn := range p.transformObservers {
		fn(t)
	}
}

func (p *Pane) notifyState(s resolution.State) {
	for _, fn := range p.stateObservers {
		fn(s)
	}
}

// AssetReady reports whether the displayed size came from a completed load
// rather than a prediction.
func (p *Pane) AssetReady() bool { return p.loaded }
