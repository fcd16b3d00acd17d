package pane

import (
	"github.com/psfguard/psfview/pkg/resolution"
	"github.com/psfguard/psfview/pkg/tier"
	"github.com/psfguard/psfview/pkg/viewport"
)

// SetImage switches the pane to identity in the given display mode. hint is
// the Original size from image metadata, or zero when unknown. Setting the
// current identity and mode again does nothing.
//
// A change resets the resolution state to Large, clears the preload and lays
// the image out at fit, unless a recent user zoom takes precedence.
func (p *Pane) SetImage(identity string, mode tier.DisplayMode, hint tier.Dimensions) {
	key := resolution.Key{Identity: identity, Mode: mode}
	if p.hasImage && key == p.machine.Key() {
		return
	}
	p.hasImage = true

	p.stopSettle()
	prev := p.machine.State()
	p.machine.Reset(key)
	p.pre.Reset(key)
	p.loadError = false
	p.loaded = false
	p.dragging = false

	canonical := p.deps.Canonical.Learn(identity, hint)
	p.displayed = tier.Dimensions{}
	if canonical.Valid() {
		p.displayed = tier.PredictSize(p.cfg.BaseTier, canonical)
	}
	p.vp.SetImage(toSize(p.displayed), float64(canonical.Width))

	p.log.Debug("image set", "key", key.String(), "canonical", canonical.String(), "url", p.DisplayURL())
	if prev != p.machine.State() {
		p.notifyState(p.machine.State())
	}
	p.notifyTransform()
	p.evaluate()
}

// AssetLoaded reports the decoded size of a tier the host finished loading.
// Loads of a tier other than DisplayTier, or of another URL, are stale and
// ignored.
func (p *Pane) AssetLoaded(asset tier.ImageAsset) {
	if !p.hasImage || asset.Tier != p.DisplayTier() {
		return
	}
	if asset.URL != "" && asset.URL != p.DisplayURL() {
		return
	}
	size := asset.Dimensions()
	if !size.Valid() {
		return
	}

	p.loadError = false
	p.loaded = true
	identity := p.machine.Key().Identity

	if p.displayed.Valid() {
		p.swapTo(size)
		if asset.Tier == tier.Original {
			p.learnCanonical(identity, size)
		}
	} else {
		if asset.Tier == tier.Original {
			p.learnCanonical(identity, size)
		}
		p.displayed = size
		p.vp.SetNatural(toSize(size))
	}

	p.notifyTransform()
	p.evaluate()
}

// AssetFailed reports that the host could not load tier t. A failure of the
// displayed tier freezes transform input until a load succeeds.
func (p *Pane) AssetFailed(t tier.Tier) {
	if !p.hasImage || t != p.DisplayTier() {
		return
	}
	p.loadError = true
	p.dragging = false
	p.log.Warn("asset load failed", "key", p.machine.Key().String(), "tier", t.String())
}

// swapTo keeps the picture still while the rendered tier changes size.
func (p *Pane) swapTo(size tier.Dimensions) {
	if size == p.displayed {
		return
	}
	old := p.displayed
	p.vp.AdjustForNewImage(float64(old.Width), float64(old.Height), float64(size.Width), float64(size.Height))
	p.displayed = size
}

func (p *Pane) learnCanonical(identity string, size tier.Dimensions) {
	canonical := p.deps.Canonical.Learn(identity, size)
	p.vp.SetCanonicalWidth(float64(canonical.Width))
}

func (p *Pane) preloadDone(o resolution.Outcome) {
	if o.Err != nil {
		return
	}
	p.learnCanonical(o.Key.Identity, o.Size)
	p.notifyTransform()
	p.evaluate()
}

// evaluate issues the preload and fires the upgrade when their conditions
// hold. It runs after every change to zoom, preload or sync peer.
func (p *Pane) evaluate() {
	if !p.hasImage || p.machine.State() != resolution.StateLarge {
		return
	}
	// Until the displayed size is known the viewport sits at its identity
	// fallback, which is not a zoom level the user chose.
	visual := 0.0
	if p.geometryKnown() {
		visual = p.vp.VisualScale()
	}
	cond := resolution.Conditions{
		OriginalLoaded:   p.pre.Loaded(),
		VisualScale:      visual,
		UpgradeThreshold: p.cfg.UpgradeThreshold,
		SyncMode:         p.syncMode,
		PeerState:        p.peerState,
	}
	if cond.VisualScale >= p.cfg.PreloadThreshold || cond.PeerOriginal() {
		p.pre.Request()
	}
	if !cond.UpgradeReady() {
		return
	}

	if _, changed := p.machine.Fire(resolution.EventUpgrade); !changed {
		return
	}
	p.log.Debug("upgrading to original", "key", p.machine.Key().String(), "visual", cond.VisualScale, "peer", cond.PeerOriginal())

	if size := p.pre.Size(); size.Valid() && p.displayed.Valid() {
		p.swapTo(size)
		p.loaded = false
	}
	p.scheduleSettle()
	p.notifyState(p.machine.State())
	p.notifyTransform()
}

func (p *Pane) geometryKnown() bool {
	if !p.displayed.Valid() || p.deps.Container == nil {
		return false
	}
	return p.deps.Container.Bounds().Size().Valid()
}

func (p *Pane) scheduleSettle() {
	p.stopSettle()
	key := p.machine.Key()
	p.cancelSettle = p.deps.Dispatcher.AfterFunc(p.cfg.SettleDelay, func() {
		p.cancelSettle = nil
		if p.machine.Key() != key {
			return
		}
		if _, changed := p.machine.Fire(resolution.EventSettled); changed {
			p.log.Debug("original settled", "key", key.String())
			p.notifyState(p.machine.State())
		}
	})
}

func (p *Pane) stopSettle() {
	if p.cancelSettle != nil {
		p.cancelSettle()
		p.cancelSettle = nil
	}
}

func toSize(d tier.Dimensions) viewport.Size {
	return viewport.Size{Width: float64(d.Width), Height: float64(d.Height)}
}
