package resolution

import (
	"context"
	"log/slog"

	"github.com/psfguard/psfview/internal/logging"
	"github.com/psfguard/psfview/pkg/eventloop"
	"github.com/psfguard/psfview/pkg/tier"
)

// Outcome is a preload completion that matched the preloader's current key.
type Outcome struct {
	Key  Key
	Size tier.Dimensions
	Err  error
}

// Preloader fetches the Original tier of one pane's current image in the
// background. It issues at most one request per key and discards
// completions issued for a key the pane has since left.
//
// All methods must be called on the dispatcher thread; fetch completions are
// posted back to it.
type Preloader struct {
	ctx        context.Context
	dispatcher eventloop.Dispatcher
	resolver   tier.Resolver
	fetcher    tier.Fetcher
	onDone     func(Outcome)
	log        *slog.Logger

	key        Key
	generation uint64
	requested  bool
	loaded     bool
	failed     bool
	size       tier.Dimensions
}

// NewPreloader creates a preloader. onDone receives every non-stale
// completion on the dispatcher thread. ctx is handed to each fetch.
func NewPreloader(ctx context.Context, d eventloop.Dispatcher, r tier.Resolver, f tier.Fetcher, onDone func(Outcome)) *Preloader {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Preloader{
		ctx:        ctx,
		dispatcher: d,
		resolver:   r,
		fetcher:    f,
		onDone:     onDone,
		log:        logging.For("preload"),
	}
}

// Reset clears the bookkeeping and scopes later requests to key. Any request
// still in flight becomes stale.
func (p *Preloader) Reset(key Key) {
	p.key = key
	p.generation++
	p.requested = false
	p.loaded = false
	p.failed = false
	p.size = tier.Dimensions{}
}

// Key returns the key requests are issued for.
func (p *Preloader) Key() Key { return p.key }

// Requested reports whether a fetch was issued for the current key.
func (p *Preloader) Requested() bool { return p.requested }

// Loaded reports whether the Original tier finished loading for the current key.
func (p *Preloader) Loaded() bool { return p.loaded }

// Failed reports whether the fetch for the current key failed.
func (p *Preloader) Failed() bool { return p.failed }

// Size returns the decoded Original size once loaded.
func (p *Preloader) Size() tier.Dimensions { return p.size }

// URL returns the Original tier URL of the current key.
func (p *Preloader) URL() string {
	return p.resolver.URL(p.key.Identity, tier.Original, p.key.Mode)
}

// Request starts the fetch for the current key unless one was already
// issued. It reports whether a fetch was started.
func (p *Preloader) Request() bool {
	if p.requested || p.key.Identity == "" {
		return false
	}
	p.requested = true

	key, gen := p.key, p.generation
	url := p.URL()
	p.log.Debug("preload requested", "key", key.String(), "url", url)

	p.fetcher.Fetch(p.ctx, url, func(d tier.Dimensions, err error) {
		p.dispatcher.Post(func() { p.complete(key, gen, d, err) })
	})
	return true
}

func (p *Preloader) complete(key Key, gen uint64, d tier.Dimensions, err error) {
	if key != p.key || gen != p.generation {
		p.log.Debug("stale preload discarded", "issued", key.String(), "current", p.key.String())
		return
	}
	if p.loaded {
		return
	}
	if err != nil {
		p.failed = true
		p.log.Debug("preload failed", "key", key.String(), "err", err)
	} else {
		p.loaded = true
		p.size = d
		p.log.Debug("preload complete", "key", key.String(), "size", d.String())
	}
	if p.onDone != nil {
		p.onDone(Outcome{Key: key, Size: d, Err: err})
	}
}
