package tier

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Fetcher downloads a tier in the background. done is called exactly once,
// from any goroutine, with the decoded size or an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string, done func(Dimensions, error))
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string, done func(Dimensions, error))

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string, done func(Dimensions, error)) {
	f(ctx, url, done)
}

// HTTPFetcher fetches tiers over HTTP and reports their decoded size. The
// body is read in full so the server's cache and the transport's connection
// are warm for the host's own load of the same URL.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with the given request timeout. A zero
// timeout means none; preloads are allowed to take as long as they need.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, done func(Dimensions, error)) {
	go func() {
		done(f.Probe(ctx, url))
	}()
}

// Probe downloads url and decodes its image header.
func (f *HTTPFetcher) Probe(ctx context.Context, url string) (Dimensions, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("tier: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("tier: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Dimensions{}, fmt.Errorf("tier: fetch %s: %s", url, resp.Status)
	}

	cfg, format, err := image.DecodeConfig(resp.Body)
	if err != nil {
		return Dimensions{}, fmt.Errorf("tier: decode %s: %w", url, err)
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return Dimensions{}, fmt.Errorf("tier: read %s body: %w", format, err)
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
