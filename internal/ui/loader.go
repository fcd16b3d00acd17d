package ui

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageLoader decodes image tiers in the background.
type ImageLoader interface {
	Load(ctx context.Context, url string, done func(image.Image, error))
}

// HTTPLoader downloads and decodes tiers over HTTP.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader whose requests time out after timeout.
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: timeout}}
}

// Load implements ImageLoader. done runs on a background goroutine.
func (l *HTTPLoader) Load(ctx context.Context, url string, done func(image.Image, error)) {
	go func() {
		img, err := l.get(ctx, url)
		done(img, err)
	}()
}

func (l *HTTPLoader) get(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ui: get %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ui: get %s: %s", url, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ui: decode %s: %w", url, err)
	}
	return img, nil
}
