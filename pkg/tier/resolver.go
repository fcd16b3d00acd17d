package tier

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Resolver maps an image identity, tier and display mode to the URL the
// host loads. The viewer engine never builds URLs itself.
type Resolver interface {
	URL(identity string, t Tier, mode DisplayMode) string
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(identity string, t Tier, mode DisplayMode) string

// URL calls f.
func (f ResolverFunc) URL(identity string, t Tier, mode DisplayMode) string {
	return f(identity, t, mode)
}

// ServerOptions describes the image server a resolver addresses.
type ServerOptions struct {
	BaseURL  string // scheme://host[:port][/prefix]; empty yields host-relative URLs
	MaxStars int    // star annotation limit for annotated mode, 0 for server default
	Stretch  bool   // false requests linear previews
}

// HTTPResolver builds PSF Guard server URLs:
//
//	{base}/api/images/{id}/preview?size={tier}
//	{base}/api/images/{id}/annotated?size={tier}&max_stars={n}
//
// The base URL is parsed once at construction.
type HTTPResolver struct {
	base     *url.URL
	maxStars int
	stretch  bool
}

// NewHTTPResolver validates opts and returns a resolver for them.
func NewHTTPResolver(opts ServerOptions) (*HTTPResolver, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("tier: parse base url: %w", err)
	}
	if raw != "" && (base.Scheme == "" || base.Host == "") {
		return nil, fmt.Errorf("tier: base url %q must be absolute", opts.BaseURL)
	}
	if opts.MaxStars < 0 {
		return nil, fmt.Errorf("tier: max stars %d must not be negative", opts.MaxStars)
	}
	return &HTTPResolver{base: base, maxStars: opts.MaxStars, stretch: opts.Stretch}, nil
}

// URL implements Resolver.
func (r *HTTPResolver) URL(identity string, t Tier, mode DisplayMode) string {
	endpoint := "preview"
	if mode == Annotated {
		endpoint = "annotated"
	}

	u := *r.base
	u.Path = r.base.Path + "/api/images/" + identity + "/" + endpoint
	u.RawPath = r.base.EscapedPath() + "/api/images/" + url.PathEscape(identity) + "/" + endpoint

	q := url.Values{}
	q.Set("size", t.String())
	if mode == Annotated && r.maxStars > 0 {
		q.Set("max_stars", strconv.Itoa(r.maxStars))
	}
	if !r.stretch && mode == Plain {
		q.Set("stretch", "false")
	}
	u.RawQuery = q.Encode()
	return u.String()
}
