package tier

import (
	"context"
	"sync"
)

// FetchHook lets a ScriptedFetcher answer a request synchronously. Returning
// handled=false leaves the request pending.
type FetchHook func(url string) (d Dimensions, handled bool, err error)

// ScriptedFetcher is a Fetcher whose requests stay pending until the caller
// completes or fails them. Replayed sessions and tests use it to control
// exactly when a preload lands.
type ScriptedFetcher struct {
	OnFetch FetchHook

	mu       sync.Mutex
	pending  map[string][]func(Dimensions, error)
	requests []string
}

// NewScriptedFetcher returns an empty ScriptedFetcher.
func NewScriptedFetcher() *ScriptedFetcher {
	return &ScriptedFetcher{pending: make(map[string][]func(Dimensions, error))}
}

// Fetch implements Fetcher.
func (s *ScriptedFetcher) Fetch(_ context.Context, url string, done func(Dimensions, error)) {
	s.mu.Lock()
	s.requests = append(s.requests, url)
	hook := s.OnFetch
	s.mu.Unlock()

	if hook != nil {
		if d, ok, err := hook(url); ok {
			done(d, err)
			return
		}
	}

	s.mu.Lock()
	if s.pending == nil {
		s.pending = make(map[string][]func(Dimensions, error))
	}
	s.pending[url] = append(s.pending[url], done)
	s.mu.Unlock()
}

// Complete resolves every pending request for url with d and returns how
// many there were.
func (s *ScriptedFetcher) Complete(url string, d Dimensions) int {
	return s.resolve(url, d, nil)
}

// Fail resolves every pending request for url with err.
func (s *ScriptedFetcher) Fail(url string, err error) int {
	return s.resolve(url, Dimensions{}, err)
}

func (s *ScriptedFetcher) resolve(url string, d Dimensions, err error) int {
	s.mu.Lock()
	waiting := s.pending[url]
	delete(s.pending, url)
	s.mu.Unlock()

	for _, done := range waiting {
		done(d, err)
	}
	return len(waiting)
}

// Requests returns every URL fetched so far, in order.
func (s *ScriptedFetcher) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Pending reports how many requests for url are unresolved.
func (s *ScriptedFetcher) Pending(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[url])
}
