package cache

import (
	"context"

	"github.com/fwojciec/ficfetch"
)

// Ensure Fetcher implements ficfetch.Fetcher at compile time.
var _ ficfetch.Fetcher = (*Fetcher)(nil)

// Fetcher serves requests from a DocumentCache and only reaches the
// wrapped fetcher on a miss. The limiter is consulted right before each
// real network call, so cache hits are never delayed.
type Fetcher struct {
	next    ficfetch.Fetcher
	cache   ficfetch.DocumentCache
	limiter ficfetch.Limiter
}

// NewFetcher wraps next with cache. limiter may be nil.
func NewFetcher(next ficfetch.Fetcher, cache ficfetch.DocumentCache, limiter ficfetch.Limiter) *Fetcher {
	return &Fetcher{next: next, cache: cache, limiter: limiter}
}

// Fetch returns the cached document for req or retrieves it.
func (f *Fetcher) Fetch(ctx context.Context, req ficfetch.Request) (string, error) {
	return f.cache.GetOrFetch(ctx, req.Fingerprint(), func(ctx context.Context) (string, error) {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		return f.next.Fetch(ctx, req)
	})
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}
