package mock

import (
	"context"

	"github.com/fwojciec/ficfetch"
)

var _ ficfetch.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of ficfetch.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}

var _ ficfetch.DocumentCache = (*DocumentCache)(nil)

// DocumentCache is a mock implementation of ficfetch.DocumentCache.
type DocumentCache struct {
	GetOrFetchFn func(ctx context.Context, fingerprint string, fetch ficfetch.FetchFunc) (string, error)
}

func (c *DocumentCache) GetOrFetch(ctx context.Context, fingerprint string, fetch ficfetch.FetchFunc) (string, error) {
	return c.GetOrFetchFn(ctx, fingerprint, fetch)
}
