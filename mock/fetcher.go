package mock

import (
	"context"

	"github.com/fwojciec/ficfetch"
)

var _ ficfetch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of ficfetch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, req ficfetch.Request) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, req ficfetch.Request) (string, error) {
	return f.FetchFn(ctx, req)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
