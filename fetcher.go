package ficfetch

import "context"

// Fetcher retrieves raw markup for upstream requests.
type Fetcher interface {
	// Fetch performs the request and returns the response body.
	// Failures are reported as EUPSTREAM errors; nothing is retried.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, req Request) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// Limiter spaces out outbound upstream requests.
type Limiter interface {
	// Wait blocks until another upstream request may be sent.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context) error
}

// FetchFunc produces a document on a cache miss.
type FetchFunc func(ctx context.Context) (string, error)

// DocumentCache stores raw documents by request fingerprint.
type DocumentCache interface {
	// GetOrFetch returns the cached document for fingerprint when it is
	// still fresh. Otherwise it calls fetch, stores a successful result and
	// returns it. Fetch errors are returned unchanged and never cached.
	GetOrFetch(ctx context.Context, fingerprint string, fetch FetchFunc) (string, error)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}
