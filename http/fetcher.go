// Package http provides the network side of ficfetch: an HTTP-based
// implementation of ficfetch.Fetcher and the JSON API server.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/ficfetch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
// Full-work pages of long stories run to several megabytes.
const DefaultMaxBodyBytes = 10 << 20

// AcceptLanguage is sent with every upstream request.
const AcceptLanguage = "en-US,en;q=0.8"

// DefaultUserAgent is a current desktop browser identity. The upstream
// rejects requests that do not look like they come from a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Ensure Fetcher implements ficfetch.Fetcher at compile time.
var _ ficfetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves upstream pages with plain HTTP GET requests.
// It performs a single attempt per call; retry policy is left to callers.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser identity sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes sets the response body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the document identified by req.
// Non-2xx responses and transport failures are returned as EUPSTREAM.
func (f *Fetcher) Fetch(ctx context.Context, req ficfetch.Request) (string, error) {
	target := req.Fingerprint()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", ficfetch.Errorf(ficfetch.EINVALID, "invalid request URL %q: %v", target, err)
	}
	httpReq.Header.Set("User-Agent", f.userAgent)
	httpReq.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	httpReq.Header.Set("Accept-Language", AcceptLanguage)

	resp, err := f.client.Do(httpReq)
	if err != nil {
		// Keep caller cancellation recognizable.
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", ficfetch.Errorf(ficfetch.EUPSTREAM, "fetch %s: %v", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return "", ficfetch.UpstreamErrorf(resp.StatusCode, "HTTP %d for %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return "", ficfetch.Errorf(ficfetch.EUPSTREAM, "read %s: %v", target, err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return "", ficfetch.Errorf(ficfetch.EUPSTREAM, "response from %s exceeds %d bytes", target, f.maxBodyBytes)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
