// Package rod retrieves upstream pages through headless Chrome. It is an
// opt-in alternative to the plain HTTP fetcher for when upstream serves a
// browser challenge to non-browser clients.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/ficfetch"
	fichttp "github.com/fwojciec/ficfetch/http"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements ficfetch.Fetcher at compile time.
var _ ficfetch.Fetcher = (*Fetcher)(nil)

var errClosed = ficfetch.Errorf(ficfetch.EINVALID, "browser fetcher closed")

// Fetcher retrieves rendered HTML using Chrome browser automation. It
// presents the same browser identity as the HTTP fetcher and reports
// non-2xx document responses the same way.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *browser
	timeout   time.Duration
	userAgent string
	maxPages  int
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each Fetch call. Defaults to
// http.DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent. Empty values are ignored.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxPages sets how many pages one Chrome process serves before it is
// recycled.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   fichttp.DefaultFetchTimeout,
		userAgent: fichttp.DefaultUserAgent,
		maxPages:  DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := newBrowser(f.maxPages)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to the request's canonical URL and returns the rendered
// HTML once the page has loaded.
func (f *Fetcher) Fetch(ctx context.Context, req ficfetch.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b, release, err := f.browser.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", ficfetch.Errorf(ficfetch.EUPSTREAM, "opening page: %v", err)
	}
	defer func() { _ = page.Close() }()
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      f.userAgent,
		AcceptLanguage: fichttp.AcceptLanguage,
	}); err != nil {
		return "", f.classify(ctx, err)
	}

	var status int
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	url := req.Fingerprint()
	if err := page.Navigate(url); err != nil {
		return "", f.classify(ctx, err)
	}
	waitDocument()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", ficfetch.UpstreamErrorf(status, "fetching %s: HTTP %d", url, status)
	}

	if err := page.WaitLoad(); err != nil {
		return "", f.classify(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.classify(ctx, err)
	}
	return html, nil
}

// classify reports cancellation as the context's error and everything else
// as an upstream failure.
func (f *Fetcher) classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ficfetch.Errorf(ficfetch.EUPSTREAM, "browser fetch: %v", err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.browser.close()
}

// LauncherPID returns the process ID of the current Chrome launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}
