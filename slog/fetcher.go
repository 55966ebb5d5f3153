// Package slog provides log/slog decorators for ficfetch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ficfetch"
)

// Ensure LoggingFetcher implements ficfetch.Fetcher.
var _ ficfetch.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging. Wrapped around the
// network fetcher it logs only real upstream calls, not cache hits.
type LoggingFetcher struct {
	next   ficfetch.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next ficfetch.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the request being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, req ficfetch.Request) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", req.Fingerprint(),
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			attrs = append(attrs, "err", err)
			if status := ficfetch.UpstreamStatus(err); status != 0 {
				attrs = append(attrs, "status", status)
			}
		}
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
