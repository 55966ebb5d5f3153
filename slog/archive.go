package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ficfetch"
)

// Ensure the decorators implement their ficfetch interfaces.
var (
	_ ficfetch.ArchiveService = (*LoggingArchiveService)(nil)
	_ ficfetch.SearchPager    = (*LoggingSearchPager)(nil)
)

// LoggingArchiveService wraps an ArchiveService with logging.
type LoggingArchiveService struct {
	next   ficfetch.ArchiveService
	logger *slog.Logger
}

// NewLoggingArchiveService creates a new LoggingArchiveService.
func NewLoggingArchiveService(next ficfetch.ArchiveService, logger *slog.Logger) *LoggingArchiveService {
	return &LoggingArchiveService{next: next, logger: logger}
}

// FindStory delegates to the wrapped service and logs the lookup.
func (s *LoggingArchiveService) FindStory(ctx context.Context, id string) (story *ficfetch.Story, err error) {
	defer func(begin time.Time) {
		var chapters int
		if story != nil {
			chapters = len(story.Chapters)
		}
		s.logger.Info("find story",
			"id", id,
			"chapters", chapters,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindStory(ctx, id)
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingArchiveService) Search(ctx context.Context, filters ficfetch.SearchFilters) (hits []*ficfetch.SearchHit, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"tag", filters.Tag,
			"fandom", filters.Fandom,
			"rating", filters.Rating,
			"page", filters.Page,
			"count", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, filters)
}

// Trending delegates to the wrapped service and logs the listing.
func (s *LoggingArchiveService) Trending(ctx context.Context, page int) (hits []*ficfetch.SearchHit, err error) {
	defer func(begin time.Time) {
		s.logger.Info("trending",
			"page", page,
			"count", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Trending(ctx, page)
}

// LoggingSearchPager wraps a SearchPager with logging.
type LoggingSearchPager struct {
	next   ficfetch.SearchPager
	logger *slog.Logger
}

// NewLoggingSearchPager creates a new LoggingSearchPager.
func NewLoggingSearchPager(next ficfetch.SearchPager, logger *slog.Logger) *LoggingSearchPager {
	return &LoggingSearchPager{next: next, logger: logger}
}

// SearchPages delegates to the wrapped pager and logs the page range.
func (p *LoggingSearchPager) SearchPages(ctx context.Context, filters ficfetch.SearchFilters, n int) (hits []*ficfetch.SearchHit, err error) {
	defer func(begin time.Time) {
		p.logger.Info("search pages",
			"tag", filters.Tag,
			"fandom", filters.Fandom,
			"rating", filters.Rating,
			"page", filters.Page,
			"pages", n,
			"count", len(hits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.SearchPages(ctx, filters, n)
}
