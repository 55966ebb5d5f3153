package slog

import (
	"log/slog"

	"github.com/fwojciec/ficfetch"
)

// Ensure LoggingExtractor implements ficfetch.Extractor.
var _ ficfetch.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and reports degraded output: stories
// falling back to defaults and result rows without a work id. A rise in
// either usually means upstream markup changed.
type LoggingExtractor struct {
	next   ficfetch.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next ficfetch.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractStory delegates and logs which fields fell back to defaults.
func (e *LoggingExtractor) ExtractStory(html string) (*ficfetch.Story, error) {
	story, err := e.next.ExtractStory(html)
	if err != nil {
		e.logger.Warn("extract story", "bytes", len(html), "err", err)
		return nil, err
	}
	e.logger.Debug("extract story",
		"bytes", len(html),
		"chapters", len(story.Chapters),
		"default_title", story.Title == ficfetch.DefaultTitle,
		"default_author", story.Author == ficfetch.DefaultAuthor,
	)
	return story, nil
}

// ExtractSearchResults delegates and logs how many rows carry no work id.
func (e *LoggingExtractor) ExtractSearchResults(html string) ([]*ficfetch.SearchHit, error) {
	hits, err := e.next.ExtractSearchResults(html)
	if err != nil {
		e.logger.Warn("extract search results", "bytes", len(html), "err", err)
		return nil, err
	}
	var invalid int
	for _, h := range hits {
		if h.Validate() != nil {
			invalid++
		}
	}
	if invalid > 0 {
		e.logger.Warn("extract search results", "rows", len(hits), "missing_id", invalid)
	} else {
		e.logger.Debug("extract search results", "rows", len(hits))
	}
	return hits, nil
}
