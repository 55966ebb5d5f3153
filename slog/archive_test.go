package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/ficfetch"
	"github.com/fwojciec/ficfetch/mock"
	ficslog "github.com/fwojciec/ficfetch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingArchiveService_FindStory(t *testing.T) {
	t.Parallel()

	t.Run("logs id and chapter count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArchiveService{
			FindStoryFn: func(ctx context.Context, id string) (*ficfetch.Story, error) {
				return &ficfetch.Story{ID: id, Chapters: []string{"a", "b"}}, nil
			},
		}

		svc := ficslog.NewLoggingArchiveService(inner, logger)
		story, err := svc.FindStory(context.Background(), "42")

		require.NoError(t, err)
		assert.Equal(t, "42", story.ID)
		output := buf.String()
		assert.Contains(t, output, "find story")
		assert.Contains(t, output, "id=42")
		assert.Contains(t, output, "chapters=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ArchiveService{
			FindStoryFn: func(ctx context.Context, id string) (*ficfetch.Story, error) {
				return nil, errors.New("boom")
			},
		}

		svc := ficslog.NewLoggingArchiveService(inner, logger)
		_, err := svc.FindStory(context.Background(), "42")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=boom")
	})
}

func TestLoggingArchiveService_Search(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ArchiveService{
		SearchFn: func(ctx context.Context, filters ficfetch.SearchFilters) ([]*ficfetch.SearchHit, error) {
			return []*ficfetch.SearchHit{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil
		},
	}

	svc := ficslog.NewLoggingArchiveService(inner, logger)
	hits, err := svc.Search(context.Background(), ficfetch.SearchFilters{Tag: "Fluff", Page: 2})

	require.NoError(t, err)
	assert.Len(t, hits, 3)
	output := buf.String()
	assert.Contains(t, output, "search")
	assert.Contains(t, output, "tag=Fluff")
	assert.Contains(t, output, "page=2")
	assert.Contains(t, output, "count=3")
}

func TestLoggingArchiveService_Trending(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ArchiveService{
		TrendingFn: func(ctx context.Context, page int) ([]*ficfetch.SearchHit, error) {
			return []*ficfetch.SearchHit{{ID: "1"}}, nil
		},
	}

	svc := ficslog.NewLoggingArchiveService(inner, logger)
	_, err := svc.Trending(context.Background(), 3)

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "trending")
	assert.Contains(t, output, "page=3")
	assert.Contains(t, output, "count=1")
}

func TestLoggingSearchPager_SearchPages(t *testing.T) {
	t.Parallel()

	t.Run("logs page range and hit count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var gotPages int
		inner := &mock.SearchPager{
			SearchPagesFn: func(ctx context.Context, filters ficfetch.SearchFilters, n int) ([]*ficfetch.SearchHit, error) {
				gotPages = n
				return []*ficfetch.SearchHit{{ID: "1"}, {ID: "2"}}, nil
			},
		}

		pager := ficslog.NewLoggingSearchPager(inner, logger)
		hits, err := pager.SearchPages(context.Background(), ficfetch.SearchFilters{Tag: "Fluff", Page: 2}, 3)

		require.NoError(t, err)
		assert.Len(t, hits, 2)
		assert.Equal(t, 3, gotPages)
		output := buf.String()
		assert.Contains(t, output, "search pages")
		assert.Contains(t, output, "tag=Fluff")
		assert.Contains(t, output, "page=2")
		assert.Contains(t, output, "pages=3")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SearchPager{
			SearchPagesFn: func(ctx context.Context, filters ficfetch.SearchFilters, n int) ([]*ficfetch.SearchHit, error) {
				return nil, errors.New("boom")
			},
		}

		pager := ficslog.NewLoggingSearchPager(inner, logger)
		_, err := pager.SearchPages(context.Background(), ficfetch.SearchFilters{Tag: "Fluff"}, 2)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=boom")
	})
}
