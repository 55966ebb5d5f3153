package mock

import (
	"context"

	"github.com/fwojciec/ficfetch"
)

var _ ficfetch.ArchiveService = (*ArchiveService)(nil)

// ArchiveService is a mock implementation of ficfetch.ArchiveService.
type ArchiveService struct {
	FindStoryFn func(ctx context.Context, id string) (*ficfetch.Story, error)
	SearchFn    func(ctx context.Context, filters ficfetch.SearchFilters) ([]*ficfetch.SearchHit, error)
	TrendingFn  func(ctx context.Context, page int) ([]*ficfetch.SearchHit, error)
}

func (s *ArchiveService) FindStory(ctx context.Context, id string) (*ficfetch.Story, error) {
	return s.FindStoryFn(ctx, id)
}

func (s *ArchiveService) Search(ctx context.Context, filters ficfetch.SearchFilters) ([]*ficfetch.SearchHit, error) {
	return s.SearchFn(ctx, filters)
}

func (s *ArchiveService) Trending(ctx context.Context, page int) ([]*ficfetch.SearchHit, error) {
	return s.TrendingFn(ctx, page)
}

var _ ficfetch.SearchPager = (*SearchPager)(nil)

// SearchPager is a mock implementation of ficfetch.SearchPager.
type SearchPager struct {
	SearchPagesFn func(ctx context.Context, filters ficfetch.SearchFilters, n int) ([]*ficfetch.SearchHit, error)
}

func (p *SearchPager) SearchPages(ctx context.Context, filters ficfetch.SearchFilters, n int) ([]*ficfetch.SearchHit, error) {
	return p.SearchPagesFn(ctx, filters, n)
}
