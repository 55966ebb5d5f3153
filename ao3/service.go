// Package ao3 composes fetching and extraction into queries against the
// Archive of Our Own.
package ao3

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/ficfetch"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds SearchPages fan-out. Network calls are still
// serialized by the fetcher's rate limiter.
const DefaultConcurrency = 3

// TrendingSort is the sort column used for the trending listing.
const TrendingSort = "kudos_count"

var _ ficfetch.ArchiveService = (*Service)(nil)

// Service answers story, search and trending queries. Fetcher is expected
// to be the caching, rate-limited fetcher; Service itself holds no state.
type Service struct {
	Fetcher     ficfetch.Fetcher
	Extractor   ficfetch.Extractor
	BaseURL     string
	Concurrency int
}

// FindStory retrieves the full-work page for id and extracts it.
func (s *Service) FindStory(ctx context.Context, id string) (*ficfetch.Story, error) {
	if !isWorkID(id) {
		return nil, ficfetch.Errorf(ficfetch.EINVALID, "work id %q must be numeric", id)
	}

	storyURL := s.baseURL() + "/works/" + id
	html, err := s.Fetcher.Fetch(ctx, ficfetch.Request{
		URL: storyURL,
		Params: url.Values{
			"view_full_work": {"true"},
			"view_adult":     {"true"},
		},
	})
	if err != nil {
		return nil, err
	}

	story, err := s.Extractor.ExtractStory(html)
	if err != nil {
		return nil, err
	}
	story.ID = id
	story.URL = storyURL
	return story, nil
}

// Search returns one page of works matching filters.
// Hits without a work id are dropped.
func (s *Service) Search(ctx context.Context, filters ficfetch.SearchFilters) ([]*ficfetch.SearchHit, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	return s.listing(ctx, ficfetch.Request{
		URL:    s.baseURL() + "/works/search",
		Params: SearchParams(filters),
	})
}

// SearchPages fetches n consecutive result pages starting at filters.Page
// and returns their hits concatenated in page order. It fails if any page
// fails.
func (s *Service) SearchPages(ctx context.Context, filters ficfetch.SearchFilters, n int) ([]*ficfetch.SearchHit, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	pages := make([][]*ficfetch.SearchHit, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	first := pageOrFirst(filters.Page)
	for i := range n {
		f := filters
		f.Page = first + i
		g.Go(func() error {
			hits, err := s.Search(ctx, f)
			if err != nil {
				return err
			}
			pages[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*ficfetch.SearchHit
	for _, hits := range pages {
		all = append(all, hits...)
	}
	return all, nil
}

// Trending returns one page of the most-kudosed works.
func (s *Service) Trending(ctx context.Context, page int) ([]*ficfetch.SearchHit, error) {
	if page < 0 {
		return nil, ficfetch.Errorf(ficfetch.EINVALID, "page must be positive")
	}
	return s.listing(ctx, ficfetch.Request{
		URL: s.baseURL() + "/works",
		Params: url.Values{
			ParamSortColumn: {TrendingSort},
			ParamPage:       {strconv.Itoa(pageOrFirst(page))},
		},
	})
}

func (s *Service) listing(ctx context.Context, req ficfetch.Request) ([]*ficfetch.SearchHit, error) {
	html, err := s.Fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	hits, err := s.Extractor.ExtractSearchResults(html)
	if err != nil {
		return nil, err
	}

	valid := make([]*ficfetch.SearchHit, 0, len(hits))
	for _, h := range hits {
		if h.Validate() == nil {
			valid = append(valid, h)
		}
	}
	return valid, nil
}

func (s *Service) baseURL() string {
	if s.BaseURL == "" {
		return ficfetch.DefaultBaseURL
	}
	return strings.TrimRight(s.BaseURL, "/")
}

// isWorkID reports whether id is a non-empty string of ASCII digits.
func isWorkID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
