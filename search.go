package ficfetch

import "context"

// RatingLabel is the human-facing name of a maturity rating.
type RatingLabel string

// Rating labels accepted in search filters.
const (
	RatingGeneral  RatingLabel = "General"
	RatingTeen     RatingLabel = "Teen"
	RatingMature   RatingLabel = "Mature"
	RatingExplicit RatingLabel = "Explicit"
	RatingNotRated RatingLabel = "NotRated"
)

// SearchFilters describes a search request.
type SearchFilters struct {
	Tag           string      `json:"tag"`
	Fandom        string      `json:"fandom,omitempty"`
	Rating        RatingLabel `json:"rating,omitempty"`
	CompletedOnly bool        `json:"completedOnly,omitempty"`
	Page          int         `json:"page,omitempty"` // zero means the first page
	Sort          string      `json:"sort,omitempty"`
}

// Validate returns an error if the filters contain invalid fields.
func (f *SearchFilters) Validate() error {
	if f.Tag == "" {
		return Errorf(EINVALID, "search tag required")
	}
	if f.Page < 0 {
		return Errorf(EINVALID, "page must be positive")
	}
	return nil
}

// ArchiveService represents the query operations offered over the upstream
// archive.
type ArchiveService interface {
	// FindStory retrieves a work with all its chapters.
	// Returns EINVALID if id is not a numeric work id.
	FindStory(ctx context.Context, id string) (*Story, error)

	// Search returns one page of results for the filters.
	Search(ctx context.Context, filters SearchFilters) ([]*SearchHit, error)

	// Trending returns one page of the most popular works.
	Trending(ctx context.Context, page int) ([]*SearchHit, error)
}

// SearchPager fetches several consecutive search result pages at once.
type SearchPager interface {
	// SearchPages returns the hits of n pages starting at filters.Page,
	// concatenated in page order.
	SearchPages(ctx context.Context, filters SearchFilters, n int) ([]*SearchHit, error)
}
