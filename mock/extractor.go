package mock

import "github.com/fwojciec/ficfetch"

var _ ficfetch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of ficfetch.Extractor.
type Extractor struct {
	ExtractStoryFn         func(html string) (*ficfetch.Story, error)
	ExtractSearchResultsFn func(html string) ([]*ficfetch.SearchHit, error)
}

func (e *Extractor) ExtractStory(html string) (*ficfetch.Story, error) {
	return e.ExtractStoryFn(html)
}

func (e *Extractor) ExtractSearchResults(html string) ([]*ficfetch.SearchHit, error) {
	return e.ExtractSearchResultsFn(html)
}
