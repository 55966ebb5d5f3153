// Package goquery implements ficfetch.Extractor on top of goquery CSS
// selectors.
package goquery

import (
	"net/url"

	"github.com/fwojciec/ficfetch"
)

// StorySelectors locates the fields of a full-work page.
type StorySelectors struct {
	Title   string
	Author  string
	Byline  string // narrower author selector tried before Author
	Summary string
	Chapter string
	Strip   string // removed from chapter blocks before rendering
}

// SearchSelectors locates the fields of one result row. Everything except
// Row is evaluated relative to the row.
type SearchSelectors struct {
	Row       string
	TitleLink string
	Author    string
	Fandom    string
	Rating    string
	WIP       string
	Summary   string
	Words     string
	Chapters  string
	Kudos     string
	Updated   string
}

// DefaultStorySelectors matches the archive's full-work markup.
// Single-chapter works put the text directly under #chapters; multi-chapter
// works wrap each chapter, and role=article covers pages without the
// #chapters container.
var DefaultStorySelectors = StorySelectors{
	Title:   "h2.title",
	Author:  "a[rel='author']",
	Byline:  ".byline a[rel='author']",
	Summary: ".summary blockquote.userstuff, blockquote.summary",
	Chapter: "#chapters div.userstuff, div.userstuff[role='article']",
	Strip:   ".landmark",
}

// DefaultSearchSelectors matches the archive's work blurbs.
var DefaultSearchSelectors = SearchSelectors{
	Row:       "li.blurb",
	TitleLink: "h4.heading a:not([rel='author'])",
	Author:    "h4.heading a[rel='author']",
	Fandom:    ".fandoms a.tag",
	Rating:    ".required-tags .rating",
	WIP:       ".complete-no",
	Summary:   "blockquote.summary",
	Words:     "dd.words",
	Chapters:  "dd.chapters",
	Kudos:     "dd.kudos",
	Updated:   "p.datetime",
}

// Ensure Extractor implements ficfetch.Extractor at compile time.
var _ ficfetch.Extractor = (*Extractor)(nil)

// Extractor pulls stories and search hits out of upstream markup. Each
// field is located independently; a missing field takes its default and
// never fails the extraction.
type Extractor struct {
	base   *url.URL
	story  StorySelectors
	search SearchSelectors
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithStorySelectors replaces the full-work selectors.
func WithStorySelectors(s StorySelectors) Option {
	return func(e *Extractor) {
		e.story = s
	}
}

// WithSearchSelectors replaces the result row selectors.
func WithSearchSelectors(s SearchSelectors) Option {
	return func(e *Extractor) {
		e.search = s
	}
}

// NewExtractor creates an Extractor that resolves relative links against
// baseURL. Returns EINVALID if baseURL is not an absolute URL.
func NewExtractor(baseURL string, opts ...Option) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, ficfetch.Errorf(ficfetch.EINVALID, "invalid base URL %q", baseURL)
	}

	e := &Extractor{
		base:   base,
		story:  DefaultStorySelectors,
		search: DefaultSearchSelectors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}
