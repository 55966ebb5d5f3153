package ficfetch

import "context"

// Defaults substituted for story fields missing from the upstream markup.
const (
	DefaultTitle  = "Untitled"
	DefaultAuthor = "Unknown"
)

// Story represents one archived work with its full chapter text.
type Story struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Summary  string   `json:"summary"`
	URL      string   `json:"url,omitempty"`
	Chapters []string `json:"chapters"`

	// ChapterHTML holds the inner HTML of each chapter block, parallel to
	// Chapters. It feeds markdown export and is not part of the wire shape.
	ChapterHTML []string `json:"-"`
}

// SearchHit represents one row of a search or listing page.
type SearchHit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Fandom    string `json:"fandom"`
	Rating    string `json:"rating"`
	Completed bool   `json:"completed"`
	Summary   string `json:"summary"`
	URL       string `json:"url"`
	Words     int    `json:"words,omitempty"`
	Chapters  string `json:"chapters,omitempty"` // e.g. "3/?"
	Kudos     int    `json:"kudos,omitempty"`
	Updated   string `json:"updated,omitempty"`
}

// Validate returns an error if the hit cannot be used to look up a story.
func (h *SearchHit) Validate() error {
	if h.ID == "" {
		return Errorf(EINVALID, "search hit id required")
	}
	return nil
}

// Extractor converts raw upstream markup into structured records.
//
// Extraction is total over parseable markup: any individual field may be
// missing and is then replaced by its default. Only a document that cannot
// be parsed at all fails, with EEXTRACT.
type Extractor interface {
	// ExtractStory parses a full-work page. Chapters are returned in
	// document order; a page with no chapter blocks yields no chapters.
	ExtractStory(html string) (*Story, error)

	// ExtractSearchResults parses a search or listing page and returns one
	// hit per result row in listing order. Rows are never dropped here, even
	// when they lack an id.
	ExtractSearchResults(html string) ([]*SearchHit, error)
}

// StoryWriter exports stories, for example as markdown files.
type StoryWriter interface {
	// WriteStory saves the story and returns where it was written.
	WriteStory(ctx context.Context, story *Story) (path string, err error)
}
