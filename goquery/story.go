package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ficfetch"
)

// ExtractStory parses a full-work page. ID and URL are left for the caller,
// which knows which work it asked for.
func (e *Extractor) ExtractStory(raw string) (*ficfetch.Story, error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, err
	}

	sel := e.story
	story := &ficfetch.Story{
		Title:       text(doc.Find(sel.Title).First(), ficfetch.DefaultTitle),
		Author:      e.authors(doc),
		Summary:     text(doc.Find(sel.Summary).First(), ""),
		Chapters:    []string{},
		ChapterHTML: []string{},
	}

	doc.Find(sel.Chapter).Each(func(_ int, block *goquery.Selection) {
		// Skip blocks nested inside another matching block; the outer one
		// already carries their text.
		if block.ParentsFiltered(sel.Chapter).Length() > 0 {
			return
		}
		if sel.Strip != "" {
			block.Find(sel.Strip).Remove()
		}

		inner, err := block.Html()
		if err != nil {
			inner = ""
		}
		story.Chapters = append(story.Chapters, renderText(block.Nodes[0]))
		story.ChapterHTML = append(story.ChapterHTML, strings.TrimSpace(inner))
	})

	return story, nil
}

// authors returns the distinct author names in document order, preferring
// the work byline over author links elsewhere on the page.
func (e *Extractor) authors(doc *goquery.Document) string {
	links := doc.Find(e.story.Byline)
	if links.Length() == 0 {
		links = doc.Find(e.story.Author)
	}

	var names []string
	seen := make(map[string]bool)
	links.Each(func(_ int, a *goquery.Selection) {
		name := strings.TrimSpace(a.Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})

	if len(names) == 0 {
		return ficfetch.DefaultAuthor
	}
	return strings.Join(names, ", ")
}
