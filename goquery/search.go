package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ficfetch"
)

// rowIDPrefix precedes the work id in a result row's DOM id.
const rowIDPrefix = "work_"

var workPathRE = regexp.MustCompile(`^/works/(\d+)`)

// ExtractSearchResults parses a search or listing page. Every row yields a
// hit, in listing order, even when it lacks a title link or id.
func (e *Extractor) ExtractSearchResults(raw string) ([]*ficfetch.SearchHit, error) {
	doc, err := parse(raw)
	if err != nil {
		return nil, err
	}

	hits := []*ficfetch.SearchHit{}
	doc.Find(e.search.Row).Each(func(_ int, row *goquery.Selection) {
		hits = append(hits, e.extractHit(row))
	})
	return hits, nil
}

func (e *Extractor) extractHit(row *goquery.Selection) *ficfetch.SearchHit {
	sel := e.search
	hit := &ficfetch.SearchHit{
		Title:     text(row.Find(sel.TitleLink).First(), ficfetch.DefaultTitle),
		Author:    joinTexts(row.Find(sel.Author), ficfetch.DefaultAuthor),
		Fandom:    joinTexts(row.Find(sel.Fandom), ""),
		Rating:    rating(row.Find(sel.Rating).First()),
		Completed: row.Find(sel.WIP).Length() == 0,
		Summary:   text(row.Find(sel.Summary).First(), ""),
		Words:     count(row.Find(sel.Words).First()),
		Chapters:  strings.TrimSpace(row.Find(sel.Chapters).First().Text()),
		Kudos:     count(row.Find(sel.Kudos).First()),
		Updated:   strings.TrimSpace(row.Find(sel.Updated).First().Text()),
	}

	if domID, ok := row.Attr("id"); ok && strings.HasPrefix(domID, rowIDPrefix) {
		hit.ID = strings.TrimPrefix(domID, rowIDPrefix)
	}

	href, _ := row.Find(sel.TitleLink).First().Attr("href")
	if href != "" {
		hit.URL = e.resolve(href)
	}

	// The row id and the title link describe the same work; each can stand
	// in for the other when missing.
	if hit.ID == "" && hit.URL != "" {
		if u, err := url.Parse(hit.URL); err == nil {
			if m := workPathRE.FindStringSubmatch(u.Path); m != nil {
				hit.ID = m[1]
			}
		}
	}
	if hit.URL == "" && hit.ID != "" {
		hit.URL = e.resolve("/works/" + hit.ID)
	}

	return hit
}

// resolve makes href absolute against the base origin.
// Returns empty string if href cannot be parsed.
func (e *Extractor) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := e.base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// joinTexts returns the distinct trimmed texts of sel joined with ", ".
func joinTexts(sel *goquery.Selection, def string) string {
	var parts []string
	seen := make(map[string]bool)
	sel.Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t == "" || seen[t] {
			return
		}
		seen[t] = true
		parts = append(parts, t)
	})
	if len(parts) == 0 {
		return def
	}
	return strings.Join(parts, ", ")
}

// rating prefers the title attribute, which carries the full label, over
// the visible text.
func rating(sel *goquery.Selection) string {
	if title, ok := sel.Attr("title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	return strings.TrimSpace(sel.Text())
}

// count parses numbers such as "12,345". Returns 0 when absent or
// unparseable.
func count(sel *goquery.Selection) int {
	s := strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(sel.Text()))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
