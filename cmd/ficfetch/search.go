package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/ficfetch"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	filters := ficfetch.SearchFilters{
		Tag:           c.Tag,
		Fandom:        c.Fandom,
		Rating:        ficfetch.RatingLabel(c.Rating),
		CompletedOnly: c.Complete,
		Page:          c.Page,
		Sort:          c.Sort,
	}

	var hits []*ficfetch.SearchHit
	var err error
	if c.Pages > 1 {
		hits, err = deps.Pager.SearchPages(deps.Ctx, filters, c.Pages)
	} else {
		hits, err = deps.Archive.Search(deps.Ctx, filters)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ficfetch.ErrorMessage(err))
		return err
	}

	return printHits(deps, hits, c.JSON)
}

// Run executes the trending command.
func (c *TrendingCmd) Run(deps *Dependencies) error {
	hits, err := deps.Archive.Trending(deps.Ctx, c.Page)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ficfetch.ErrorMessage(err))
		return err
	}

	return printHits(deps, hits, c.JSON)
}

func printHits(deps *Dependencies, hits []*ficfetch.SearchHit, asJSON bool) error {
	if asJSON {
		if hits == nil {
			hits = []*ficfetch.SearchHit{}
		}
		return printJSON(deps, hits)
	}

	if len(hits) == 0 {
		fmt.Fprintln(deps.Stdout, "No works found.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	for _, h := range hits {
		status := "wip"
		if h.Completed {
			status = "complete"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d words\n", h.ID, h.Title, h.Author, h.Rating, status, h.Words)
	}
	return tw.Flush()
}
