package ao3

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fwojciec/ficfetch"
)

// Upstream query parameter names.
const (
	ParamQuery      = "work_search[query]"
	ParamFandom     = "work_search[fandom_names]"
	ParamRating     = "work_search[rating_ids]"
	ParamComplete   = "work_search[complete]"
	ParamSortColumn = "work_search[sort_column]"
	ParamPage       = "page"
)

// ratingIDs maps lower-cased rating labels, short and full forms, to the
// upstream rating identifiers.
var ratingIDs = map[string]string{
	"notrated":              "9",
	"not rated":             "9",
	"general":               "10",
	"general audiences":     "10",
	"teen":                  "11",
	"teen and up audiences": "11",
	"mature":                "12",
	"explicit":              "13",
}

// RatingID returns the upstream identifier for a rating label. Matching is
// case-insensitive. The boolean is false for unknown labels, in which case
// the search should simply not filter on rating.
func RatingID(label ficfetch.RatingLabel) (string, bool) {
	id, ok := ratingIDs[strings.ToLower(strings.TrimSpace(string(label)))]
	return id, ok
}

// SearchParams translates filters into upstream query parameters.
// Parameters without a value are left out entirely.
func SearchParams(f ficfetch.SearchFilters) url.Values {
	params := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			params.Set(key, value)
		}
	}

	set(ParamQuery, f.Tag)
	set(ParamFandom, f.Fandom)
	if id, ok := RatingID(f.Rating); ok {
		set(ParamRating, id)
	}
	if f.CompletedOnly {
		set(ParamComplete, "T")
	}
	set(ParamSortColumn, f.Sort)
	set(ParamPage, strconv.Itoa(pageOrFirst(f.Page)))

	return params
}

func pageOrFirst(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
