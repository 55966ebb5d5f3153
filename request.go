package ficfetch

import (
	"net/url"
	"slices"
	"strings"
)

// Request identifies a single upstream document: a page URL plus the query
// parameters sent with it.
type Request struct {
	URL    string
	Params url.Values
}

// Fingerprint returns the canonical form of the request, used both as the
// cache key and as the URL actually fetched. Query parameters embedded in
// URL are merged with Params, empty values are dropped, and keys and values
// are sorted and deduplicated, so equivalent requests always produce the same fingerprint.
func (r Request) Fingerprint() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		q := canonicalQuery(r.Params)
		if q == "" {
			return r.URL
		}
		return r.URL + "?" + q
	}

	merged := url.Values{}
	for k, vs := range u.Query() {
		merged[k] = append(merged[k], vs...)
	}
	for k, vs := range r.Params {
		merged[k] = append(merged[k], vs...)
	}

	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""

	q := canonicalQuery(merged)
	if q == "" {
		return u.String()
	}
	return u.String() + "?" + q
}

// canonicalQuery encodes params with empty values removed and both keys and
// values in sorted order.
func canonicalQuery(params url.Values) string {
	out := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			if v == "" {
				continue
			}
			out[k] = append(out[k], v)
		}
	}
	for k := range out {
		slices.Sort(out[k])
		out[k] = slices.Compact(out[k])
	}
	// Encode sorts by key.
	return out.Encode()
}

// DefaultBaseURL is the origin of the upstream archive.
const DefaultBaseURL = "https://archiveofourown.org"
