package ao3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/ficfetch"
	"github.com/fwojciec/ficfetch/ao3"
	"github.com/fwojciec/ficfetch/cache"
	"github.com/fwojciec/ficfetch/goquery"
	fichttp "github.com/fwojciec/ficfetch/http"
	"github.com/fwojciec/ficfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_FindStory(t *testing.T) {
	t.Parallel()

	t.Run("requests full work view and fills id and url", func(t *testing.T) {
		t.Parallel()

		var got ficfetch.Request
		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					got = req
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractStoryFn: func(html string) (*ficfetch.Story, error) {
					return &ficfetch.Story{Title: "My Fic"}, nil
				},
			},
		}

		story, err := svc.FindStory(context.Background(), "12345")

		require.NoError(t, err)
		assert.Equal(t, "12345", story.ID)
		assert.Equal(t, "https://archiveofourown.org/works/12345", story.URL)
		assert.Equal(t, "My Fic", story.Title)
		assert.Equal(t,
			"https://archiveofourown.org/works/12345?view_adult=true&view_full_work=true",
			got.Fingerprint())
	})

	t.Run("rejects non-numeric id without fetching", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{Fetcher: &mock.Fetcher{}, Extractor: &mock.Extractor{}}

		for _, id := range []string{"", "abc", "12a", "../1", "-5"} {
			_, err := svc.FindStory(context.Background(), id)
			assert.Equal(t, ficfetch.EINVALID, ficfetch.ErrorCode(err), id)
		}
	})

	t.Run("propagates upstream errors unchanged", func(t *testing.T) {
		t.Parallel()

		upstream := ficfetch.UpstreamErrorf(404, "HTTP 404")
		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ ficfetch.Request) (string, error) {
					return "", upstream
				},
			},
			Extractor: &mock.Extractor{},
		}

		_, err := svc.FindStory(context.Background(), "1")

		assert.Same(t, upstream, err)
	})

	t.Run("propagates extraction errors", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, _ ficfetch.Request) (string, error) {
					return "", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractStoryFn: func(html string) (*ficfetch.Story, error) {
					return nil, ficfetch.Errorf(ficfetch.EEXTRACT, "empty document")
				},
			},
		}

		_, err := svc.FindStory(context.Background(), "1")

		assert.Equal(t, ficfetch.EEXTRACT, ficfetch.ErrorCode(err))
	})

	t.Run("honours custom base URL", func(t *testing.T) {
		t.Parallel()

		var got ficfetch.Request
		svc := &ao3.Service{
			BaseURL: "http://mirror.test/",
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					got = req
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractStoryFn: func(html string) (*ficfetch.Story, error) {
					return &ficfetch.Story{}, nil
				},
			},
		}

		_, err := svc.FindStory(context.Background(), "7")

		require.NoError(t, err)
		assert.Equal(t, "http://mirror.test/works/7", got.URL)
	})
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	t.Run("maps filters and drops hits without id", func(t *testing.T) {
		t.Parallel()

		var got ficfetch.Request
		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					got = req
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractSearchResultsFn: func(html string) ([]*ficfetch.SearchHit, error) {
					return []*ficfetch.SearchHit{
						{ID: "1", Title: "A"},
						{Title: "No id"},
						{ID: "2", Title: "B"},
					}, nil
				},
			},
		}

		hits, err := svc.Search(context.Background(), ficfetch.SearchFilters{
			Tag:    "Fluff",
			Rating: "unknown-label",
			Page:   2,
		})

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "1", hits[0].ID)
		assert.Equal(t, "2", hits[1].ID)

		assert.Equal(t, "https://archiveofourown.org/works/search", got.URL)
		assert.Equal(t, "Fluff", got.Params.Get(ao3.ParamQuery))
		assert.Equal(t, "2", got.Params.Get(ao3.ParamPage))
		assert.NotContains(t, got.Params, ao3.ParamRating)
	})

	t.Run("rejects missing tag", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{Fetcher: &mock.Fetcher{}, Extractor: &mock.Extractor{}}

		_, err := svc.Search(context.Background(), ficfetch.SearchFilters{})

		assert.Equal(t, ficfetch.EINVALID, ficfetch.ErrorCode(err))
	})
}

func TestService_SearchPages(t *testing.T) {
	t.Parallel()

	t.Run("concatenates pages in order", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					return req.Params.Get(ao3.ParamPage), nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractSearchResultsFn: func(html string) ([]*ficfetch.SearchHit, error) {
					return []*ficfetch.SearchHit{{ID: "p" + html + "a"}, {ID: "p" + html + "b"}}, nil
				},
			},
		}

		hits, err := svc.SearchPages(context.Background(), ficfetch.SearchFilters{Tag: "Fluff", Page: 2}, 3)

		require.NoError(t, err)
		ids := make([]string, len(hits))
		for i, h := range hits {
			ids[i] = h.ID
		}
		assert.Equal(t, []string{"p2a", "p2b", "p3a", "p3b", "p4a", "p4b"}, ids)
	})

	t.Run("fails when any page fails", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					if req.Params.Get(ao3.ParamPage) == "2" {
						return "", ficfetch.UpstreamErrorf(503, "HTTP 503")
					}
					return "ok", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractSearchResultsFn: func(html string) ([]*ficfetch.SearchHit, error) {
					return []*ficfetch.SearchHit{{ID: "1"}}, nil
				},
			},
		}

		_, err := svc.SearchPages(context.Background(), ficfetch.SearchFilters{Tag: "Fluff"}, 3)

		assert.Equal(t, ficfetch.EUPSTREAM, ficfetch.ErrorCode(err))
	})
}

func TestService_Trending(t *testing.T) {
	t.Parallel()

	t.Run("requests sorted listing page", func(t *testing.T) {
		t.Parallel()

		var got ficfetch.Request
		svc := &ao3.Service{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
					got = req
					return "<html></html>", nil
				},
			},
			Extractor: &mock.Extractor{
				ExtractSearchResultsFn: func(html string) ([]*ficfetch.SearchHit, error) {
					return []*ficfetch.SearchHit{{ID: "9"}}, nil
				},
			},
		}

		hits, err := svc.Trending(context.Background(), 4)

		require.NoError(t, err)
		assert.Len(t, hits, 1)
		assert.Equal(t, "https://archiveofourown.org/works?page=4&work_search%5Bsort_column%5D=kudos_count", got.Fingerprint())
	})

	t.Run("rejects negative page", func(t *testing.T) {
		t.Parallel()

		svc := &ao3.Service{Fetcher: &mock.Fetcher{}, Extractor: &mock.Extractor{}}

		_, err := svc.Trending(context.Background(), -1)

		assert.Equal(t, ficfetch.EINVALID, ficfetch.ErrorCode(err))
	})
}

// TestService_EndToEnd wires the real cache, fetcher and extractor against
// a fake upstream.
func TestService_EndToEnd(t *testing.T) {
	t.Parallel()

	const storyPage = `<html><body>
<h2 class="title heading">My Fic</h2>
<h3 class="byline heading"><a rel="author" href="/users/me">me</a></h3>
<div id="chapters">
<div class="chapter"><div class="userstuff module" role="article">Ch1 text</div></div>
<div class="chapter"><div class="userstuff module" role="article">Ch2 text</div></div>
</div></body></html>`

	var total atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		total.Add(1)

		if !strings.HasPrefix(r.Header.Get("User-Agent"), "Mozilla/") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/works/42":
			_, _ = w.Write([]byte(storyPage))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	extractor, err := goquery.NewExtractor(upstream.URL)
	require.NoError(t, err)

	svc := &ao3.Service{
		BaseURL:   upstream.URL,
		Fetcher:   cache.NewFetcher(fichttp.NewFetcher(), cache.New(), nil),
		Extractor: extractor,
	}

	story, err := svc.FindStory(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "My Fic", story.Title)
	assert.Equal(t, "me", story.Author)
	assert.Equal(t, []string{"Ch1 text", "Ch2 text"}, story.Chapters)

	_, err = svc.FindStory(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int32(1), total.Load(), "second request should be served from cache")

	_, err = svc.FindStory(context.Background(), "43")
	require.Error(t, err)
	assert.Equal(t, ficfetch.EUPSTREAM, ficfetch.ErrorCode(err))
	assert.Equal(t, http.StatusNotFound, ficfetch.UpstreamStatus(err))

	_, err = svc.FindStory(context.Background(), "43")
	require.Error(t, err)
	assert.Equal(t, int32(3), total.Load(), "failures are not cached")
}
