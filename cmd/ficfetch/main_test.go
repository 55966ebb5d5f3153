package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/ficfetch"
	main "github.com/fwojciec/ficfetch/cmd/ficfetch"
	"github.com/fwojciec/ficfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyPage = `<html><body>
<h2 class="title heading">My Fic</h2>
<h3 class="byline heading"><a rel="author" href="/users/writer">writer</a></h3>
<div class="summary module"><blockquote class="userstuff"><p>A summary.</p></blockquote></div>
<div id="chapters">
<div class="userstuff module" role="article"><p>Ch1</p></div>
<div class="userstuff module" role="article"><p>Ch2</p></div>
</div>
</body></html>`

const listingPage = `<html><body><ol class="work index group">
<li id="work_1" class="work blurb group" role="article">
<div class="header module">
<h4 class="heading"><a href="/works/1">First</a> by <a rel="author" href="/users/a">a</a></h4>
<ul class="required-tags"><li><span class="rating-teen rating"><span class="text">Teen And Up Audiences</span></span></li></ul>
</div>
<dl class="stats"><dd class="words">1,200</dd></dl>
</li>
</ol></body></html>`

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "ficfetch")
	assert.Contains(t, stdout.String(), "story")
	assert.Contains(t, stdout.String(), "search")
	assert.Contains(t, stdout.String(), "trending")
	assert.Contains(t, stdout.String(), "serve")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_StoryRequiresID(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"story"}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_Story(t *testing.T) {
	t.Parallel()

	var gotURL string
	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
			gotURL = req.Fingerprint()
			return storyPage, nil
		},
		CloseFn: func() error { return nil },
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--delay", "0s", "--base-url", "https://ao3.test", "story", "42"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "https://ao3.test/works/42?view_adult=true&view_full_work=true", gotURL)

	var story ficfetch.Story
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &story))
	assert.Equal(t, "42", story.ID)
	assert.Equal(t, "My Fic", story.Title)
	assert.Equal(t, "writer", story.Author)
	assert.Equal(t, "A summary.", story.Summary)
	assert.Equal(t, []string{"Ch1", "Ch2"}, story.Chapters)
	assert.Contains(t, stderr.String(), "find story")
}

func TestMain_Run_StoryUpstreamError(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, _ ficfetch.Request) (string, error) {
			return "", ficfetch.UpstreamErrorf(404, "HTTP 404")
		},
		CloseFn: func() error { return nil },
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--delay", "0s", "story", "42"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, ficfetch.EUPSTREAM, ficfetch.ErrorCode(err))
	assert.Contains(t, stderr.String(), "error: HTTP 404")
	assert.Empty(t, stdout.String())
}

func TestMain_Run_SearchPages(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
			calls.Add(1)
			return listingPage, nil
		},
		CloseFn: func() error { return nil },
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--delay", "0s", "search", "Fluff", "--pages", "3"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, bytes.Count(stdout.Bytes(), []byte("First")))
	assert.Contains(t, stdout.String(), "1200 words")
	assert.Contains(t, stderr.String(), "search pages")
	assert.Contains(t, stderr.String(), "pages=3")
}

func TestMain_Run_ClosesFetcher(t *testing.T) {
	t.Parallel()

	var closed atomic.Bool
	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, _ ficfetch.Request) (string, error) {
			return listingPage, nil
		},
		CloseFn: func() error {
			closed.Store(true)
			return nil
		},
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--delay", "0s", "trending"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.True(t, closed.Load())
}

func TestMain_Run_BaseURLFromEnv(t *testing.T) {
	t.Setenv("FICFETCH_BASE_URL", "https://mirror.test")
	t.Setenv("FICFETCH_DELAY", "0s")

	var gotURL string
	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(_ context.Context, req ficfetch.Request) (string, error) {
			gotURL = req.URL
			return listingPage, nil
		},
		CloseFn: func() error { return nil },
	}
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"trending", "--json"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "https://mirror.test/works", gotURL)

	var hits []ficfetch.SearchHit
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "https://mirror.test/works/1", hits[0].URL)
}
