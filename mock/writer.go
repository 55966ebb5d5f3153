package mock

import (
	"context"

	"github.com/fwojciec/ficfetch"
)

var _ ficfetch.StoryWriter = (*StoryWriter)(nil)

// StoryWriter is a mock implementation of ficfetch.StoryWriter.
type StoryWriter struct {
	WriteStoryFn func(ctx context.Context, story *ficfetch.Story) (string, error)
}

func (w *StoryWriter) WriteStory(ctx context.Context, story *ficfetch.Story) (string, error) {
	return w.WriteStoryFn(ctx, story)
}
