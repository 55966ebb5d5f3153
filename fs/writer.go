// Package fs exports stories as markdown files.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/ficfetch"
	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header written at the top of each exported story.
type Frontmatter struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Source   string `yaml:"source,omitempty"`
	Chapters int    `yaml:"chapters"`
	Exported string `yaml:"exported"`
}

// StoryPath returns the file name for a story relative to the export
// directory.
func StoryPath(story *ficfetch.Story) (string, error) {
	if story.ID == "" {
		return "", ficfetch.Errorf(ficfetch.EINVALID, "story id required")
	}
	if strings.ContainsAny(story.ID, `/\`) || story.ID == "." || story.ID == ".." {
		return "", ficfetch.Errorf(ficfetch.EINVALID, "story id %q is not a valid file name", story.ID)
	}
	return story.ID + ".md", nil
}

// FormatStory formats a story with YAML frontmatter. chapters holds the
// rendered body of each chapter in order.
func FormatStory(story *ficfetch.Story, chapters []string, exported time.Time) (string, error) {
	fm, err := yaml.Marshal(Frontmatter{
		ID:       story.ID,
		Title:    story.Title,
		Author:   story.Author,
		Source:   story.URL,
		Chapters: len(chapters),
		Exported: exported.Format("2006-01-02"),
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n# ")
	b.WriteString(story.Title)
	b.WriteString("\n\nby ")
	b.WriteString(story.Author)
	b.WriteString("\n")
	if story.Summary != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(story.Summary, "\n") {
			b.WriteString(strings.TrimRight("> "+line, " "))
			b.WriteString("\n")
		}
	}
	for i, ch := range chapters {
		fmt.Fprintf(&b, "\n## Chapter %d\n\n", i+1)
		b.WriteString(ch)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Ensure StoryWriter implements ficfetch.StoryWriter at compile time.
var _ ficfetch.StoryWriter = (*StoryWriter)(nil)

// StoryWriter writes stories as markdown files to a directory.
type StoryWriter struct {
	baseDir   string
	converter ficfetch.Converter

	// Now returns the export date. Defaults to time.Now.
	Now func() time.Time
}

// NewStoryWriter creates a new StoryWriter that writes to baseDir. Chapter
// HTML is rendered with converter; when converter is nil, or a story
// carries no chapter HTML, the plain chapter text is written instead.
func NewStoryWriter(baseDir string, converter ficfetch.Converter) *StoryWriter {
	return &StoryWriter{baseDir: baseDir, converter: converter, Now: time.Now}
}

// WriteStory writes story to disk and returns the path of the new file.
func (w *StoryWriter) WriteStory(ctx context.Context, story *ficfetch.Story) (string, error) {
	relPath, err := StoryPath(story)
	if err != nil {
		return "", err
	}

	chapters, err := w.render(story)
	if err != nil {
		return "", err
	}

	content, err := FormatStory(story, chapters, w.Now())
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}
	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return fullPath, nil
}

func (w *StoryWriter) render(story *ficfetch.Story) ([]string, error) {
	if w.converter == nil || len(story.ChapterHTML) != len(story.Chapters) {
		return story.Chapters, nil
	}

	out := make([]string, len(story.ChapterHTML))
	for i, html := range story.ChapterHTML {
		// Blank chapters convert to an error; keep them as empty bodies.
		if strings.TrimSpace(html) == "" {
			continue
		}
		md, err := w.converter.Convert(html)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", i+1, err)
		}
		out[i] = md
	}
	return out, nil
}
