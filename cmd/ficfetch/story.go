package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ficfetch"
)

// Run executes the story command.
func (c *StoryCmd) Run(deps *Dependencies) error {
	story, err := deps.Archive.FindStory(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ficfetch.ErrorMessage(err))
		return err
	}

	if !c.Markdown {
		return printJSON(deps, story)
	}

	path, err := deps.Writer.WriteStory(deps.Ctx, story)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ficfetch.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %q (%d chapters) to %s\n", story.Title, len(story.Chapters), path)
	return nil
}

func printJSON(deps *Dependencies, v any) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
