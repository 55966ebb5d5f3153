package ficfetch

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as one chapter block,
	// into Markdown.
	Convert(html string) (string, error)
}
