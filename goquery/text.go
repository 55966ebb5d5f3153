package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ficfetch"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parse turns raw markup into a queryable document. The HTML5 parser
// recovers from almost anything, including stray bytes that are not UTF-8,
// so only blank input and input without a single element are rejected.
func parse(raw string) (*goquery.Document, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ficfetch.Errorf(ficfetch.EEXTRACT, "empty document")
	}

	raw = strings.ToValidUTF8(raw, "\uFFFD")
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, ficfetch.Errorf(ficfetch.EEXTRACT, "failed to parse HTML: %v", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	// The parser always synthesizes html, head and body.
	if doc.Find("head *, body *").Length() == 0 {
		return nil, ficfetch.Errorf(ficfetch.EEXTRACT, "document contains no markup")
	}
	return doc, nil
}

// text returns the rendered text of the first node in sel, or def when sel
// is empty or renders to nothing.
func text(sel *goquery.Selection, def string) string {
	if sel.Length() == 0 {
		return def
	}
	if s := renderText(sel.Nodes[0]); s != "" {
		return s
	}
	return def
}

// blockElements start a new paragraph when rendered as text.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Blockquote: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Hr: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Table: true, atom.Tr: true, atom.Center: true, atom.Dd: true, atom.Dt: true,
}

// renderText flattens the subtree under n into readable text: runs of
// whitespace collapse to one space, <br> becomes a line break and block
// elements are separated by a blank line.
func renderText(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data))
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Br:
				b.WriteString("\n")
				return
			}
			block := blockElements[n.DataAtom]
			if block {
				b.WriteString("\n\n")
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if block {
				b.WriteString("\n\n")
			}
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	walk(n)

	return tidyLines(b.String())
}

// collapseSpace replaces every run of whitespace with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// tidyLines trims every line and allows at most one blank line in a row.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
