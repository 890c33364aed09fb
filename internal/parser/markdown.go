package parser

import (
	"io"

	"github.com/dgallion1/qaforge/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The source is already in the
// heading-marked form the segmenter wants, so the text passes through
// unchanged; goldmark is used to pull the document title from the first
// top-level heading.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &document.Document{
		Name:  filename,
		Title: titleStem(filename),
		Text:  string(src),
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))
	if title := firstHeading(root, src); title != "" {
		doc.Title = title
	}
	return doc, nil
}

// firstHeading returns the text of the lowest-level heading that appears
// first in the document, or "" when there are no headings.
func firstHeading(root ast.Node, src []byte) string {
	best := ""
	bestLevel := 0
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		if bestLevel == 0 || h.Level < bestLevel {
			best = string(h.Text(src))
			bestLevel = h.Level
		}
		if bestLevel == 1 {
			break
		}
	}
	return best
}
