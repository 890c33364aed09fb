package parser

import (
	"io"

	"github.com/dgallion1/qaforge/internal/document"
)

// TextParser handles plain text files. The content passes through as-is:
// lines starting with '#' already read as headings to the segmenter.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &document.Document{
		Name:  filename,
		Title: titleStem(filename),
		Text:  string(src),
	}, nil
}
