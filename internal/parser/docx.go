package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/qaforge/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading-styled paragraphs render as
// '#'-marked lines; body paragraphs separate with blank lines.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "qaforge-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	parsed, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &document.Document{
		Name:  filename,
		Title: titleStem(filename),
	}

	var out strings.Builder
	for _, item := range parsed.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		if level := docxHeadingLevel(para); level > 0 {
			out.WriteString(strings.Repeat("#", level) + " " + text)
			if level == 1 && doc.Title == titleStem(filename) {
				doc.Title = text
			}
		} else {
			out.WriteString(text)
		}
	}

	doc.Text = out.String()
	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if strings.HasPrefix(style, "heading") && len(style) == len("heading")+1 {
		if c := style[len(style)-1]; c >= '1' && c <= '6' {
			return int(c - '0')
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
