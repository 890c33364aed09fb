package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/qaforge/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files: h1-h6 render as '#'-marked heading lines
// and text blocks become paragraphs separated by blank lines.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &document.Document{
		Name:  filename,
		Title: titleStem(filename),
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var out strings.Builder
	writeBlock := func(line string) {
		if line == "" {
			return
		}
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(line)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if t := textContent(n); t != "" {
					writeBlock(strings.Repeat("#", level) + " " + t)
				}
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				writeBlock(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	doc.Text = out.String()
	return doc, nil
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
