package segment

import "strings"

// Strategy selects how text is divided into chunks. Strategies are ordered
// from coarsest to finest; callers fall through the list when a coarser
// split does not yield enough material.
type Strategy int

const (
	// Whole emits the full text as a single chunk.
	Whole Strategy = iota
	// ByHeading starts a new chunk at every line beginning with '#'.
	ByHeading
	// ByParagraph starts a new chunk after two or more consecutive blank lines.
	ByParagraph
)

func (s Strategy) String() string {
	switch s {
	case Whole:
		return "whole"
	case ByHeading:
		return "heading"
	case ByParagraph:
		return "paragraph"
	}
	return "unknown"
}

// Fallbacks is the order in which finer strategies are tried when a
// whole-chunk attempt underperforms.
var Fallbacks = []Strategy{ByHeading, ByParagraph}

// Split divides text into ordered chunks using the given strategy.
// Concatenating the chunks reproduces the input: lines keep their
// terminators and each line lands in exactly one chunk. Whitespace-only
// runs merge into the following chunk rather than forming one of their
// own, and the result is never empty — if nothing qualifies, the full
// text is the sole chunk.
func Split(text string, strategy Strategy) []string {
	switch strategy {
	case ByHeading:
		return splitAt(text, func(line string, blanks int) bool {
			return strings.HasPrefix(line, "#")
		})
	case ByParagraph:
		return splitAt(text, func(line string, blanks int) bool {
			return blanks >= 2
		})
	default:
		return []string{text}
	}
}

// splitAt scans lines and starts a new chunk whenever breakBefore reports
// true, provided the current chunk has non-whitespace content. blanks is
// the count of consecutive blank lines including the current one (0 for a
// non-blank line).
func splitAt(text string, breakBefore func(line string, blanks int) bool) []string {
	var chunks []string
	var current strings.Builder
	blanks := 0

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			blanks++
		} else {
			blanks = 0
		}
		if breakBefore(line, blanks) && strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, current.String())
			current.Reset()
			blanks = 0
		}
		current.WriteString(line)
	}
	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, current.String())
	}

	if len(chunks) == 0 {
		return []string{text}
	}
	return chunks
}

// splitLines splits text after each newline, keeping the terminators so
// chunks concatenate back to the original bytes.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
