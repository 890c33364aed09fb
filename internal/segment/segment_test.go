package segment

import (
	"strings"
	"testing"
)

func TestSplit_Whole(t *testing.T) {
	text := "# Title\n\nSome body text.\n"
	chunks := Split(text, Whole)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected whole text back, got %q", chunks[0])
	}
}

func TestSplit_ByHeading(t *testing.T) {
	text := "intro before any heading\n# First\nbody one\n## Sub\nbody two\n"
	chunks := Split(text, ByHeading)
	want := []string{
		"intro before any heading\n",
		"# First\nbody one\n",
		"## Sub\nbody two\n",
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i, w := range want {
		if chunks[i] != w {
			t.Errorf("chunk[%d]: expected %q, got %q", i, w, chunks[i])
		}
	}
}

func TestSplit_ByHeading_NoHeadings(t *testing.T) {
	text := "plain text\nwith no markers\n"
	chunks := Split(text, ByHeading)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected whole text, got %q", chunks[0])
	}
}

func TestSplit_ByParagraph(t *testing.T) {
	// A single blank line does not break; two consecutive blank lines do.
	text := "para one line a\npara one line b\n\nstill para one\n\n\npara two\n"
	chunks := Split(text, ByParagraph)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.Contains(chunks[0], "still para one") {
		t.Errorf("single blank line should not break chunks, got %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "para two") {
		t.Errorf("expected second chunk to hold para two, got %q", chunks[1])
	}
}

func TestSplit_ByParagraph_NoBreaks(t *testing.T) {
	text := "one\n\ntwo\n\nthree\n"
	chunks := Split(text, ByParagraph)
	if len(chunks) != 1 {
		t.Fatalf("single blank lines only: expected 1 chunk, got %d", len(chunks))
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	texts := []string{
		"# A\nalpha\n# B\nbeta\n",
		"lead-in\n# One\nx\n\ny\n## Two\nz",
		"p1\n\n\np2\n\n\n\np3\n",
		"no structure at all",
	}
	for _, strategy := range []Strategy{ByHeading, ByParagraph} {
		for _, text := range texts {
			chunks := Split(text, strategy)
			if len(chunks) == 0 {
				t.Fatalf("%s: zero chunks for %q", strategy, text)
			}
			if got := strings.Join(chunks, ""); got != text {
				t.Errorf("%s: round trip mismatch\nwant %q\ngot  %q", strategy, text, got)
			}
		}
	}
}

func TestSplit_NeverEmitsWhitespaceOnlyChunk(t *testing.T) {
	text := "\n\n# A\nbody\n\n\n\n# B\nmore\n\n"
	for _, strategy := range []Strategy{ByHeading, ByParagraph} {
		for i, c := range Split(text, strategy) {
			if strings.TrimSpace(c) == "" {
				t.Errorf("%s: chunk[%d] is whitespace-only", strategy, i)
			}
		}
	}
}

func TestSplit_WhitespaceOnlyInput(t *testing.T) {
	text := "  \n\n\t\n"
	for _, strategy := range []Strategy{Whole, ByHeading, ByParagraph} {
		chunks := Split(text, strategy)
		if len(chunks) != 1 || chunks[0] != text {
			t.Errorf("%s: expected sole whole-text chunk, got %q", strategy, chunks)
		}
	}
}

func TestStrategyString(t *testing.T) {
	if Whole.String() != "whole" || ByHeading.String() != "heading" || ByParagraph.String() != "paragraph" {
		t.Error("unexpected strategy names")
	}
}
