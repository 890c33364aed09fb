// Package repair normalizes raw model output into parseable JSON. Each
// step targets one failure mode seen in practice (markdown fences,
// mid-generation truncation, trailing commas, stray newlines, unescaped
// Windows paths). Steps run in a fixed order: fence stripping must happen
// before truncation repair, and comma removal must follow it. Repair
// never fails — if the result still doesn't parse, the caller retries.
package repair

import (
	"regexp"
	"strings"
)

// Repair applies every step in order. Idempotent: repairing repaired
// output is a no-op.
func Repair(raw string) string {
	s := StripCodeFence(raw)
	s = CloseTruncated(s)
	s = RemoveTrailingCommas(s)
	s = CollapseNewlines(s)
	s = NormalizeBackslashes(s)
	return s
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeFence removes a surrounding markdown code fence when both the
// opening and closing markers are present; otherwise the text is returned
// unchanged.
func StripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := codeFenceRe.FindStringSubmatch(trimmed); len(m) > 1 {
		return m[1]
	}
	return s
}

// CloseTruncated recovers a payload the backend cut off mid-generation.
// If the text already ends with a closing brace it is left alone. Otherwise
// the text is cut back to the last fully formed question/answer entry and
// the questions array and its enclosing object are closed. With no entry
// boundary to anchor on, it falls back to cutting at the last "}}" pair and
// appending one brace. Truncation may leave a dangling comma; trailing-comma
// removal runs after this step.
func CloseTruncated(s string) string {
	if strings.HasSuffix(strings.TrimRight(s, " \t\r\n"), "}") {
		return s
	}
	if i := strings.LastIndex(s, `,"answer":`); i >= 0 {
		// An entry terminator after the last answer key means that entry
		// completed and the cut happened in the one after it.
		if e := strings.LastIndex(s, `"}`); e > i {
			return s[:e+2] + "]}"
		}
		// The entry owning the answer key is itself cut off; drop it.
		if j := strings.LastIndex(s[:i], `{"question":`); j >= 0 {
			return s[:j] + "]}"
		}
	}
	if e := strings.LastIndex(s, "}}"); e >= 0 {
		return s[:e+2] + "}"
	}
	return s
}

var trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)

// RemoveTrailingCommas deletes commas immediately preceding a closing
// bracket or brace, repeating until none remain.
func RemoveTrailingCommas(s string) string {
	for {
		next := trailingCommaRe.ReplaceAllString(s, "${1}")
		if next == s {
			return next
		}
		s = next
	}
}

var newlineRunRe = regexp.MustCompile(`\s*\n\s*`)

// CollapseNewlines replaces any whitespace run containing a newline with a
// single space.
func CollapseNewlines(s string) string {
	return newlineRunRe.ReplaceAllString(s, " ")
}

// NormalizeBackslashes keeps escaped quotes and rewrites every other
// backslash to a forward slash so unescaped Windows paths don't break the
// parser. Lossy by design: a legitimate \n or \t escape inside a string
// becomes /n or /t.
func NormalizeBackslashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(s) && s[i+1] == '"' {
			b.WriteString(`\"`)
			i++
		} else {
			b.WriteByte('/')
		}
	}
	return b.String()
}
