package generate

import "fmt"

// BackendError is a transport failure or non-success status from the
// generation backend.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("backend: %s", truncate(e.Message, 200))
	}
	return fmt.Sprintf("backend status %d: %s", e.StatusCode, truncate(e.Message, 200))
}

// ParseError means the backend payload was malformed even after repair.
// Stage is "envelope" for the chat response wrapper and "schema" for the
// repaired Q&A content. Raw and Repaired are truncated excerpts for logs.
type ParseError struct {
	Stage    string
	Raw      string
	Repaired string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// GenerationError means the attempt loop exhausted its retry budget for one
// chunk. It is local: the chunk contributes zero items but siblings proceed.
type GenerationError struct {
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
