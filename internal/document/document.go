package document

// Document is a source file's text content, normalized for generation:
// section headings carry leading '#' markers so the segmenter can split
// any source format by heading. Immutable within a processing run; the
// persisted Q&A file identity derives from Name.
type Document struct {
	Name  string // source file name
	Title string // from document metadata or the file stem
	Text  string
}
