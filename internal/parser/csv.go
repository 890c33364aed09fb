package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/qaforge/internal/document"
)

// CSVParser handles CSV files. Rows render as "header: value" lines in
// batches of 20, each batch under its own heading so row groups segment
// like document sections.
type CSVParser struct{}

const csvBatchSize = 20

func (p *CSVParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &document.Document{
		Name:  filename,
		Title: titleStem(filename),
	}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	dataRows := records[1:]

	var out strings.Builder
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		// 1-indexed source rows, skipping the header row.
		fmt.Fprintf(&out, "## Rows %d-%d\n\n", i+2, end+1)
		for _, row := range dataRows[i:end] {
			parts := make([]string, 0, len(row))
			for j, cell := range row {
				if j < len(headers) {
					parts = append(parts, headers[j]+": "+cell)
				} else {
					parts = append(parts, cell)
				}
			}
			out.WriteString(strings.Join(parts, ", "))
			out.WriteString("\n")
		}
	}

	doc.Text = out.String()
	return doc, nil
}
