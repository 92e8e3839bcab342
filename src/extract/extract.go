// Package extract turns raw statement files into parser-ready content:
// a decoded text stream, a two-dimensional row grid, or a map of sheet
// grids, selected by file extension.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind is the shape of extracted content a provider parser consumes.
type Kind string

const (
	KindText   Kind = "text"
	KindRows   Kind = "rows"
	KindSheets Kind = "sheets"
)

// Content is a closed union over the three content shapes. Exactly one of
// Text, Rows and Sheets is populated, per Kind. Format records the source
// file family for diagnostics.
type Content struct {
	Kind   Kind
	Format string // "pdf", "plain", "markup", "delimited", "spreadsheet"
	Text   string
	Rows   [][]string
	Sheets map[string][][]string
}

// ErrUnsupportedFormat marks a file no extractor understands. The importer
// reports it per file and continues the batch.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// FromFile extracts content from a raw file by extension.
func FromFile(name string, data []byte) (Content, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return fromPDF(data)
	case ".html", ".htm":
		return fromMarkup(data)
	case ".csv":
		return fromDelimited(data)
	case ".xlsx":
		return fromSpreadsheet(data)
	case ".txt":
		return Content{Kind: KindText, Format: "plain", Text: DecodeBest(data)}, nil
	default:
		return Content{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
