package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/username/portfolion/backend/src/logger"
)

// fromPDF concatenates each page's text items in reading order. No layout
// reconstruction is attempted beyond line concatenation; the block-based
// parsers segment the stream by date tokens instead.
func fromPDF(data []byte) (Content, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Content{}, fmt.Errorf("pdf: opening document: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.L.Warn("pdf: skipping unreadable page", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return Content{Kind: KindText, Format: "pdf", Text: b.String()}, nil
}
