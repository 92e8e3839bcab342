package extract

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/username/portfolion/backend/src/logger"
)

// fromDelimited reads a delimited text file into a row grid. The delimiter
// is sniffed from the first line; quoting follows CSV semantics (doubled
// quotes inside a quoted field, structural characters ignored inside
// quotes). Rows made entirely of empty cells are discarded.
func fromDelimited(data []byte) (Content, error) {
	text := DecodeBest(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.L.Warn("delimited: skipping unreadable record", "error", err)
			continue
		}
		if emptyRow(record) {
			continue
		}
		rows = append(rows, record)
	}

	return Content{Kind: KindRows, Format: "delimited", Rows: rows}, nil
}

// sniffDelimiter picks the delimiter with the most occurrences in the first
// line, among comma, semicolon and tab. Comma wins ties.
func sniffDelimiter(text string) rune {
	line, _, _ := strings.Cut(text, "\n")
	delim, best := ',', strings.Count(line, ",")
	for _, candidate := range []rune{';', '\t'} {
		if n := strings.Count(line, string(candidate)); n > best {
			delim, best = candidate, n
		}
	}
	return delim
}
