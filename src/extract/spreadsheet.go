package extract

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/username/portfolion/backend/src/logger"
)

// fromSpreadsheet converts every sheet of a workbook into a row grid with
// the header row at index 0. Cell values keep their displayed form so dates
// in spreadsheet-native formats go through the locale parsers later.
func fromSpreadsheet(data []byte) (Content, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Content{}, fmt.Errorf("spreadsheet: opening workbook: %w", err)
	}
	defer workbook.Close()

	sheets := make(map[string][][]string)
	for _, name := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(name)
		if err != nil {
			logger.L.Warn("spreadsheet: skipping unreadable sheet", "sheet", name, "error", err)
			continue
		}
		var kept [][]string
		for _, row := range rows {
			if !emptyRow(row) {
				kept = append(kept, row)
			}
		}
		sheets[name] = kept
	}

	return Content{Kind: KindSheets, Format: "spreadsheet", Sheets: sheets}, nil
}
