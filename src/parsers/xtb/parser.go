// Package xtb parses XTB xStation spreadsheet exports: one workbook with a
// cash-operations sheet per account, quantities and prices embedded in the
// operation comment.
package xtb

import (
	"regexp"
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers/textblock"
	"github.com/username/portfolion/backend/src/utils"
)

const platform = "xtb"

var operationKinds = map[string]models.TransactionKind{
	"stocks/etf purchase":  models.KindBuy,
	"stocks/etf sale":      models.KindSell,
	"dividend":             models.KindDividend,
	"deposit":              models.KindDeposit,
	"withdrawal":           models.KindWithdrawal,
	"commission":           models.KindFee,
	"free funds interests": models.KindRevenue,
}

// commentRe captures "OPEN BUY 10 @ 25.50" style comments.
var commentRe = regexp.MustCompile(`(?i)(?:open|close)\s+(?:buy|sell)\s+([\d.,]+)(?:/[\d.,]+)?\s*@\s*([\d.,]+)`)

type XTBParser struct{}

func NewParser() *XTBParser { return &XTBParser{} }

func (p *XTBParser) Name() string { return platform }

func (p *XTBParser) Accepts(kind extract.Kind) bool { return kind == extract.KindSheets }

func (p *XTBParser) Sniff(content extract.Content) bool {
	for name, rows := range content.Sheets {
		if strings.Contains(strings.ToUpper(name), "CASH OPERATION") {
			return true
		}
		if len(rows) > 0 && headerIndex(rows[0]) != nil {
			return true
		}
	}
	return false
}

// headerIndex recognizes the export header and maps needed columns.
// Returns nil when the row is not the expected header.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int)
	for i, cell := range header {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "type", "typ":
			cols["kind"] = i
		case "time", "čas":
			cols["date"] = i
		case "symbol":
			cols["symbol"] = i
		case "comment", "komentář", "komentar":
			cols["comment"] = i
		case "amount", "částka", "castka":
			cols["amount"] = i
		case "currency", "měna", "mena":
			cols["currency"] = i
		}
	}
	if _, ok := cols["kind"]; !ok {
		return nil
	}
	if _, ok := cols["amount"]; !ok {
		return nil
	}
	return cols
}

func (p *XTBParser) Parse(content extract.Content) ([]models.RawTransaction, error) {
	if !p.Accepts(content.Kind) {
		return nil, &textblock.WrongContentError{Parser: platform, Got: content.Kind}
	}

	var records []models.RawTransaction
	for _, rows := range content.Sheets {
		if len(rows) == 0 {
			continue
		}
		cols := headerIndex(rows[0])
		if cols == nil {
			continue
		}
		for _, row := range rows[1:] {
			record, ok := p.parseRow(row, cols)
			if !ok {
				continue
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (p *XTBParser) parseRow(row []string, cols map[string]int) (models.RawTransaction, bool) {
	kind, ok := operationKinds[strings.ToLower(strings.TrimSpace(cell(row, cols, "kind")))]
	if !ok {
		return models.RawTransaction{}, false
	}
	// xStation timestamps carry a time part; the date token leads.
	dateToken := strings.TrimSpace(cell(row, cols, "date"))
	if fields := strings.Fields(dateToken); len(fields) > 0 && strings.Contains(fields[0], "-") {
		dateToken = fields[0]
	}
	date := utils.ParseLocalDate(dateToken)
	if date == "" {
		return models.RawTransaction{}, false
	}
	amount, ok := utils.ParseAmbiguousNumber(cell(row, cols, "amount"))
	if !ok {
		return models.RawTransaction{}, false
	}

	record := models.RawTransaction{
		Date:        date,
		Symbol:      strings.TrimSpace(cell(row, cols, "symbol")),
		TotalAmount: amount,
		Currency:    strings.TrimSpace(cell(row, cols, "currency")),
		Kind:        kind,
		AssetClass:  assetClassFor(kind),
		Notes:       strings.TrimSpace(cell(row, cols, "comment")),
	}
	if m := commentRe.FindStringSubmatch(record.Notes); m != nil {
		if quantity, ok := utils.ParseAmbiguousNumber(m[1]); ok {
			record.Quantity = quantity
			record.HasQuantity = true
		}
		if price, ok := utils.ParseAmbiguousNumber(m[2]); ok {
			record.UnitPrice = price
			record.HasPrice = true
		}
	}
	if kind == models.KindDividend && !record.HasQuantity {
		record.Quantity = 1
		record.HasQuantity = true
		record.UnitPrice = amount
		record.HasPrice = true
	}
	return record, true
}

func assetClassFor(kind models.TransactionKind) models.AssetClass {
	switch kind {
	case models.KindDeposit, models.KindWithdrawal, models.KindRevenue:
		return models.AssetCash
	case models.KindFee:
		return models.AssetFee
	default:
		return models.AssetStock
	}
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
