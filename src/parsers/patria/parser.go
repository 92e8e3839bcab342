// Package patria parses Patria Finance HTML trade confirmations: one table
// of executed orders with Czech headers, extracted upstream into a row grid.
package patria

import (
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers/textblock"
	"github.com/username/portfolion/backend/src/utils"
)

const platform = "patria"

var kinds = map[string]models.TransactionKind{
	"nákup":     models.KindBuy,
	"nakup":     models.KindBuy,
	"prodej":    models.KindSell,
	"dividenda": models.KindDividend,
	"vklad":     models.KindDeposit,
	"výběr":     models.KindWithdrawal,
	"poplatek":  models.KindFee,
}

type PatriaParser struct{}

func NewParser() *PatriaParser { return &PatriaParser{} }

func (p *PatriaParser) Name() string { return platform }

func (p *PatriaParser) Accepts(kind extract.Kind) bool { return kind == extract.KindRows }

func (p *PatriaParser) Sniff(content extract.Content) bool {
	_, ok := findHeader(content.Rows)
	return ok
}

// findHeader locates the column-name row. The statement carries legal
// boilerplate rows above the table, so the header is searched, not assumed
// at index 0.
func findHeader(rows [][]string) (int, bool) {
	for i, row := range rows {
		joined := strings.ToLower(strings.Join(row, "|"))
		if strings.Contains(joined, "datum") &&
			strings.Contains(joined, "objem") &&
			strings.Contains(joined, "poplatek") {
			return i, true
		}
	}
	return 0, false
}

func (p *PatriaParser) Parse(content extract.Content) ([]models.RawTransaction, error) {
	if !p.Accepts(content.Kind) {
		return nil, &textblock.WrongContentError{Parser: platform, Got: content.Kind}
	}

	headerIdx, ok := findHeader(content.Rows)
	if !ok {
		return nil, nil
	}
	cols := columnIndex(content.Rows[headerIdx])

	var records []models.RawTransaction
	for _, row := range content.Rows[headerIdx+1:] {
		record, ok := p.parseRow(row, cols)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// columnIndex maps the columns the parser needs to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int)
	for i, cell := range header {
		switch {
		case containsFold(cell, "datum"):
			cols["date"] = i
		case containsFold(cell, "typ"):
			cols["kind"] = i
		case containsFold(cell, "symbol"), containsFold(cell, "titul"):
			cols["symbol"] = i
		case containsFold(cell, "isin"):
			cols["isin"] = i
		case containsFold(cell, "počet"), containsFold(cell, "pocet"):
			cols["quantity"] = i
		case containsFold(cell, "cena"):
			cols["price"] = i
		case containsFold(cell, "měna"), containsFold(cell, "mena"):
			cols["currency"] = i
		case containsFold(cell, "objem"):
			cols["total"] = i
		case containsFold(cell, "poplatek"):
			cols["fee"] = i
		}
	}
	return cols
}

func (p *PatriaParser) parseRow(row []string, cols map[string]int) (models.RawTransaction, bool) {
	date := utils.ParseLocalDate(cell(row, cols, "date"))
	if date == "" {
		return models.RawTransaction{}, false
	}
	kind, ok := kinds[strings.ToLower(strings.TrimSpace(cell(row, cols, "kind")))]
	if !ok {
		return models.RawTransaction{}, false
	}

	total, currency, ok := utils.ExtractCurrencyAndNumber(cell(row, cols, "total"))
	if !ok {
		return models.RawTransaction{}, false
	}
	if c := strings.ToUpper(strings.TrimSpace(cell(row, cols, "currency"))); c != "" {
		currency = c
	}

	record := models.RawTransaction{
		Date:        date,
		Symbol:      strings.TrimSpace(cell(row, cols, "symbol")),
		ISIN:        strings.TrimSpace(cell(row, cols, "isin")),
		TotalAmount: total,
		Currency:    currency,
		Kind:        kind,
		AssetClass:  assetClassFor(kind),
	}
	if quantity, ok := utils.ParseAmbiguousNumber(cell(row, cols, "quantity")); ok {
		record.Quantity = quantity
		record.HasQuantity = true
	}
	if price, ok := utils.ParseAmbiguousNumber(cell(row, cols, "price")); ok {
		record.UnitPrice = price
		record.HasPrice = true
	}
	if fee, feeCurrency, ok := utils.ExtractCurrencyAndNumber(cell(row, cols, "fee")); ok && fee > 0 {
		if feeCurrency == "" {
			feeCurrency = currency
		}
		record.Fee = &models.FeeHint{Amount: fee, Currency: feeCurrency}
	}
	return record, true
}

func assetClassFor(kind models.TransactionKind) models.AssetClass {
	switch kind {
	case models.KindDeposit, models.KindWithdrawal:
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

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
