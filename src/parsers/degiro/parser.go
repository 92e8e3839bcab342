// Package degiro parses the DEGIRO account statement CSV export (Czech
// locale).
package degiro

import (
	"regexp"
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers/textblock"
	"github.com/username/portfolion/backend/src/utils"
)

const platform = "degiro"

// Account statement column layout. The export has a fixed shape; rows
// shorter than the layout are noise (page footers, disclaimers).
const (
	colDate = iota
	colTime
	colValueDate
	colProduct
	colISIN
	colDescription
	colRate
	colChange
	colChangeCurrency
	colBalance
	colBalanceCurrency
	colOrderID
	columnCount
)

// tradeRe captures "Nákup 10 Apple Inc.@25,5 USD" style descriptions.
var tradeRe = regexp.MustCompile(`(?i)(nákup|nakup|prodej)\s+([\d\s.,]+)\s+(.+?)\s*@\s*([\d,.]+)`)

type DegiroParser struct{}

func NewParser() *DegiroParser { return &DegiroParser{} }

func (p *DegiroParser) Name() string { return platform }

func (p *DegiroParser) Accepts(kind extract.Kind) bool { return kind == extract.KindRows }

func (p *DegiroParser) Sniff(content extract.Content) bool {
	if len(content.Rows) == 0 {
		return false
	}
	header := strings.ToLower(strings.Join(content.Rows[0], "|"))
	return strings.Contains(header, "isin") &&
		strings.Contains(header, "produkt") &&
		strings.Contains(header, "objedn")
}

func (p *DegiroParser) Parse(content extract.Content) ([]models.RawTransaction, error) {
	if !p.Accepts(content.Kind) {
		return nil, &textblock.WrongContentError{Parser: platform, Got: content.Kind}
	}

	var records []models.RawTransaction
	for i, row := range content.Rows {
		if i == 0 || len(row) < columnCount {
			continue
		}
		date := utils.ParseLocalDate(row[colDate])
		if date == "" {
			continue
		}

		record, ok := classify(row)
		if !ok {
			continue
		}
		record.Date = date
		record.ISIN = strings.TrimSpace(row[colISIN])
		if record.CompanyName == "" {
			record.CompanyName = strings.TrimSpace(row[colProduct])
		}
		if record.Currency == "" {
			record.Currency = strings.TrimSpace(row[colChangeCurrency])
		}
		record.Notes = strings.TrimSpace(row[colDescription])
		records = append(records, record)
	}
	return records, nil
}

// classify performs the broker-specific reading of the description column.
// Rows it cannot classify are dropped as noise.
func classify(row []string) (models.RawTransaction, bool) {
	description := row[colDescription]
	lower := strings.ToLower(description)
	change, hasChange := utils.ParseAmbiguousNumber(row[colChange])

	if m := tradeRe.FindStringSubmatch(description); m != nil {
		kind := models.KindBuy
		if strings.EqualFold(m[1], "prodej") {
			kind = models.KindSell
		}
		quantity, qok := utils.ParseAmbiguousNumber(m[2])
		price, pok := utils.ParseAmbiguousNumber(m[4])
		if !qok || !pok {
			return models.RawTransaction{}, false
		}
		total := change
		if !hasChange {
			total = quantity * price
		}
		return models.RawTransaction{
			Kind:        kind,
			AssetClass:  models.AssetStock,
			CompanyName: strings.TrimSpace(m[3]),
			Quantity:    quantity,
			HasQuantity: true,
			UnitPrice:   price,
			HasPrice:    true,
			TotalAmount: total,
		}, true
	}

	switch {
	case strings.Contains(lower, "dividenda"):
		if !hasChange {
			return models.RawTransaction{}, false
		}
		return models.RawTransaction{
			Kind: models.KindDividend, AssetClass: models.AssetStock,
			Quantity: 1, HasQuantity: true,
			UnitPrice: change, HasPrice: true,
			TotalAmount: change,
		}, true
	case strings.Contains(lower, "vklad"):
		return cashMovement(models.KindDeposit, change, hasChange)
	case strings.Contains(lower, "výběr"), strings.Contains(lower, "vyber"):
		return cashMovement(models.KindWithdrawal, change, hasChange)
	case strings.Contains(lower, "poplatek"):
		if !hasChange {
			return models.RawTransaction{}, false
		}
		return models.RawTransaction{
			Kind: models.KindFee, AssetClass: models.AssetFee,
			TotalAmount: change,
		}, true
	}
	return models.RawTransaction{}, false
}

func cashMovement(kind models.TransactionKind, change float64, ok bool) (models.RawTransaction, bool) {
	if !ok {
		return models.RawTransaction{}, false
	}
	return models.RawTransaction{
		Kind:        kind,
		AssetClass:  models.AssetCash,
		TotalAmount: change,
	}, true
}
