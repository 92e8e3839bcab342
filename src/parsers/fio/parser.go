// Package fio parses Fio e-Broker statement exports: PDF text dumps in
// Czech with a narrative trade journal and, on some statements, a separate
// fixed-column trade table covering the same events.
package fio

import (
	"regexp"
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers/textblock"
	"github.com/username/portfolion/backend/src/utils"
)

const platform = "fio"

// kindRules is the classification vocabulary, in priority order. Fee comes
// last: trade blocks mention their fee ("poplatek") alongside the trade verb.
var kindRules = []textblock.KindRule{
	{Kind: models.KindDividend, Keywords: []string{"dividenda", "dividendy"}},
	{Kind: models.KindBuy, Keywords: []string{"nákup", "nakup", "koupě"}},
	{Kind: models.KindSell, Keywords: []string{"prodej"}},
	{Kind: models.KindDeposit, Keywords: []string{"vklad", "převod na účet"}},
	{Kind: models.KindWithdrawal, Keywords: []string{"výběr", "vyber"}},
	{Kind: models.KindFee, Keywords: []string{"poplatek", "odměna za"}},
}

// knownNames maps display names that appear in Fio statements to tickers,
// for blocks that carry no explicit symbol.
var knownNames = map[string]string{
	"apple":           "AAPL",
	"microsoft":       "MSFT",
	"alphabet":        "GOOGL",
	"čez":             "CEZ",
	"komerční banka":  "KOMB",
	"moneta":          "MONET",
	"erste group":     "ERBAG",
	"kofola":          "KOFOL",
	"philip morris čr": "TABAK",
}

// sideTableRe matches the instrument directory some statements carry
// elsewhere in the document: "AAPL US0378331005 Apple Inc."
var sideTableRe = regexp.MustCompile(`(?m)^\s*([A-Z][A-Z0-9]{1,9})\s+([A-Z]{2}[A-Z0-9]{9}[0-9])\s+(\S.*?)\s*$`)

// tableRowRe matches the fixed-column trade table:
// symbol kind quantity price ccy value ccy fee ccy date
var tableRowRe = regexp.MustCompile(
	`(?m)^\s*([A-Z][A-Z0-9]{1,9})\s+(\p{L}+)\s+([\d.,\x{00a0}]+)\s+([\d.,\x{00a0}]+)\s([A-Z]{3})\s+([\d.,\x{00a0}]+)\s([A-Z]{3})\s+([\d.,\x{00a0}]+)\s([A-Z]{3})\s+(\d{1,2}\.\s?\d{1,2}\.\s?\d{4}|\d{4}-\d{2}-\d{2})\s*$`)

var tableKinds = map[string]models.TransactionKind{
	"nákup":     models.KindBuy,
	"nakup":     models.KindBuy,
	"prodej":    models.KindSell,
	"dividenda": models.KindDividend,
}

type FioParser struct{}

func NewParser() *FioParser { return &FioParser{} }

func (p *FioParser) Name() string { return platform }

func (p *FioParser) Accepts(kind extract.Kind) bool { return kind == extract.KindText }

func (p *FioParser) Sniff(content extract.Content) bool {
	return strings.Contains(content.Text, "Fio banka") ||
		strings.Contains(content.Text, "e-Broker") ||
		strings.Contains(content.Text, "Obchody - vypořádané")
}

// Parse runs the narrative block pass and the tabular pass independently
// and merges them by signature key, so an event captured by both passes
// yields a single record.
func (p *FioParser) Parse(content extract.Content) ([]models.RawTransaction, error) {
	if !p.Accepts(content.Kind) {
		return nil, &textblock.WrongContentError{Parser: platform, Got: content.Kind}
	}

	directory := parseInstrumentDirectory(content.Text)
	tabular := p.parseTable(content.Text, directory)
	narrative := p.parseBlocks(content.Text, directory)

	return textblock.Merge(tabular, narrative), nil
}

// instrument is one row of the per-document ticker directory.
type instrument struct {
	isin string
	name string
}

func parseInstrumentDirectory(text string) map[string]instrument {
	directory := make(map[string]instrument)
	for _, m := range sideTableRe.FindAllStringSubmatch(text, -1) {
		directory[m[1]] = instrument{isin: m[2], name: m[3]}
	}
	return directory
}

func (p *FioParser) parseBlocks(text string, directory map[string]instrument) []models.RawTransaction {
	var records []models.RawTransaction
	for _, block := range textblock.Split(text) {
		kind, ok := textblock.DetectKind(block.Body, kindRules)
		if !ok {
			continue
		}

		currency := textblock.FindCurrency(block.Body)
		isin := textblock.FindISIN(block.Body)
		ticker := textblock.FindTicker(block.Body, knownNames)

		record := models.RawTransaction{
			Date:       block.Date,
			Symbol:     ticker,
			ISIN:       isin,
			Currency:   currency,
			Kind:       kind,
			AssetClass: assetClassFor(kind),
			Notes:      collapse(block.Body),
		}

		switch kind {
		case models.KindBuy, models.KindSell, models.KindDividend:
			rec, ok := textblock.Reconcile(textblock.Numbers(block.Body), kind)
			if !ok || !rec.HasQuantity {
				continue // malformed block, non-transactional noise
			}
			record.Quantity = rec.Quantity
			record.HasQuantity = true
			record.UnitPrice = rec.UnitPrice
			record.HasPrice = rec.HasPrice
			record.TotalAmount = rec.Total
			if rec.Fee > 0 {
				record.Fee = &models.FeeHint{Amount: rec.Fee, Currency: currency}
			}
		default:
			nums := textblock.Numbers(block.Body)
			if len(nums) == 0 {
				continue
			}
			rec, _ := textblock.Reconcile(nums, kind)
			record.TotalAmount = rec.Total
		}

		if inst, found := directory[record.Symbol]; found {
			record.ISIN = inst.isin
			record.CompanyName = inst.name
		}
		records = append(records, record)
	}
	return records
}

func (p *FioParser) parseTable(text string, directory map[string]instrument) []models.RawTransaction {
	var records []models.RawTransaction
	for _, m := range tableRowRe.FindAllStringSubmatch(text, -1) {
		kind, ok := tableKinds[strings.ToLower(m[2])]
		if !ok {
			continue
		}
		date := utils.ParseLocalDate(m[10])
		if date == "" {
			continue
		}
		quantity, qok := utils.ParseAmbiguousNumber(m[3])
		price, pok := utils.ParseAmbiguousNumber(m[4])
		value, vok := utils.ParseAmbiguousNumber(m[6])
		if !qok || !pok || !vok {
			continue
		}

		record := models.RawTransaction{
			Date:        date,
			Symbol:      m[1],
			Quantity:    quantity,
			HasQuantity: true,
			UnitPrice:   price,
			HasPrice:    true,
			TotalAmount: value,
			Currency:    m[7],
			Kind:        kind,
			AssetClass:  assetClassFor(kind),
		}
		if fee, ok := utils.ParseAmbiguousNumber(m[8]); ok && fee > 0 {
			record.Fee = &models.FeeHint{Amount: fee, Currency: m[9]}
		}
		if inst, found := directory[record.Symbol]; found {
			record.ISIN = inst.isin
			record.CompanyName = inst.name
		}
		records = append(records, record)
	}
	return records
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

func collapse(s string) string {
	fields := strings.Fields(s)
	if len(fields) > 24 {
		fields = fields[:24]
	}
	return strings.Join(fields, " ")
}
