// Package anycoin parses Anycoin transaction history exports: a Czech text
// statement (PDF dump or plain text) with one dated block per event,
// including staking rewards and crypto-denominated fees.
package anycoin

import (
	"regexp"
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/parsers/textblock"
	"github.com/username/portfolion/backend/src/utils"
)

const platform = "anycoin"

var kindRules = []textblock.KindRule{
	{Kind: models.KindRevenue, Keywords: []string{"odměna", "odmena", "staking", "reward"}},
	{Kind: models.KindBuy, Keywords: []string{"nákup", "nakup"}},
	{Kind: models.KindSell, Keywords: []string{"prodej"}},
	{Kind: models.KindDeposit, Keywords: []string{"vklad"}},
	{Kind: models.KindWithdrawal, Keywords: []string{"výběr", "vyber"}},
	{Kind: models.KindFee, Keywords: []string{"poplatek"}},
}

// cryptoCodes are the assets the exchange lists; also the block symbols.
var cryptoCodes = []string{"BTC", "ETH", "LTC", "XRP", "ADA", "SOL", "DOT", "DOGE", "BCH", "XLM"}

// assetFeeRe captures crypto-denominated fees: "poplatek 0,0001 BTC".
var assetFeeRe = regexp.MustCompile(`(?i)poplatek\s+([\d.,\x{00a0}]+)\s*(` + strings.Join(cryptoCodes, "|") + `)`)

type AnycoinParser struct{}

func NewParser() *AnycoinParser { return &AnycoinParser{} }

func (p *AnycoinParser) Name() string { return platform }

func (p *AnycoinParser) Accepts(kind extract.Kind) bool { return kind == extract.KindText }

func (p *AnycoinParser) Sniff(content extract.Content) bool {
	return strings.Contains(content.Text, "Anycoin") ||
		strings.Contains(content.Text, "anycoin.cz")
}

func (p *AnycoinParser) Parse(content extract.Content) ([]models.RawTransaction, error) {
	if !p.Accepts(content.Kind) {
		return nil, &textblock.WrongContentError{Parser: platform, Got: content.Kind}
	}

	var records []models.RawTransaction
	for _, block := range textblock.Split(content.Text) {
		kind, ok := textblock.DetectKind(block.Body, kindRules)
		if !ok {
			continue
		}

		symbol := findCrypto(block.Body)
		currency := textblock.FindCurrency(block.Body)

		record := models.RawTransaction{
			Date:       block.Date,
			Symbol:     symbol,
			Currency:   currency,
			Kind:       kind,
			AssetClass: assetClassFor(kind, symbol),
			Notes:      strings.Join(strings.Fields(block.Body), " "),
		}

		// A crypto fee is a quantity of the traded asset; strip it from the
		// body so it does not join the reconciliation numbers.
		body := block.Body
		if m := assetFeeRe.FindStringSubmatch(body); m != nil {
			if fee, ok := utils.ParseAmbiguousNumber(m[1]); ok && fee > 0 {
				record.Fee = &models.FeeHint{Amount: fee, InAsset: true}
				body = strings.Replace(body, m[0], " ", 1)
			}
		}

		switch kind {
		case models.KindBuy, models.KindSell:
			rec, ok := textblock.Reconcile(textblock.Numbers(body), kind)
			if !ok || !rec.HasQuantity {
				continue
			}
			record.Quantity = rec.Quantity
			record.HasQuantity = true
			record.UnitPrice = rec.UnitPrice
			record.HasPrice = rec.HasPrice
			record.TotalAmount = rec.Total
			if record.Fee == nil && rec.Fee > 0 {
				record.Fee = &models.FeeHint{Amount: rec.Fee, Currency: currency}
			}
		case models.KindRevenue:
			// Staking rewards are an in-kind accrual: only the asset
			// quantity is meaningful.
			nums := textblock.Numbers(body)
			if len(nums) == 0 {
				continue
			}
			record.Quantity = nums[0]
			record.HasQuantity = true
		default:
			nums := textblock.Numbers(body)
			if len(nums) == 0 {
				continue
			}
			rec, _ := textblock.Reconcile(nums, kind)
			record.TotalAmount = rec.Total
		}

		records = append(records, record)
	}
	return records, nil
}

func findCrypto(body string) string {
	for _, code := range cryptoCodes {
		if strings.Contains(body, code) {
			return code
		}
	}
	return ""
}

// assetClassFor: fiat-only deposits and withdrawals are cash movements;
// everything else on this venue is a crypto event.
func assetClassFor(kind models.TransactionKind, symbol string) models.AssetClass {
	if (kind == models.KindDeposit || kind == models.KindWithdrawal) && symbol == "" {
		return models.AssetCash
	}
	if kind == models.KindFee && symbol == "" {
		return models.AssetFee
	}
	return models.AssetCrypto
}
