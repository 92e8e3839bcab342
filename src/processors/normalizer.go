// Package processors turns raw extracted records into canonical
// transactions: currency resolution, fee conversion and dedup hashing.
package processors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/username/portfolion/backend/src/fx"
	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/utils"
)

// Normalizer converts provider-local raw records into canonical
// transactions against one session's FX resolver.
type Normalizer struct {
	rates *fx.Resolver
}

func NewNormalizer(rates *fx.Resolver) *Normalizer {
	return &Normalizer{rates: rates}
}

// Normalize processes a parsed batch. Distinct (date, currency) pairs are
// prefetched in bulk first, so the per-record pass resolves rates from the
// cache only and never blocks on a network call mid-loop.
func (n *Normalizer) Normalize(ctx context.Context, records []models.RawTransaction, platform string) []models.CanonicalTransaction {
	n.rates.Prefetch(ctx, ratePairs(records))

	transactions := make([]models.CanonicalTransaction, 0, len(records))
	for _, record := range records {
		if record.Date == "" {
			logger.L.Warn("normalizer: dropping record without date",
				"platform", platform, "symbol", record.Symbol)
			continue
		}
		transactions = append(transactions, n.normalizeOne(ctx, record, platform))
	}
	return transactions
}

// ratePairs collects the distinct conversion keys of a batch, excluding
// in-kind crypto revenue (never converted) and including fee currencies.
func ratePairs(records []models.RawTransaction) []fx.Pair {
	seen := make(map[fx.Pair]bool)
	var pairs []fx.Pair
	add := func(date, currency string) {
		currency = strings.ToUpper(strings.TrimSpace(currency))
		if date == "" || currency == "" {
			return
		}
		p := fx.Pair{Date: date, Currency: currency}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	for _, r := range records {
		if isCryptoRevenue(r.AssetClass, r.Kind) {
			continue
		}
		add(r.Date, r.Currency)
		if r.Fee != nil && !r.Fee.InAsset {
			add(r.Date, r.Fee.Currency)
		}
	}
	return pairs
}

func (n *Normalizer) normalizeOne(ctx context.Context, r models.RawTransaction, platform string) models.CanonicalTransaction {
	base := n.rates.Base()

	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = base
	}

	tx := models.CanonicalTransaction{
		Date:        r.Date,
		Ticker:      resolveTicker(r),
		ISIN:        r.ISIN,
		ProductName: r.CompanyName,
		Quantity:    math.Abs(r.Quantity),
		UnitPrice:   math.Abs(r.UnitPrice),
		Amount:      math.Abs(r.TotalAmount),
		Currency:    currency,
		Platform:    platform,
		AssetClass:  r.AssetClass,
		Kind:        r.Kind,
		CountryCode: utils.CountryCodeFromISIN(r.ISIN),
		Notes:       r.Notes,
	}

	switch {
	case isCryptoRevenue(r.AssetClass, r.Kind):
		// Staking and reward income is an in-kind accrual, not a cash
		// flow: no amounts, no conversion.
		tx.Amount = 0
		tx.AmountBase = 0
		tx.ExchangeRate = 1
	case currency == base:
		tx.ExchangeRate = 1
		tx.AmountBase = tx.Amount
	default:
		resolved := n.rates.GetRateInfo(ctx, r.Date, currency)
		tx.ExchangeRate = resolved.Value
		tx.RateSource = string(resolved.Tier)
		tx.AmountBase = utils.Round2(tx.Amount * resolved.Value)
	}

	tx.FeeBase = n.resolveFee(ctx, r, tx, base)
	tx.HashID = dedupHash(tx)
	return tx
}

// resolveFee converts the fee hint into the base currency: a fiat-tagged
// fee through its own currency's rate, an asset-tagged fee through the
// record's unit price and applied rate.
func (n *Normalizer) resolveFee(ctx context.Context, r models.RawTransaction, tx models.CanonicalTransaction, base string) float64 {
	if r.Fee == nil || r.Fee.Amount == 0 {
		return 0
	}
	amount := math.Abs(r.Fee.Amount)
	if r.Fee.InAsset {
		return utils.Round2(amount * tx.UnitPrice * tx.ExchangeRate)
	}
	feeCurrency := strings.ToUpper(strings.TrimSpace(r.Fee.Currency))
	if feeCurrency == "" {
		feeCurrency = tx.Currency
	}
	if feeCurrency == base {
		return utils.Round2(amount)
	}
	return utils.Round2(amount * n.rates.GetRate(ctx, r.Date, feeCurrency))
}

func resolveTicker(r models.RawTransaction) string {
	ticker := strings.ToUpper(strings.TrimSpace(r.Symbol))
	if ticker == "" {
		return "UNKNOWN"
	}
	return ticker
}

func isCryptoRevenue(class models.AssetClass, kind models.TransactionKind) bool {
	return class == models.AssetCrypto && kind == models.KindRevenue
}

// dedupHash derives the dedup key: the same economic event produced by two
// different extraction passes hashes identically.
func dedupHash(tx models.CanonicalTransaction) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%.2f|%.8f",
		tx.Date, tx.Ticker, tx.Kind, tx.Currency,
		utils.Round2(tx.Amount), utils.RoundFloat(tx.Quantity, 8))
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
