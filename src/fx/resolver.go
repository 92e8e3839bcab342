// Package fx resolves historical base-currency conversion rates through a
// tiered fallback chain with a session-scoped cache.
package fx

import (
	"context"
	"strings"

	"github.com/patrickmn/go-cache"

	"github.com/username/portfolion/backend/src/logger"
)

// SourceTier records which tier produced a cached rate, for audit.
type SourceTier string

const (
	TierInternal          SourceTier = "internal"
	TierExternalPrimary   SourceTier = "external_primary"
	TierExternalSecondary SourceTier = "external_secondary"
	TierFallbackUnit      SourceTier = "fallback_unit"
)

// Rate is a resolved conversion: one unit of the requested currency in the
// ledger base currency.
type Rate struct {
	Value float64
	Tier  SourceTier
}

// Pair is one (date, currency) resolution key.
type Pair struct {
	Date     string // ISO
	Currency string
}

// Resolver owns the per-session rate cache. The orchestrator constructs one
// per batch and passes it down; a (date, currency) rate is immutable
// historical fact, so entries are never invalidated within a session.
type Resolver struct {
	base       string
	historical *HistoricalStore
	primary    RateClient
	secondary  RateClient
	cache      *cache.Cache
	nearest    bool
}

// NewResolver builds a resolver over the tier chain. historical, primary
// and secondary may each be nil; a missing tier is simply skipped.
func NewResolver(base string, historical *HistoricalStore, primary, secondary RateClient) *Resolver {
	return &Resolver{
		base:       strings.ToUpper(base),
		historical: historical,
		primary:    primary,
		secondary:  secondary,
		cache:      cache.New(cache.NoExpiration, cache.NoExpiration),
		nearest:    true,
	}
}

// Base returns the ledger base currency.
func (r *Resolver) Base() string { return r.base }

// Prefetch resolves every distinct pair not already cached, so the
// per-record pass is cache-only and never blocks on a network round trip
// mid-loop. Failures are swallowed; a missing rate is not fatal here.
func (r *Resolver) Prefetch(ctx context.Context, pairs []Pair) {
	for _, p := range pairs {
		currency := strings.ToUpper(strings.TrimSpace(p.Currency))
		if currency == "" || currency == r.base {
			continue
		}
		key := p.Date + "|" + currency
		if _, found := r.cache.Get(key); found {
			continue
		}
		r.cache.Set(key, r.resolve(ctx, p.Date, currency), cache.NoExpiration)
	}
}

// GetRate resolves (date, currency) to a base-currency rate. It never
// fails: when every tier is exhausted it returns 1 so best-effort
// accounting can proceed; the placeholder is visible through the tier.
func (r *Resolver) GetRate(ctx context.Context, date, currency string) float64 {
	return r.GetRateInfo(ctx, date, currency).Value
}

// GetRateInfo is GetRate plus the source tier for audit.
func (r *Resolver) GetRateInfo(ctx context.Context, date, currency string) Rate {
	ccy := strings.ToUpper(strings.TrimSpace(currency))
	if ccy == "" || ccy == r.base {
		return Rate{Value: 1}
	}
	key := date + "|" + ccy
	if cached, found := r.cache.Get(key); found {
		return cached.(Rate)
	}
	resolved := r.resolve(ctx, date, ccy)
	r.cache.Set(key, resolved, cache.NoExpiration)
	return resolved
}

func (r *Resolver) resolve(ctx context.Context, date, currency string) Rate {
	if r.historical != nil {
		if value, ok := r.historical.Lookup(date, currency, r.nearest); ok && value > 0 {
			return Rate{Value: value, Tier: TierInternal}
		}
	}
	for _, tier := range []struct {
		client RateClient
		tier   SourceTier
	}{
		{r.primary, TierExternalPrimary},
		{r.secondary, TierExternalSecondary},
	} {
		if tier.client == nil {
			continue
		}
		value, err := tier.client.FetchRate(ctx, date, currency, r.base)
		if err != nil {
			logger.L.Warn("fx: tier failed",
				"tier", tier.client.Name(), "date", date, "currency", currency, "error", err)
			continue
		}
		if value > 0 {
			return Rate{Value: value, Tier: tier.tier}
		}
	}
	logger.L.Warn("fx: all tiers exhausted, using unit rate",
		"date", date, "currency", currency)
	return Rate{Value: 1, Tier: TierFallbackUnit}
}
