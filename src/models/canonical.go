package models

// CanonicalTransaction is the unified, currency-resolved representation of a
// transaction, independent of the source provider. The normalizer creates it
// from a RawTransaction and it is never mutated afterwards; its terminal
// state is the hand-off to the persistence gateway.
//
// Amount and AmountBase are magnitudes in the transaction currency and the
// ledger base currency (CZK in the default deployment). When Currency equals
// the base currency, AmountBase == Amount and ExchangeRate == 1.
type CanonicalTransaction struct {
	Date         string          `json:"date"` // ISO YYYY-MM-DD
	Ticker       string          `json:"ticker"`
	ISIN         string          `json:"isin,omitempty"`
	ProductName  string          `json:"product_name,omitempty"`
	Quantity     float64         `json:"quantity"`
	UnitPrice    float64         `json:"unit_price"`
	Amount       float64         `json:"amount"`
	Currency     string          `json:"currency"`
	AmountBase   float64         `json:"amount_base"`
	ExchangeRate float64         `json:"exchange_rate"`
	RateSource   string          `json:"rate_source,omitempty"` // FX tier the rate came from, for audit
	FeeBase      float64         `json:"fee_base"`
	Platform     string          `json:"platform"`
	AssetClass   AssetClass      `json:"asset_class"`
	Kind         TransactionKind `json:"kind"`
	CountryCode  string          `json:"country_code,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	HashID       string          `json:"hash_id"`
}
