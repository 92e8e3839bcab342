package models

// TransactionKind classifies the economic direction of a raw record. Amounts
// are magnitudes; direction is carried by the kind, never by the sign.
type TransactionKind string

const (
	KindBuy        TransactionKind = "BUY"
	KindSell       TransactionKind = "SELL"
	KindDividend   TransactionKind = "DIVIDEND"
	KindDeposit    TransactionKind = "DEPOSIT"
	KindWithdrawal TransactionKind = "WITHDRAWAL"
	KindFee        TransactionKind = "FEE"
	KindRevenue    TransactionKind = "REVENUE"
	KindOther      TransactionKind = "OTHER"
)

// AssetClass is assigned by the provider parser from its kind mapping.
type AssetClass string

const (
	AssetStock     AssetClass = "STOCK"
	AssetCrypto    AssetClass = "CRYPTO"
	AssetCommodity AssetClass = "COMMODITY"
	AssetCash      AssetClass = "CASH"
	AssetFee       AssetClass = "FEE"
)

// FeeHint is an optional fee attached to a raw record. A fiat-tagged hint
// carries its own currency; an asset-tagged hint is a quantity of the traded
// asset and is priced by the normalizer at the record's unit price.
type FeeHint struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	InAsset  bool    `json:"in_asset,omitempty"`
}

// RawTransaction is the provider-local record a parser emits before
// normalization. Parsers already resolve the statement date to ISO form
// (records whose date cannot be parsed are dropped inside the parser) and
// leave everything else as extracted: unsigned magnitudes, the provider's
// currency if one was present, and an optional fee hint.
type RawTransaction struct {
	Date        string          `json:"date"` // ISO YYYY-MM-DD
	Symbol      string          `json:"symbol,omitempty"`
	ISIN        string          `json:"isin,omitempty"`
	CompanyName string          `json:"company_name,omitempty"`
	Quantity    float64         `json:"quantity"`
	HasQuantity bool            `json:"has_quantity"`
	UnitPrice   float64         `json:"unit_price"`
	HasPrice    bool            `json:"has_price"`
	TotalAmount float64         `json:"total_amount"`
	Currency    string          `json:"currency,omitempty"`
	Kind        TransactionKind `json:"kind"`
	AssetClass  AssetClass      `json:"asset_class"`
	Fee         *FeeHint        `json:"fee,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}
