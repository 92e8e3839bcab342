package models

// HistoricalRates is the structure of the bundled historical exchange rate
// file. Each observation is the value of one unit of Currency in the ledger
// base currency on Date.
type HistoricalRates struct {
	Base string            `json:"base"`
	Obs  []RateObservation `json:"observations"`
}

type RateObservation struct {
	Date     string  `json:"date"` // ISO YYYY-MM-DD
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// FrankfurterResponse is the shape of the Frankfurter historical rates API,
// queried as /{date}?from={currency}&to={base}.
type FrankfurterResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// ExchangerateHostResponse is the shape of the exchangerate.host historical
// endpoint, queried as /{date}?base={currency}&symbols={base}.
type ExchangerateHostResponse struct {
	Success bool               `json:"success"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
}
