package utils

import (
	"math"
	"strings"
)

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// Round2 rounds to two decimal places, the monetary precision of the ledger.
func Round2(val float64) float64 {
	return RoundFloat(val, 2)
}

// CountryCodeFromISIN returns the ISO alpha-2 country prefix of an ISIN,
// or an empty string for anything too short to carry one.
func CountryCodeFromISIN(isin string) string {
	if len(isin) < 2 {
		return ""
	}
	return strings.ToUpper(isin[:2])
}
