package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// CurrencyCodes lists the ISO currency codes the engine recognizes inside
// statement text. The set doubles as a stop-word list for ticker scanning.
var CurrencyCodes = map[string]bool{
	"CZK": true, "EUR": true, "USD": true, "GBP": true, "CHF": true,
	"PLN": true, "HUF": true, "JPY": true, "CAD": true, "AUD": true,
	"SEK": true, "NOK": true, "DKK": true, "GBX": true,
}

var spaceStripper = strings.NewReplacer(" ", "", " ", "", " ", "", "\t", "")

// ParseAmbiguousNumber parses a numeric token that may use either ',' or '.'
// as the decimal separator, with the other (or spaces) used for thousands
// grouping. When both occur, the later-occurring one is the decimal
// separator and every earlier separator is grouping to strip. A lone ','
// is a decimal separator; a repeated single separator is grouping.
// The second return value is false when the token holds no digits, so
// callers can tell "no value" apart from zero.
func ParseAmbiguousNumber(token string) (float64, bool) {
	s := spaceStripper.Replace(token)

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		}
	}
	s = b.String()
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = decimalAt(s, strings.LastIndex(s, ","), ",")
		} else {
			s = strings.ReplaceAll(s, ",", "")
			s = decimalAt(s, strings.LastIndex(s, "."), ".")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// decimalAt keeps the separator at idx as the decimal point and strips any
// earlier occurrence of sep as grouping.
func decimalAt(s string, idx int, sep string) string {
	return strings.ReplaceAll(s[:idx], sep, "") + "." + s[idx+1:]
}

var isoCodeRe = regexp.MustCompile(`\b[A-Z]{3}\b`)

// ExtractCurrencyAndNumber strips an embedded 3-letter ISO currency code or
// a currency symbol from the token and parses the numeric remainder.
// Returns an empty currency when none was embedded.
func ExtractCurrencyAndNumber(token string) (amount float64, currency string, ok bool) {
	s := token
	for _, code := range isoCodeRe.FindAllString(s, -1) {
		if CurrencyCodes[code] {
			currency = code
			s = strings.Replace(s, code, " ", 1)
			break
		}
	}
	if currency == "" {
		switch {
		case strings.ContainsRune(s, '$'):
			currency = "USD"
			s = strings.ReplaceAll(s, "$", " ")
		case strings.ContainsRune(s, '€'):
			currency = "EUR"
			s = strings.ReplaceAll(s, "€", " ")
		}
	}
	amount, ok = ParseAmbiguousNumber(s)
	return amount, currency, ok
}
