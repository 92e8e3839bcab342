package textblock

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/username/portfolion/backend/src/utils"
)

var isinRe = regexp.MustCompile(`\b[A-Z]{2}[A-Z0-9]{9}[0-9]\b`)

// FindISIN returns the first ISIN-shaped token in the body, if any.
func FindISIN(body string) string {
	return isinRe.FindString(body)
}

// stopWords holds tokens that look like tickers but never are: section
// headers and unit labels seen across provider statements. Currency codes
// are excluded through utils.CurrencyCodes.
var stopWords = map[string]bool{
	"ISIN": true, "CELKEM": true, "DATUM": true, "POKYN": true,
	"TRH": true, "OBJEM": true, "CENA": true, "POCET": true,
	"KUSY": true, "KS": true, "SUMA": true, "UCET": true,
	"THE": true, "INC": true, "PLC": true, "AG": true, "SE": true,
}

var tickerTokenRe = regexp.MustCompile(`\b[A-Z][A-Z0-9]{1,9}\b`)

// FindTicker resolves the instrument symbol of a block: first a static
// name-to-ticker lookup, then a generic scan for a plausible ticker word
// (2-10 characters, at least 2 letters, not a currency code or stop word).
func FindTicker(body string, names map[string]string) string {
	lower := strings.ToLower(body)
	keys := make([]string, 0, len(names))
	for name := range names {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if strings.Contains(lower, strings.ToLower(name)) {
			return names[name]
		}
	}

	for _, token := range tickerTokenRe.FindAllString(body, -1) {
		if plausibleTicker(token) {
			return token
		}
	}
	return ""
}

func plausibleTicker(token string) bool {
	if len(token) < 2 || len(token) > 10 {
		return false
	}
	if stopWords[token] || utils.CurrencyCodes[token] {
		return false
	}
	letters := 0
	for _, r := range token {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 2
}
