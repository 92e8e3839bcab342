// Package textblock implements the machinery shared by statement-style
// provider parsers: date-anchored block segmentation, keyword kind
// detection, symbol resolution and the quantity/price/total reconciliation
// heuristic.
package textblock

import (
	"fmt"
	"strings"

	"github.com/username/portfolion/backend/src/extract"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/utils"
)

// maxBlockLen bounds the look-ahead past a date token so malformed input
// cannot produce run-away blocks.
const maxBlockLen = 600

// Block is the span of text between one recognized transaction date and the
// next, assumed to describe one transaction event. Body excludes the date
// token itself so date digits never pollute the number scan.
type Block struct {
	Date string // ISO
	Body string
}

// Split segments a normalized text stream at every occurrence of a
// recognized date token. A block runs until the next date token or end of
// text, bounded by maxBlockLen.
func Split(text string) []Block {
	matches := utils.DateTokenRe.FindAllStringIndex(text, -1)
	var blocks []Block
	for i, m := range matches {
		iso := utils.ParseLocalDate(text[m[0]:m[1]])
		if iso == "" {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if end > m[1]+maxBlockLen {
			end = m[1] + maxBlockLen
		}
		blocks = append(blocks, Block{Date: iso, Body: text[m[1]:end]})
	}
	return blocks
}

// KindRule maps provider vocabulary to a transaction kind. Rules are tested
// in slice order; the first keyword hit wins.
type KindRule struct {
	Kind     models.TransactionKind
	Keywords []string
}

// DetectKind classifies a block body against the provider's rules.
// Unmatched blocks are dropped by the caller.
func DetectKind(body string, rules []KindRule) (models.TransactionKind, bool) {
	lower := strings.ToLower(body)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Kind, true
			}
		}
	}
	return "", false
}

// FindCurrency returns the first recognized ISO currency code in the body.
func FindCurrency(body string) string {
	for _, token := range strings.Fields(body) {
		token = strings.Trim(token, ".,;:()")
		if utils.CurrencyCodes[token] {
			return token
		}
	}
	return ""
}

// WrongContentError reports content of a shape the parser does not accept.
type WrongContentError struct {
	Parser string
	Got    extract.Kind
}

func (e *WrongContentError) Error() string {
	return fmt.Sprintf("%s parser: unsupported content shape %q", e.Parser, e.Got)
}

// SignatureKey is the dedup signature used to merge records captured by two
// independent extraction passes over the same document.
func SignatureKey(r models.RawTransaction) string {
	return fmt.Sprintf("%s|%s|%s|%s|%.2f|%.8f",
		r.Date, strings.ToUpper(r.Symbol), r.Kind, r.Currency,
		utils.Round2(r.TotalAmount), utils.RoundFloat(r.Quantity, 8))
}

// Merge appends records from a second pass whose signature key has not been
// seen in the first pass.
func Merge(first, second []models.RawTransaction) []models.RawTransaction {
	seen := make(map[string]bool, len(first))
	for _, r := range first {
		seen[SignatureKey(r)] = true
	}
	merged := first
	for _, r := range second {
		if key := SignatureKey(r); !seen[key] {
			seen[key] = true
			merged = append(merged, r)
		}
	}
	return merged
}
