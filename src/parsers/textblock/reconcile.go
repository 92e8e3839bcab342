package textblock

import (
	"math"
	"regexp"
	"unicode"

	"github.com/username/portfolion/backend/src/logger"
	"github.com/username/portfolion/backend/src/models"
	"github.com/username/portfolion/backend/src/utils"
)

// ReconcileTolerance is the absolute tolerance, in units of the block's
// currency, for accepting a (quantity, price) pair against the settlement
// total. Downstream bookkeeping depends on this value; do not tighten it.
const ReconcileTolerance = 5.0

// numberRe matches locale-formatted decimals in running text. NBSP is the
// only in-number grouping separator accepted here; a plain space would
// merge adjacent column values into one token.
var numberRe = regexp.MustCompile(`[-+]?\d+(?:\x{00a0}\d{3})*(?:[.,]\d+)*`)

// Numbers extracts every locale-formatted decimal from a block body, in
// order of appearance. ISIN tokens are blanked first so their digits do not
// surface as numbers.
func Numbers(body string) []float64 {
	clean := isinRe.ReplaceAllString(body, " ")
	var nums []float64
	for _, m := range numberRe.FindAllStringIndex(clean, -1) {
		if m[0] > 0 {
			if prev := rune(clean[m[0]-1]); unicode.IsLetter(prev) {
				continue // digits inside an identifier
			}
		}
		if v, ok := utils.ParseAmbiguousNumber(clean[m[0]:m[1]]); ok {
			nums = append(nums, v)
		}
	}
	return nums
}

// Reconciliation is the resolved (quantity, price, total, fee) of a block.
type Reconciliation struct {
	Quantity    float64
	UnitPrice   float64
	Total       float64
	Fee         float64
	HasQuantity bool
	HasPrice    bool
	Positional  bool // positional fallback path was taken
}

// Reconcile resolves the numbers of a block. The number with the largest
// absolute value is the settlement total; the first unordered pair of the
// remaining numbers whose product lands within ReconcileTolerance of the
// total, scanning pair indices in ascending order, becomes
// (quantity, unitPrice). When no pair matches: a Dividend collapses to
// quantity 1 at the total; with three or more numbers the remaining values
// are assumed to appear in the order quantity, price, fee; with exactly two
// numbers they are (quantity, total). The largest number not consumed by
// the chosen triple becomes the fee magnitude.
func Reconcile(nums []float64, kind models.TransactionKind) (Reconciliation, bool) {
	if len(nums) == 0 {
		return Reconciliation{}, false
	}

	ti := 0
	for i, v := range nums {
		if math.Abs(v) > math.Abs(nums[ti]) {
			ti = i
		}
	}
	total := math.Abs(nums[ti])
	rest := make([]float64, 0, len(nums)-1)
	for i, v := range nums {
		if i != ti {
			rest = append(rest, math.Abs(v))
		}
	}

	for i := 0; i < len(rest); i++ {
		for j := i + 1; j < len(rest); j++ {
			if math.Abs(rest[i]*rest[j]-total) <= ReconcileTolerance {
				return Reconciliation{
					Quantity:    rest[i],
					UnitPrice:   rest[j],
					Total:       total,
					Fee:         largestExcluding(rest, i, j),
					HasQuantity: true,
					HasPrice:    true,
				}, true
			}
		}
	}

	if kind == models.KindDividend {
		return Reconciliation{
			Quantity: 1, UnitPrice: total, Total: total,
			HasQuantity: true, HasPrice: true,
		}, true
	}

	if len(nums) >= 3 {
		// Column-order assumption of unverified precision; logged so
		// accuracy can be audited against source documents.
		logger.L.Warn("reconciliation: positional fallback taken",
			"kind", kind, "numbers", nums)
		return Reconciliation{
			Quantity:    rest[0],
			UnitPrice:   rest[1],
			Total:       total,
			Fee:         largestExcluding(rest, 0, 1),
			HasQuantity: true,
			HasPrice:    true,
			Positional:  true,
		}, true
	}

	if len(nums) == 2 {
		r := Reconciliation{Quantity: rest[0], Total: total, HasQuantity: true}
		if r.Quantity != 0 {
			r.UnitPrice = total / r.Quantity
			r.HasPrice = true
		}
		return r, true
	}

	return Reconciliation{Total: total}, true
}

func largestExcluding(vals []float64, i, j int) float64 {
	var fee float64
	for k, v := range vals {
		if k == i || k == j {
			continue
		}
		if v > fee {
			fee = v
		}
	}
	return fee
}
