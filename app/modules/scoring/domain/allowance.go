package scoringdomain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AllowanceFactor scales the 10-hole sample differential up to a full-round estimate.
var AllowanceFactor = decimal.RequireFromString("1.5")

// Allowance is a player's Peoria handicap estimate.
type Allowance struct {
	Raw     decimal.Decimal `json:"raw"`
	Applied int             `json:"applied"`
}

// NewAllowance derives the applied allowance from raw.
func NewAllowance(raw decimal.Decimal) Allowance {
	return Allowance{Raw: raw, Applied: AppliedAllowance(raw)}
}

// Fractional is the raw allowance kept to one decimal. Some scorecards subtract this
// from the gross total directly instead of distributing whole strokes; it is reported
// for comparison but never used for ranking.
func (a Allowance) Fractional() decimal.Decimal {
	return a.Raw.Round(1)
}

// RawAllowance sums (score - par) over the reference holes and scales by AllowanceFactor.
// pars and scores are indexed by hole number minus one.
func RawAllowance(pars, scores []int, ref ReferenceHoleSet) (decimal.Decimal, error) {
	if ref.Len() == 0 {
		return decimal.Zero, &SelectionError{Reason: "no reference holes selected"}
	}

	sum := 0
	for _, h := range ref.Holes() {
		idx := h - 1
		if idx >= len(pars) {
			return decimal.Zero, structuralf("par", "reference hole %d has no par", h)
		}
		if idx >= len(scores) {
			return decimal.Zero, inputf("", fmt.Sprintf("scores[%d]", h), "reference hole has no score")
		}
		sum += scores[idx] - pars[idx]
	}

	return decimal.NewFromInt(int64(sum)).Mul(AllowanceFactor), nil
}

// AppliedAllowance rounds raw to a whole number of strokes, halves rounding up, and
// clamps negative results to zero.
func AppliedAllowance(raw decimal.Decimal) int {
	rounded := raw.Round(0)
	if rounded.IsNegative() {
		return 0
	}
	return int(rounded.IntPart())
}
