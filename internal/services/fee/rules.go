package fee

import "github.com/shopspring/decimal"

// Unbounded marks an open upper end of a tier or window.
const Unbounded = -1

var (
	tierALimit = decimal.RequireFromString("1000.00")
	tierBLimit = decimal.RequireFromString("2000.00")
)

// Rule is one row of the fee schedule. An amount matches when
// AmountAbove < amount <= AmountUpTo, a lead time when MinDays <= days <= MaxDays.
// A nil AmountUpTo or a MaxDays of Unbounded leaves that end open.
type Rule struct {
	Code        string           `json:"code"`
	Tier        string           `json:"tier"`
	AmountAbove decimal.Decimal  `json:"amountAbove"`
	AmountUpTo  *decimal.Decimal `json:"amountUpTo,omitempty"`
	MinDays     int              `json:"minDays"`
	MaxDays     int              `json:"maxDays"`
	Rate        decimal.Decimal  `json:"rate"`
	Flat        decimal.Decimal  `json:"flat"`
}

func (r Rule) coversAmount(amount decimal.Decimal) bool {
	if !amount.GreaterThan(r.AmountAbove) {
		return false
	}
	return r.AmountUpTo == nil || amount.LessThanOrEqual(*r.AmountUpTo)
}

func (r Rule) coversDays(days int) bool {
	if days < r.MinDays {
		return false
	}
	return r.MaxDays == Unbounded || days <= r.MaxDays
}

func (r Rule) apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(r.Rate).Add(r.Flat).Round(2)
}

func bound(d decimal.Decimal) *decimal.Decimal { return &d }

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// schedule is ordered by tier, then by window.
var schedule = []Rule{
	{Code: "A", Tier: "A", AmountAbove: decimal.Zero, AmountUpTo: bound(tierALimit), MinDays: 0, MaxDays: 0, Rate: pct("0.03"), Flat: decimal.RequireFromString("3.00")},
	{Code: "B", Tier: "B", AmountAbove: tierALimit, AmountUpTo: bound(tierBLimit), MinDays: 1, MaxDays: 10, Rate: pct("0.09"), Flat: decimal.Zero},
	{Code: "C1", Tier: "C", AmountAbove: tierBLimit, MinDays: 11, MaxDays: 20, Rate: pct("0.082"), Flat: decimal.Zero},
	{Code: "C2", Tier: "C", AmountAbove: tierBLimit, MinDays: 21, MaxDays: 30, Rate: pct("0.069"), Flat: decimal.Zero},
	{Code: "C3", Tier: "C", AmountAbove: tierBLimit, MinDays: 31, MaxDays: 40, Rate: pct("0.047"), Flat: decimal.Zero},
	{Code: "C4", Tier: "C", AmountAbove: tierBLimit, MinDays: 41, MaxDays: Unbounded, Rate: pct("0.017"), Flat: decimal.Zero},
}

// Schedule returns a copy of the fee schedule.
func Schedule() []Rule {
	out := make([]Rule, len(schedule))
	copy(out, schedule)
	return out
}

// tierOf returns the tier name covering amount. Tiers partition amount > 0.
func tierOf(amount decimal.Decimal) string {
	switch {
	case amount.LessThanOrEqual(tierALimit):
		return "A"
	case amount.LessThanOrEqual(tierBLimit):
		return "B"
	default:
		return "C"
	}
}
