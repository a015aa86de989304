// Package fee computes the service fee of a scheduled transfer from its
// amount and lead time. Compute is pure: callers pass the reference date.
package fee

import (
	"github.com/shopspring/decimal"

	"schedpay/internal/calendar"
)

// Outcome is either an accepted fee or a rejection. Fee, Rule and LeadDays
// are only meaningful when Rejection is nil.
type Outcome struct {
	Fee       decimal.Decimal
	Rule      string
	LeadDays  int
	Rejection *Rejection
}

func (o Outcome) Accepted() bool { return o.Rejection == nil }

// Err returns the rejection as an error, or nil when a fee was computed.
func (o Outcome) Err() error {
	if o.Rejection == nil {
		return nil
	}
	return o.Rejection
}

// LeadDays returns the calendar days from today to scheduled.
func LeadDays(scheduled, today calendar.Date) int {
	return today.DaysUntil(scheduled)
}

// Compute evaluates the fee schedule for a transfer of amount executing on
// scheduled, as seen on today.
func Compute(amount decimal.Decimal, scheduled, today calendar.Date) Outcome {
	if !amount.IsPositive() {
		return Outcome{Rejection: reject(ReasonNonPositiveAmount, "got %s", amount.String())}
	}
	if scheduled.Before(today) {
		return Outcome{Rejection: reject(ReasonPastScheduledDate, "%s is before %s", scheduled, today)}
	}

	days := LeadDays(scheduled, today)
	tier := tierOf(amount)

	for _, r := range schedule {
		if r.Tier != tier || !r.coversAmount(amount) {
			continue
		}
		if r.coversDays(days) {
			return Outcome{Fee: r.apply(amount), Rule: r.Code, LeadDays: days}
		}
	}

	return Outcome{
		LeadDays:  days,
		Rejection: reject(ReasonNoApplicableRule, "tier %s does not accept a lead time of %d days", tier, days),
	}
}
