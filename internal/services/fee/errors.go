package fee

import (
	"errors"
	"fmt"
)

// Reason classifies why no fee could be computed.
type Reason string

const (
	ReasonNonPositiveAmount Reason = "NON_POSITIVE_AMOUNT"
	ReasonPastScheduledDate Reason = "PAST_SCHEDULED_DATE"
	ReasonNoApplicableRule  Reason = "NO_APPLICABLE_RULE"
)

// Business rule errors, matched by a *Rejection through errors.Is.
var (
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")
	ErrPastScheduledDate = errors.New("scheduled date cannot be in the past")
	ErrNoApplicableRule  = errors.New("no fee rule applies to the given amount and scheduled date")
)

var sentinels = map[Reason]error{
	ReasonNonPositiveAmount: ErrNonPositiveAmount,
	ReasonPastScheduledDate: ErrPastScheduledDate,
	ReasonNoApplicableRule:  ErrNoApplicableRule,
}

// Rejection is a business rule rejection. All inputs were well formed.
type Rejection struct {
	Reason Reason
	Detail string
}

func reject(reason Reason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return sentinels[r.Reason].Error()
	}
	return fmt.Sprintf("%s: %s", sentinels[r.Reason], r.Detail)
}

func (r *Rejection) Is(target error) bool {
	return sentinels[r.Reason] == target
}

// AsRejection unwraps err into a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
