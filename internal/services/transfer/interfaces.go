package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schedpay/internal/calendar"
	"schedpay/internal/models"
	"schedpay/internal/services/fee"
)

// Clock supplies the current instant. Tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock.
func SystemClock() Clock { return systemClock{} }

// CreateInput is a validated request to schedule a transfer.
type CreateInput struct {
	OriginAccount      string
	DestinationAccount string
	Amount             decimal.Decimal
	ScheduledDate      calendar.Date
}

// UpdateInput replaces every mutable field of a transfer.
type UpdateInput = CreateInput

// Service schedules transfers and charges the fee computed for them.
type Service interface {
	// Quote computes the fee of a transfer without storing anything.
	Quote(ctx context.Context, amount decimal.Decimal, scheduledDate calendar.Date) fee.Outcome
	Create(ctx context.Context, in CreateInput) (*models.Transfer, error)
	List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Transfer, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}
