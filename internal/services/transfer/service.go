package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"schedpay/internal/calendar"
	"schedpay/internal/logging"
	"schedpay/internal/models"
	"schedpay/internal/repositories"
	"schedpay/internal/services/fee"
)

// service implements the transfer Service interface.
type service struct {
	repo     repositories.TransferRepository
	clock    Clock
	location *time.Location
	logger   *zap.Logger
}

// NewService creates a new transfer service instance. Reference dates are
// taken from clock in loc.
func NewService(repo repositories.TransferRepository, clock Clock, loc *time.Location, logger *zap.Logger) Service {
	if clock == nil {
		clock = SystemClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:     repo,
		clock:    clock,
		location: loc,
		logger:   logging.OrNop(logger).Named("transfer_service"),
	}
}

func (s *service) today(now time.Time) calendar.Date {
	return calendar.Today(now, s.location)
}

func (s *service) Quote(_ context.Context, amount decimal.Decimal, scheduledDate calendar.Date) fee.Outcome {
	return fee.Compute(amount, scheduledDate, s.today(s.clock.Now()))
}

// Create computes the fee first and stores the transfer only when a rule
// applies.
func (s *service) Create(ctx context.Context, in CreateInput) (*models.Transfer, error) {
	now := s.clock.Now()
	outcome := fee.Compute(in.Amount, in.ScheduledDate, s.today(now))
	if !outcome.Accepted() {
		s.logger.Info("transfer rejected",
			zap.String("reason", string(outcome.Rejection.Reason)),
			zap.String("amount", in.Amount.String()),
			zap.Stringer("scheduled_date", in.ScheduledDate),
		)
		return nil, outcome.Rejection
	}

	t := &models.Transfer{
		ID:                 uuid.New(),
		OriginAccount:      strings.TrimSpace(in.OriginAccount),
		DestinationAccount: strings.TrimSpace(in.DestinationAccount),
		Amount:             in.Amount,
		ScheduledDate:      in.ScheduledDate,
		Fee:                outcome.Fee,
		FeeRule:            outcome.Rule,
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("transfer scheduled",
		zap.Stringer("transfer_id", t.ID),
		zap.String("fee", t.Fee.StringFixed(2)),
		zap.String("fee_rule", t.FeeRule),
		zap.Int("lead_days", outcome.LeadDays),
	)
	return t, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	return s.repo.GetByID(ctx, id)
}

// Update re-runs the fee rules against the new amount and date. A rejected
// update leaves the stored transfer unchanged.
func (s *service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Transfer, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	outcome := fee.Compute(in.Amount, in.ScheduledDate, s.today(now))
	if !outcome.Accepted() {
		return nil, outcome.Rejection
	}

	existing.OriginAccount = strings.TrimSpace(in.OriginAccount)
	existing.DestinationAccount = strings.TrimSpace(in.DestinationAccount)
	existing.Amount = in.Amount
	existing.ScheduledDate = in.ScheduledDate
	existing.Fee = outcome.Fee
	existing.FeeRule = outcome.Rule
	existing.UpdatedAt = now.UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.logger.Info("transfer updated",
		zap.Stringer("transfer_id", id),
		zap.String("fee", existing.Fee.StringFixed(2)),
		zap.String("fee_rule", existing.FeeRule),
	)
	return existing, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if existed {
		s.logger.Info("transfer deleted", zap.Stringer("transfer_id", id))
	}
	return existed, nil
}
