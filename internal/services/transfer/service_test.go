package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schedpay/internal/calendar"
	"schedpay/internal/models"
	"schedpay/internal/repositories"
	"schedpay/internal/services/fee"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Transfer), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) Update(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var (
	now   = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)
	today = calendar.FromTime(now)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		in         CreateInput
		setupMock  func(*MockRepository)
		wantFee    string
		wantRule   string
		wantErr    error
		wantReason fee.Reason
	}{
		{
			name: "same day small amount",
			in: CreateInput{
				OriginAccount:      " PT123 ",
				DestinationAccount: "PT456",
				Amount:             dec("500"),
				ScheduledDate:      today,
			},
			setupMock: func(repo *MockRepository) {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Transfer")).Return(nil)
			},
			wantFee:  "18.00",
			wantRule: "A",
		},
		{
			name: "large amount far out",
			in: CreateInput{
				OriginAccount:      "PT123",
				DestinationAccount: "PT456",
				Amount:             dec("3000.00"),
				ScheduledDate:      today.AddDays(45),
			},
			setupMock: func(repo *MockRepository) {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Transfer")).Return(nil)
			},
			wantFee:  "51.00",
			wantRule: "C4",
		},
		{
			name: "no applicable rule is not persisted",
			in: CreateInput{
				OriginAccount:      "PTX",
				DestinationAccount: "PTY",
				Amount:             dec("500"),
				ScheduledDate:      today.AddDays(2),
			},
			wantErr:    fee.ErrNoApplicableRule,
			wantReason: fee.ReasonNoApplicableRule,
		},
		{
			name: "past date is not persisted",
			in: CreateInput{
				OriginAccount:      "PTX",
				DestinationAccount: "PTY",
				Amount:             dec("500"),
				ScheduledDate:      today.AddDays(-1),
			},
			wantErr:    fee.ErrPastScheduledDate,
			wantReason: fee.ReasonPastScheduledDate,
		},
		{
			name: "store failure propagates",
			in: CreateInput{
				OriginAccount:      "PT123",
				DestinationAccount: "PT456",
				Amount:             dec("1500"),
				ScheduledDate:      today.AddDays(5),
			},
			setupMock: func(repo *MockRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := NewService(repo, fixedClock{now}, time.UTC, nil)
			got, err := svc.Create(context.Background(), tt.in)

			switch {
			case tt.wantReason != "":
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				r, ok := fee.AsRejection(err)
				require.True(t, ok)
				assert.Equal(t, tt.wantReason, r.Reason)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			case tt.wantErr != nil:
				assert.EqualError(t, err, tt.wantErr.Error())
				_, isRejection := fee.AsRejection(err)
				assert.False(t, isRejection)
			default:
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, got.ID)
				assert.Equal(t, "PT123", got.OriginAccount)
				assert.Equal(t, tt.wantFee, got.Fee.StringFixed(2))
				assert.Equal(t, tt.wantRule, got.FeeRule)
				assert.True(t, got.CreatedAt.Equal(now))
				assert.True(t, got.UpdatedAt.Equal(now))
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestService_Create_PersistsComputedFee(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, fixedClock{now}, time.UTC, nil)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(tr *models.Transfer) bool {
		return tr.Fee.Equal(dec("135.00")) && tr.FeeRule == "B" && tr.CreatedAt.Equal(now)
	})).Return(nil).Once()

	_, err := svc.Create(context.Background(), CreateInput{
		OriginAccount:      "PT123",
		DestinationAccount: "PT456",
		Amount:             dec("1500.00"),
		ScheduledDate:      today.AddDays(5),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_ReferenceDateUsesLocation(t *testing.T) {
	// 23:30 UTC on the 18th is already the 19th in Tokyo.
	late := time.Date(2026, time.October, 18, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	utcSvc := NewService(new(MockRepository), fixedClock{late}, time.UTC, nil)
	tokyoSvc := NewService(new(MockRepository), fixedClock{late}, tokyo, nil)

	scheduled := calendar.New(2026, time.October, 18)
	assert.True(t, utcSvc.Quote(context.Background(), dec("500"), scheduled).Accepted())

	out := tokyoSvc.Quote(context.Background(), dec("500"), scheduled)
	require.False(t, out.Accepted())
	assert.Equal(t, fee.ReasonPastScheduledDate, out.Rejection.Reason)
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	created := now.Add(-24 * time.Hour)

	existing := func() *models.Transfer {
		return &models.Transfer{
			ID:                 id,
			OriginAccount:      "OLD",
			DestinationAccount: "OLD_DST",
			Amount:             dec("100"),
			ScheduledDate:      today,
			Fee:                dec("6.00"),
			FeeRule:            "A",
			CreatedAt:          created,
		}
	}

	t.Run("recomputes fee and saves", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*models.Transfer")).Return(nil)

		svc := NewService(repo, fixedClock{now}, time.UTC, nil)
		got, err := svc.Update(context.Background(), id, UpdateInput{
			OriginAccount:      "NEW",
			DestinationAccount: "NEW_DST",
			Amount:             dec("150"),
			ScheduledDate:      today,
		})

		require.NoError(t, err)
		assert.Equal(t, "NEW", got.OriginAccount)
		assert.Equal(t, "NEW_DST", got.DestinationAccount)
		assert.Equal(t, "7.50", got.Fee.StringFixed(2))
		assert.True(t, got.CreatedAt.Equal(created))
		assert.True(t, got.UpdatedAt.Equal(now))
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrTransferNotFound)

		svc := NewService(repo, fixedClock{now}, time.UTC, nil)
		got, err := svc.Update(context.Background(), id, UpdateInput{Amount: dec("150"), ScheduledDate: today})

		assert.Nil(t, got)
		assert.ErrorIs(t, err, repositories.ErrTransferNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("rejection keeps stored transfer", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetByID", mock.Anything, id).Return(existing(), nil)

		svc := NewService(repo, fixedClock{now}, time.UTC, nil)
		_, err := svc.Update(context.Background(), id, UpdateInput{
			OriginAccount:      "NEW",
			DestinationAccount: "NEW_DST",
			Amount:             dec("1500"),
			ScheduledDate:      today.AddDays(30),
		})

		assert.ErrorIs(t, err, fee.ErrNoApplicableRule)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestService_ListGetDelete(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo, fixedClock{now}, time.UTC, nil)
	ctx := context.Background()

	t1 := models.Transfer{ID: uuid.New()}
	t2 := models.Transfer{ID: uuid.New()}
	repo.On("List", mock.Anything, 10, 0).Return([]models.Transfer{t1, t2}, int64(2), nil)
	repo.On("GetByID", mock.Anything, t1.ID).Return(&t1, nil)
	repo.On("Delete", mock.Anything, t1.ID).Return(true, nil)
	repo.On("Delete", mock.Anything, t2.ID).Return(false, nil)

	all, total, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []models.Transfer{t1, t2}, all)

	got, err := svc.Get(ctx, t1.ID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, got.ID)

	existed, err := svc.Delete(ctx, t1.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = svc.Delete(ctx, t2.ID)
	require.NoError(t, err)
	assert.False(t, existed)

	repo.AssertExpectations(t)
}
