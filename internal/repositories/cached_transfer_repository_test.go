package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"schedpay/internal/models"
	"schedpay/internal/repositories/cache"
)

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Transfer), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransferRepository) Update(ctx context.Context, transfer *models.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newCachedRepo(t *testing.T, next TransferRepository) (*CachedTransferRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCachedTransferRepository(next, cache.NewCacheService(client, time.Minute), nil), mr
}

func TestCachedTransferRepository_GetByIDReadsThrough(t *testing.T) {
	next := new(MockTransferRepository)
	repo, mr := newCachedRepo(t, next)
	ctx := context.Background()

	transfer := newTransfer("500.00")
	transfer.ID = uuid.New()
	next.On("GetByID", mock.Anything, transfer.ID).Return(transfer, nil).Once()

	first, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)

	assert.Equal(t, transfer.ID, first.ID)
	assert.Equal(t, transfer.ID, second.ID)
	assert.True(t, mr.Exists("transfer:id:"+transfer.ID.String()))
	next.AssertExpectations(t)
}

func TestCachedTransferRepository_NotFoundIsNotCached(t *testing.T) {
	next := new(MockTransferRepository)
	repo, mr := newCachedRepo(t, next)

	id := uuid.New()
	next.On("GetByID", mock.Anything, id).Return(nil, ErrTransferNotFound).Twice()

	for i := 0; i < 2; i++ {
		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrTransferNotFound)
	}
	assert.Empty(t, mr.Keys())
	next.AssertExpectations(t)
}

func TestCachedTransferRepository_WritesInvalidate(t *testing.T) {
	repo, mr := newCachedRepo(t, NewMemoryTransferRepository())
	ctx := context.Background()

	transfer := newTransfer("500.00")
	require.NoError(t, repo.Create(ctx, transfer))
	key := "transfer:id:" + transfer.ID.String()
	assert.True(t, mr.Exists(key))

	transfer.OriginAccount = "PT777"
	require.NoError(t, repo.Update(ctx, transfer))
	assert.False(t, mr.Exists(key))

	got, err := repo.GetByID(ctx, transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, "PT777", got.OriginAccount)

	existed, err := repo.Delete(ctx, transfer.ID)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.False(t, mr.Exists(key))

	_, err = repo.GetByID(ctx, transfer.ID)
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestCachedTransferRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	next := new(MockTransferRepository)
	repo, mr := newCachedRepo(t, next)
	mr.Close()

	transfer := newTransfer("500.00")
	transfer.ID = uuid.New()
	next.On("GetByID", mock.Anything, transfer.ID).Return(transfer, nil)
	next.On("Create", mock.Anything, transfer).Return(nil)

	got, err := repo.GetByID(context.Background(), transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.ID, got.ID)
	assert.NoError(t, repo.Create(context.Background(), transfer))
}

func TestCachedTransferRepository_PropagatesStoreErrors(t *testing.T) {
	next := new(MockTransferRepository)
	repo, _ := newCachedRepo(t, next)

	transfer := newTransfer("500.00")
	next.On("Create", mock.Anything, transfer).Return(errors.New("db down"))
	next.On("List", mock.Anything, 10, 0).Return([]models.Transfer{}, int64(0), errors.New("db down"))

	assert.EqualError(t, repo.Create(context.Background(), transfer), "db down")
	_, _, err := repo.List(context.Background(), 10, 0)
	assert.Error(t, err)
}
