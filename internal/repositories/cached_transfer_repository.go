package repositories

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedpay/internal/logging"
	"schedpay/internal/models"
	"schedpay/internal/repositories/cache"
)

// CachedTransferRepository serves GetByID from redis and falls through to the
// wrapped repository on a miss. Cache failures are logged and never returned.
type CachedTransferRepository struct {
	next   TransferRepository
	cache  *cache.CacheService
	logger *zap.Logger
}

func NewCachedTransferRepository(next TransferRepository, cacheService *cache.CacheService, logger *zap.Logger) *CachedTransferRepository {
	return &CachedTransferRepository{
		next:   next,
		cache:  cacheService,
		logger: logging.OrNop(logger).Named("transfer_cache"),
	}
}

func (r *CachedTransferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	if err := r.next.Create(ctx, transfer); err != nil {
		return err
	}
	r.store(ctx, transfer)
	return nil
}

func (r *CachedTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	cached, err := r.cache.GetTransfer(ctx, id)
	if err != nil {
		r.logger.Warn("cache read failed", zap.Stringer("transfer_id", id), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	transfer, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, transfer)
	return transfer, nil
}

func (r *CachedTransferRepository) List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	return r.next.List(ctx, limit, offset)
}

// Update and Delete drop the cached copy after the write so a concurrent
// read-through cannot leave the old record behind.
func (r *CachedTransferRepository) Update(ctx context.Context, transfer *models.Transfer) error {
	err := r.next.Update(ctx, transfer)
	r.invalidate(ctx, transfer.ID)
	return err
}

func (r *CachedTransferRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	existed, err := r.next.Delete(ctx, id)
	r.invalidate(ctx, id)
	return existed, err
}

func (r *CachedTransferRepository) store(ctx context.Context, transfer *models.Transfer) {
	if err := r.cache.CacheTransfer(ctx, transfer); err != nil {
		r.logger.Warn("cache write failed", zap.Stringer("transfer_id", transfer.ID), zap.Error(err))
	}
}

func (r *CachedTransferRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.InvalidateTransfer(ctx, id); err != nil {
		r.logger.Warn("cache invalidation failed", zap.Stringer("transfer_id", id), zap.Error(err))
	}
}
