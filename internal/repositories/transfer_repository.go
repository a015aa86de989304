package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"schedpay/internal/models"
)

var ErrTransferNotFound = errors.New("transfer not found")

// TransferRepository stores scheduled transfers.
type TransferRepository interface {
	Create(ctx context.Context, transfer *models.Transfer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error)
	// List returns transfers oldest first together with the total count. The
	// order of transfers created in the same instant is stable but otherwise
	// unspecified.
	List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error)
	Update(ctx context.Context, transfer *models.Transfer) error
	// Delete reports whether a transfer with id existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Create(ctx context.Context, transfer *models.Transfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}
	return nil
}

func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&transfer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer %s: %w", id, err)
	}
	return &transfer, nil
}

func (r *transferRepository) List(ctx context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Transfer{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transfers: %w", err)
	}

	transfers := make([]models.Transfer, 0)
	query := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&transfers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transfers: %w", err)
	}
	return transfers, total, nil
}

func (r *transferRepository) Update(ctx context.Context, transfer *models.Transfer) error {
	result := r.db.WithContext(ctx).Model(&models.Transfer{}).
		Where("id = ?", transfer.ID).
		Updates(map[string]interface{}{
			"origin_account":      transfer.OriginAccount,
			"destination_account": transfer.DestinationAccount,
			"amount":              transfer.Amount,
			"scheduled_date":      transfer.ScheduledDate,
			"fee":                 transfer.Fee,
			"fee_rule":            transfer.FeeRule,
			"updated_at":          transfer.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transfer %s: %w", transfer.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransferNotFound
	}
	return nil
}

func (r *transferRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transfer{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete transfer %s: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
