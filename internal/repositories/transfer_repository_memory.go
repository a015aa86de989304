package repositories

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"schedpay/internal/models"
)

// MemoryTransferRepository is an in-memory implementation of TransferRepository.
type MemoryTransferRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	data  map[uuid.UUID]models.Transfer
}

// NewMemoryTransferRepository creates a new in-memory transfer repository.
func NewMemoryTransferRepository() *MemoryTransferRepository {
	return &MemoryTransferRepository{
		data: make(map[uuid.UUID]models.Transfer),
	}
}

func (r *MemoryTransferRepository) Create(_ context.Context, transfer *models.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	r.data[transfer.ID] = *transfer
	r.order = append(r.order, transfer.ID)
	return nil
}

func (r *MemoryTransferRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	transfer, ok := r.data[id]
	if !ok {
		return nil, ErrTransferNotFound
	}
	return &transfer, nil
}

func (r *MemoryTransferRepository) List(_ context.Context, limit, offset int) ([]models.Transfer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := int64(len(r.order))
	transfers := make([]models.Transfer, 0)
	if offset < 0 {
		offset = 0
	}
	for i := offset; i < len(r.order); i++ {
		if limit > 0 && len(transfers) == limit {
			break
		}
		transfers = append(transfers, r.data[r.order[i]])
	}
	return transfers, total, nil
}

func (r *MemoryTransferRepository) Update(_ context.Context, transfer *models.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data[transfer.ID]
	if !ok {
		return ErrTransferNotFound
	}
	updated := *transfer
	updated.CreatedAt = existing.CreatedAt
	r.data[transfer.ID] = updated
	return nil
}

func (r *MemoryTransferRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[id]; !ok {
		return false, nil
	}
	delete(r.data, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}
