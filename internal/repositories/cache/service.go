package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"schedpay/internal/models"
	keys "schedpay/internal/utils/cache"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the value at key into dest. It reports false on a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Transfer caching
func (s *CacheService) CacheTransfer(ctx context.Context, transfer *models.Transfer) error {
	if transfer == nil {
		return errors.New("cannot cache nil transfer")
	}
	return s.Set(ctx, keys.TransferKey(transfer.ID), transfer)
}

// GetTransfer returns the cached transfer, or nil on a miss.
func (s *CacheService) GetTransfer(ctx context.Context, id uuid.UUID) (*models.Transfer, error) {
	var transfer models.Transfer
	found, err := s.Get(ctx, keys.TransferKey(id), &transfer)
	if err != nil || !found {
		return nil, err
	}
	return &transfer, nil
}

func (s *CacheService) InvalidateTransfer(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, keys.TransferKey(id))
}

// InvalidateTransfers deletes every cached transfer and leaves other keys in
// the database alone. It returns the number of keys removed.
func (s *CacheService) InvalidateTransfers(ctx context.Context) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, keys.Pattern(keys.EntityTransfer), 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			n, err := s.client.Del(ctx, batch...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	if len(batch) > 0 {
		n, err := s.client.Del(ctx, batch...).Result()
		if err != nil {
			return removed, err
		}
		removed += int(n)
	}
	return removed, nil
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
