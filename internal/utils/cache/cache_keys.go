package cache

import (
	"fmt"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityTransfer EntityType = "transfer"
)

type KeyType string

const (
	KeyID KeyType = "id"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// TransferKey is the key a transfer is cached under.
func TransferKey(id uuid.UUID) string {
	return GenerateKey(EntityTransfer, KeyID, id)
}

// Pattern matches every key of entity.
func Pattern(entity EntityType) string {
	return string(entity) + ":*"
}
