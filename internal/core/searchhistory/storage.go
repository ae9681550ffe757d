package searchhistory

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a Storage when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Storage is the key-value substrate the history snapshot is persisted to.
type Storage interface {
	// Get returns the value for key. Returns ErrKeyNotFound if not found.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set creates or replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Returns ErrKeyNotFound if not found.
	Delete(ctx context.Context, key string) error
}
