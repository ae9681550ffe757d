// Package redis provides a Redis-backed searchhistory.Storage.
package redis

import (
	"context"
	"fmt"

	fiberredis "github.com/gofiber/storage/redis/v3"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

// Storage stores values in Redis through the fiber storage driver.
type Storage struct {
	client *fiberredis.Storage
}

// New connects to the Redis instance at url, e.g. redis://localhost:6379/0.
// The driver pings on connect and panics on failure; that panic is returned as an error.
func New(url string) (s *Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("connect to redis: %v", r)
		}
	}()

	return &Storage{
		client: fiberredis.New(fiberredis.Config{URL: url}),
	}, nil
}

// Close closes the Redis connection.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Get returns the value stored under key. Returns ErrKeyNotFound if not found.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.GetWithContext(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("redis get %q: %w", key, err)
	}
	// the driver reports a missing key as a nil value
	if v == nil {
		return nil, searchhistory.ErrKeyNotFound
	}
	return v, nil
}

// Set stores value under key without expiration.
func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.SetWithContext(ctx, key, value, 0); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. The driver does not report whether the key existed, so a
// missing key is not an error here.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.DeleteWithContext(ctx, key); err != nil {
		return fmt.Errorf("redis delete %q: %w", key, err)
	}
	return nil
}
