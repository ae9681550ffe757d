// Package memory provides an in-memory searchhistory.Storage.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

// Storage is a map-backed key-value store. The zero value is not usable; use New.
type Storage struct {
	mu      sync.RWMutex
	entries map[string][]byte

	// SetErr, when non-nil, is returned by every Set call to simulate an unavailable
	// or full backend.
	SetErr error
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{entries: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, searchhistory.ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SetErr != nil {
		return s.SetErr
	}

	s.entries[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return searchhistory.ErrKeyNotFound
	}
	delete(s.entries, key)
	return nil
}

// Snapshot returns a copy of every stored entry.
func (s *Storage) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}
