// Package jsonfile provides a JSON file-based key-value storage for search history.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

// errCorrupt marks a KV file that exists but cannot be parsed.
var errCorrupt = errors.New("corrupt kv file")

// Entry is a single stored value with its modification time. JSON values are embedded
// verbatim in Value so the file stays readable; anything else is kept in Raw.
type Entry struct {
	Value     json.RawMessage `json:"value,omitempty"`
	Raw       string          `json:"raw,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newEntry(value []byte) Entry {
	e := Entry{UpdatedAt: time.Now()}
	if json.Valid(value) {
		e.Value = json.RawMessage(append([]byte(nil), value...))
	} else {
		e.Raw = string(value)
	}
	return e
}

// Bytes returns the stored value.
func (e Entry) Bytes() []byte {
	if e.Value != nil {
		return []byte(e.Value)
	}
	return []byte(e.Raw)
}

// KVFile is the root JSON structure stored on disk.
type KVFile struct {
	Entries map[string]Entry `json:"entries"`
}

// KVStore implements searchhistory.Storage using a JSON file for persistence.
type KVStore struct {
	path string
	mu   sync.RWMutex
}

// NewKVStore creates a new JSON file KV store at the given path.
func NewKVStore(path string) *KVStore {
	return &KVStore{path: path}
}

// Path returns the backing file path.
func (s *KVStore) Path() string {
	return s.path
}

func (s *KVStore) lockPath() string {
	return s.path + ".lock"
}

// withSharedLock executes fn while holding a shared (read) file lock.
func (s *KVStore) withSharedLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_SH, fn)
}

// withExclusiveLock executes fn while holding an exclusive (write) file lock.
func (s *KVStore) withExclusiveLock(fn func() error) error {
	return s.withFileLock(syscall.LOCK_EX, fn)
}

func (s *KVStore) withFileLock(lockType int, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	if err := syscall.Flock(int(f.Fd()), lockType); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN) //nolint:errcheck

	return fn()
}

// Get returns the value stored under key. Returns ErrKeyNotFound if not found.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		entry Entry
		found bool
	)

	err := s.withSharedLock(func() error {
		file, err := s.load()
		if err != nil {
			return err
		}

		entry, found = file.Entries[key]
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, searchhistory.ErrKeyNotFound
	}

	return entry.Bytes(), nil
}

// Set creates or replaces the value stored under key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withExclusiveLock(func() error {
		file, err := s.loadOrReset()
		if err != nil {
			return err
		}

		file.Entries[key] = newEntry(value)
		return s.save(file)
	})
}

// Delete removes key. Returns ErrKeyNotFound if not found.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var notFound bool

	err := s.withExclusiveLock(func() error {
		file, err := s.loadOrReset()
		if err != nil {
			return err
		}

		if _, ok := file.Entries[key]; !ok {
			notFound = true
			return nil
		}

		delete(file.Entries, key)
		return s.save(file)
	})
	if err != nil {
		return err
	}

	if notFound {
		return searchhistory.ErrKeyNotFound
	}

	return nil
}

// loadOrReset is load for writers: a corrupt file is replaced by an empty one so
// writes can succeed again. Must be called with the exclusive lock held.
func (s *KVStore) loadOrReset() (KVFile, error) {
	file, err := s.load()
	if errors.Is(err, errCorrupt) {
		log.Warn().Err(err).Str("path", s.path).Msg("resetting corrupt kv file")
		return KVFile{Entries: make(map[string]Entry)}, nil
	}
	return file, err
}

// load reads the KV file from disk.
// Returns empty KVFile if file doesn't exist.
func (s *KVStore) load() (KVFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return KVFile{Entries: make(map[string]Entry)}, nil
		}
		return KVFile{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	if len(data) == 0 {
		return KVFile{Entries: make(map[string]Entry)}, nil
	}

	var file KVFile
	if err := json.Unmarshal(data, &file); err != nil {
		return KVFile{}, fmt.Errorf("parse %s: %w: %w", s.path, errCorrupt, err)
	}

	if file.Entries == nil {
		file.Entries = make(map[string]Entry)
	}

	return file, nil
}

// save writes the KV file to disk atomically.
func (s *KVStore) save(file KVFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.path, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp) // best effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
