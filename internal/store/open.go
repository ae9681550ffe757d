// Package store opens the searchhistory.Storage backend selected by configuration.
package store

import (
	"fmt"

	"github.com/hay-kot/artstory/internal/core/config"
	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/store/jsonfile"
	"github.com/hay-kot/artstory/internal/store/memory"
	"github.com/hay-kot/artstory/internal/store/redis"
	"github.com/hay-kot/artstory/internal/store/sqlite"
)

// Open returns the storage backend named by cfg.Storage.Backend and a function that
// releases it.
func Open(cfg *config.Config) (searchhistory.Storage, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendFile:
		return jsonfile.NewKVStore(cfg.HistoryFile()), noop, nil
	case config.BackendMemory:
		return memory.New(), noop, nil
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.DatabaseFile())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := redis.New(cfg.Storage.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
