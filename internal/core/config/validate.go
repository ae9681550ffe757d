package config

import (
	"fmt"
	"net/url"

	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is valid. Errors are reported per field
// as criterio.FieldErrors.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.History.MaxEntries < 1 {
		errs = errs.Append("history.max_entries", fmt.Errorf("must be at least 1, got %d", c.History.MaxEntries))
	}

	if c.History.RecentDays < 1 {
		errs = errs.Append("history.recent_days", fmt.Errorf("must be at least 1, got %d", c.History.RecentDays))
	}

	if c.History.MaxQueryLength < 1 {
		errs = errs.Append("history.max_query_length", fmt.Errorf("must be at least 1, got %d", c.History.MaxQueryLength))
	}

	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendSQLite:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			errs = errs.Append("storage.redis_url", fmt.Errorf("required when backend is %q", BackendRedis))
		} else if u, err := url.Parse(c.Storage.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errs = errs.Append("storage.redis_url", fmt.Errorf("must be a redis:// or rediss:// URL"))
		}
	default:
		errs = errs.Append("storage.backend", fmt.Errorf("unknown backend %q (want file, memory, sqlite or redis)", c.Storage.Backend))
	}

	return errs.ToError()
}
