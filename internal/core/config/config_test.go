package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), dataDir)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.History.MaxEntries)
	assert.Equal(t, 7, cfg.History.RecentDays)
	assert.Equal(t, 100, cfg.History.MaxQueryLength)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dataDir, "history.json"), cfg.HistoryFile())
	assert.Equal(t, filepath.Join(dataDir, "history.db"), cfg.DatabaseFile())
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
history:
  max_entries: 50
  recent_days: 14
storage:
  backend: sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.History.MaxEntries)
	assert.Equal(t, 14, cfg.History.RecentDays)
	assert.Equal(t, 100, cfg.History.MaxQueryLength, "unset values fall back to defaults")
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)

	opts := cfg.HistoryOptions()
	assert.Equal(t, 50, opts.MaxEntries)
	assert.Equal(t, 14, opts.RecentDays)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("history: [unclosed"), 0o644))

	_, err := Load(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
history:
  max_entries: -1
storage:
  backend: floppy
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path, t.TempDir())

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
	assert.Equal(t, "history.max_entries", fieldErrs[0].Field)
	assert.Equal(t, "storage.backend", fieldErrs[1].Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }, field: "data_dir"},
		{name: "zero recent days", mutate: func(c *Config) { c.History.RecentDays = 0 }, field: "history.recent_days"},
		{name: "zero query length", mutate: func(c *Config) { c.History.MaxQueryLength = 0 }, field: "history.max_query_length"},
		{name: "redis without url", mutate: func(c *Config) { c.Storage.Backend = BackendRedis }, field: "storage.redis_url"},
		{
			name: "redis with http url",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendRedis
				c.Storage.RedisURL = "http://localhost:6379"
			},
			field: "storage.redis_url",
		},
		{
			name: "redis with url",
			mutate: func(c *Config) {
				c.Storage.Backend = BackendRedis
				c.Storage.RedisURL = "redis://localhost:6379/0"
			},
		},
		{name: "memory backend", mutate: func(c *Config) { c.Storage.Backend = BackendMemory }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.Len(t, fieldErrs, 1)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}
