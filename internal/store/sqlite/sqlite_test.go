package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)

	_, err := s.Get(ctx, "key")
	require.ErrorIs(t, err, searchhistory.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "key", []byte("first")))
	require.NoError(t, s.Set(ctx, "key", []byte("second")))

	got, err := s.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	require.NoError(t, s.Delete(ctx, "key"))
	assert.ErrorIs(t, s.Delete(ctx, "key"), searchhistory.ErrKeyNotFound)
}

func TestStorage_BacksSearchHistory(t *testing.T) {
	ctx := context.Background()
	s := openTestStorage(t)

	history := searchhistory.New(ctx, s, searchhistory.Options{}, zerolog.Nop())
	history.Add(ctx, "Impression, Sunrise")
	history.Add(ctx, "impression, sunrise")

	reloaded := searchhistory.New(ctx, s, searchhistory.Options{}, zerolog.Nop())
	assert.Equal(t, searchhistory.Stats{Total: 1, TotalSearches: 2}, reloaded.Stats())
}
