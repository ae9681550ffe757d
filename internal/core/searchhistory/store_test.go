package searchhistory_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/store/memory"
)

// fakeClock advances one second on every read so that each mutation gets a distinct timestamp.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newStore(t *testing.T, storage searchhistory.Storage, clock *fakeClock) *searchhistory.Store {
	t.Helper()
	return searchhistory.New(context.Background(), storage, searchhistory.Options{Now: clock.Now}, zerolog.Nop())
}

func queries(records []searchhistory.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Query
	}
	return out
}

func persisted(t *testing.T, storage *memory.Storage) []searchhistory.Record {
	t.Helper()
	data, ok := storage.Snapshot()[searchhistory.StorageKey]
	require.True(t, ok, "snapshot should be persisted")

	var records []searchhistory.Record
	require.NoError(t, json.Unmarshal(data, &records))
	return records
}

func TestStore_AddDeduplicatesIgnoringCase(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	for _, q := range []string{"Starry Night", "starry night", "STARRY NIGHT", "  Starry night "} {
		_, ok := store.Add(ctx, q)
		require.True(t, ok)
	}

	all := store.Query(searchhistory.Filter{})
	require.Len(t, all, 1)
	assert.Equal(t, 4, all[0].SearchCount)
	assert.Equal(t, "Starry Night", all[0].Query, "display query keeps the first spelling")
}

func TestStore_AddNewRecordDefaults(t *testing.T) {
	clock := newClock()
	store := newStore(t, memory.New(), clock)

	rec, ok := store.Add(context.Background(), "The Kiss")
	require.True(t, ok)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "The Kiss", rec.Query)
	assert.Equal(t, 1, rec.SearchCount)
	assert.False(t, rec.IsFavorite)
	assert.Equal(t, clock.t, rec.Timestamp)
}

func TestStore_RepeatMovesRecordToFront(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	first, _ := store.Add(ctx, "a")
	store.Add(ctx, "b")
	again, _ := store.Add(ctx, "A")

	assert.Equal(t, first.ID, again.ID, "repeat keeps the id")
	assert.True(t, again.Timestamp.After(first.Timestamp))
	assert.Equal(t, []string{"a", "b"}, queries(store.Query(searchhistory.Filter{})))
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	store := newStore(t, storage, newClock())

	for i := range 25 {
		store.Add(ctx, fmt.Sprintf("query %02d", i))
	}

	all := store.Query(searchhistory.Filter{})
	require.Len(t, all, searchhistory.DefaultMaxEntries)
	assert.Equal(t, "query 24", all[0].Query)
	assert.Equal(t, "query 05", all[len(all)-1].Query)

	for i := range 5 {
		assert.NotContains(t, queries(all), fmt.Sprintf("query %02d", i))
	}

	assert.Len(t, persisted(t, storage), searchhistory.DefaultMaxEntries)
}

func TestStore_CapacityEvictsFavorites(t *testing.T) {
	ctx := context.Background()
	store := searchhistory.New(ctx, memory.New(), searchhistory.Options{MaxEntries: 2, Now: newClock().Now}, zerolog.Nop())

	fav, _ := store.Add(ctx, "favorite")
	store.ToggleFavorite(ctx, fav.ID)
	store.Add(ctx, "second")
	store.Add(ctx, "third")

	_, ok := store.Get(fav.ID)
	assert.False(t, ok, "favorites are evicted by age like any other record")
	assert.Equal(t, []string{"third", "second"}, queries(store.Query(searchhistory.Filter{})))
}

func TestStore_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "empty", query: "", want: false},
		{name: "single space", query: " ", want: false},
		{name: "whitespace", query: "\t \n", want: false},
		{name: "one character", query: "a", want: true},
		{name: "100 characters", query: strings.Repeat("x", 100), want: true},
		{name: "101 characters", query: strings.Repeat("x", 101), want: false},
		{name: "100 characters after trim", query: "  " + strings.Repeat("y", 100) + "  ", want: true},
		{name: "100 multibyte characters", query: strings.Repeat("é", 100), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := memory.New()
			store := newStore(t, storage, newClock())

			_, ok := store.Add(context.Background(), tt.query)
			assert.Equal(t, tt.want, ok)

			if tt.want {
				assert.Equal(t, 1, store.Stats().Total)
				return
			}

			assert.Equal(t, 0, store.Stats().Total)
			assert.Empty(t, storage.Snapshot(), "rejected input must not be persisted")
		})
	}
}

func TestStore_ToggleFavoriteTwiceRestores(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	rec, _ := store.Add(ctx, "Guernica")

	toggled, ok := store.ToggleFavorite(ctx, rec.ID)
	require.True(t, ok)
	assert.True(t, toggled.IsFavorite)

	toggled, ok = store.ToggleFavorite(ctx, rec.ID)
	require.True(t, ok)
	assert.False(t, toggled.IsFavorite)
}

func TestStore_ToggleFavoriteUnknownID(t *testing.T) {
	store := newStore(t, memory.New(), newClock())

	_, ok := store.ToggleFavorite(context.Background(), "missing")
	assert.False(t, ok)
}

func TestStore_QueryOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	store.Add(ctx, "a")
	store.Add(ctx, "b")
	store.Add(ctx, "c")

	assert.Equal(t, []string{"c", "b", "a"}, queries(store.Query(searchhistory.Filter{})))
}

func TestStore_QueryFavoritesOnly(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	store.Add(ctx, "one")
	second, _ := store.Add(ctx, "two")
	store.Add(ctx, "three")
	store.ToggleFavorite(ctx, second.ID)

	favs := store.Query(searchhistory.Filter{Kind: searchhistory.FilterFavorites})
	require.Len(t, favs, 1)
	assert.Equal(t, second.ID, favs[0].ID)
}

func TestStore_QueryRecent(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	storage := memory.New()

	old := []map[string]any{
		{"id": "old", "query": "Old search", "timestamp": clock.t.Add(-10 * 24 * time.Hour).Format(time.RFC3339Nano), "isFavorite": false, "searchCount": 1},
	}
	data, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, searchhistory.StorageKey, data))

	store := newStore(t, storage, clock)
	store.Add(ctx, "New search")

	recent := store.Query(searchhistory.Filter{Kind: searchhistory.FilterRecent})
	assert.Equal(t, []string{"New search"}, queries(recent))

	wide := store.Query(searchhistory.Filter{Kind: searchhistory.FilterRecent, Days: 30})
	assert.Equal(t, []string{"New search", "Old search"}, queries(wide))
}

func TestStore_QueryText(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	store.Add(ctx, "Water Lilies")
	store.Add(ctx, "The Night Watch")
	store.Add(ctx, "Starry Night")

	got := store.Query(searchhistory.Filter{Text: "NIGHT"})
	assert.Equal(t, []string{"Starry Night", "The Night Watch"}, queries(got))

	none := store.Query(searchhistory.Filter{Kind: searchhistory.FilterFavorites, Text: "night"})
	assert.Empty(t, none)
}

func TestStore_QueryDoesNotPersist(t *testing.T) {
	storage := memory.New()
	store := newStore(t, storage, newClock())

	store.Query(searchhistory.Filter{})
	store.Stats()

	assert.Empty(t, storage.Snapshot())
}

func TestStore_Stats(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	store.Add(ctx, "Mona Lisa")
	store.Add(ctx, "mona lisa")

	assert.Equal(t, searchhistory.Stats{Total: 1, Favorites: 0, TotalSearches: 2}, store.Stats())
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	store := newStore(t, storage, newClock())

	a, _ := store.Add(ctx, "a")
	store.Add(ctx, "b")

	assert.False(t, store.Remove(ctx, "missing"))
	assert.True(t, store.Remove(ctx, a.ID))
	assert.Equal(t, []string{"b"}, queries(store.Query(searchhistory.Filter{})))
	assert.Equal(t, []string{"b"}, queries(persisted(t, storage)))
}

func TestStore_RemoveByQuery(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	store := newStore(t, storage, newClock())

	store.Add(ctx, "The Scream")
	store.Add(ctx, "Sunflowers")

	assert.False(t, store.RemoveByQuery(ctx, "nothing"))
	assert.True(t, store.RemoveByQuery(ctx, "the SCREAM"))
	assert.Equal(t, []string{"Sunflowers"}, queries(persisted(t, storage)))

	store.Add(ctx, "  Guernica ")
	assert.True(t, store.RemoveByQuery(ctx, " guernica  "), "matches the trimmed query Add stored")
	assert.Equal(t, []string{"Sunflowers"}, queries(persisted(t, storage)))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	store := newStore(t, storage, newClock())

	store.Add(ctx, "a")
	store.Add(ctx, "b")
	store.Clear(ctx)

	assert.Equal(t, 0, store.Stats().Total)
	assert.NotContains(t, storage.Snapshot(), searchhistory.StorageKey)

	// clearing an already empty history is fine
	store.Clear(ctx)
	assert.Equal(t, 0, store.Stats().Total)
}

func TestStore_WriteThroughReload(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	clock := newClock()

	store := newStore(t, storage, clock)
	rec, _ := store.Add(ctx, "Las Meninas")
	store.Add(ctx, "las meninas")
	store.ToggleFavorite(ctx, rec.ID)

	reloaded := newStore(t, storage, clock)
	all := reloaded.Query(searchhistory.Filter{})
	require.Len(t, all, 1)
	assert.Equal(t, rec.ID, all[0].ID)
	assert.True(t, all[0].IsFavorite)
	assert.Equal(t, 2, all[0].SearchCount)
}

func TestStore_WriteFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	storage.SetErr = errors.New("quota exceeded")
	store := newStore(t, storage, newClock())

	_, ok := store.Add(ctx, "The Birth of Venus")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Stats().Total)
	assert.Empty(t, storage.Snapshot())
}

func TestStore_CorruptStorageStartsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: "not json"},
		{name: "object", data: `{}`},
		{name: "string", data: `"history"`},
		{name: "truncated array", data: `[{"id": "a"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := memory.New()
			require.NoError(t, storage.Set(ctx, searchhistory.StorageKey, []byte(tt.data)))

			store := newStore(t, storage, newClock())

			assert.Equal(t, 0, store.Stats().Total)
			assert.NotContains(t, storage.Snapshot(), searchhistory.StorageKey, "corrupt key should be cleared")
		})
	}
}

func TestStore_LoadDropsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	snapshot := `[
		{"id": "ok", "query": "Valid", "timestamp": "2024-02-01T10:00:00.000Z", "isFavorite": true, "searchCount": 3},
		{"id": "no-count", "query": "No count", "timestamp": "2024-02-01T09:00:00Z"},
		{"id": "zero-count", "query": "Zero count", "timestamp": "2024-02-01T08:00:00Z", "searchCount": 0},
		{"query": "Missing id", "timestamp": "2024-02-01T10:00:00Z"},
		{"id": "empty", "query": "", "timestamp": "2024-02-01T10:00:00Z"},
		{"id": "long", "query": "` + strings.Repeat("z", 101) + `", "timestamp": "2024-02-01T10:00:00Z"},
		{"id": "bad-ts", "query": "Bad timestamp", "timestamp": "yesterday"},
		{"id": "bad-type", "query": 42, "timestamp": "2024-02-01T10:00:00Z"},
		null
	]`
	require.NoError(t, storage.Set(ctx, searchhistory.StorageKey, []byte(snapshot)))

	store := newStore(t, storage, newClock())

	all := store.Query(searchhistory.Filter{})
	require.Equal(t, []string{"Valid", "No count", "Zero count"}, queries(all))
	assert.True(t, all[0].IsFavorite)
	assert.Equal(t, 3, all[0].SearchCount)
	assert.Equal(t, 1, all[1].SearchCount)
	assert.Equal(t, 1, all[2].SearchCount)
}

func TestStore_LoadCoercesLooseFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    string
		wantCount int
		wantFav   bool
	}{
		{name: "huge count", fields: `"searchCount": 1e300`, wantCount: math.MaxInt},
		{name: "fractional count", fields: `"searchCount": 2.5`, wantCount: 2},
		{name: "negative count", fields: `"searchCount": -4`, wantCount: 1},
		{name: "numeric string count", fields: `"searchCount": "3"`, wantCount: 3},
		{name: "non-numeric string count", fields: `"searchCount": "many"`, wantCount: 1},
		{name: "bool count", fields: `"searchCount": true`, wantCount: 1},
		{name: "null count", fields: `"searchCount": null`, wantCount: 1},
		{name: "numeric favorite", fields: `"isFavorite": 1`, wantCount: 1, wantFav: true},
		{name: "zero favorite", fields: `"isFavorite": 0`, wantCount: 1},
		{name: "string favorite", fields: `"isFavorite": "yes"`, wantCount: 1, wantFav: true},
		{name: "empty string favorite", fields: `"isFavorite": ""`, wantCount: 1},
		{name: "null favorite", fields: `"isFavorite": null`, wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			storage := memory.New()
			snapshot := `[{"id": "a", "query": "Loose", "timestamp": "2024-02-01T10:00:00Z", ` + tt.fields + `}]`
			require.NoError(t, storage.Set(ctx, searchhistory.StorageKey, []byte(snapshot)))

			store := newStore(t, storage, newClock())

			rec, ok := store.Get("a")
			require.True(t, ok, "record should survive loading")
			assert.Equal(t, tt.wantCount, rec.SearchCount)
			assert.Equal(t, tt.wantFav, rec.IsFavorite)
			assert.Positive(t, store.Stats().TotalSearches)
		})
	}
}

func TestStore_LoadCollapsesDuplicatesAndCaps(t *testing.T) {
	ctx := context.Background()
	storage := memory.New()
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	var records []searchhistory.Record
	records = append(records,
		searchhistory.Record{ID: "older", Query: "dup", Timestamp: base, SearchCount: 1},
		searchhistory.Record{ID: "newer", Query: "DUP", Timestamp: base.Add(time.Hour), SearchCount: 2},
	)
	for i := range 5 {
		records = append(records, searchhistory.Record{
			ID:          fmt.Sprintf("id-%d", i),
			Query:       fmt.Sprintf("q%d", i),
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			SearchCount: 1,
		})
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, storage.Set(ctx, searchhistory.StorageKey, data))

	store := searchhistory.New(ctx, storage, searchhistory.Options{MaxEntries: 3, Now: newClock().Now}, zerolog.Nop())

	all := store.Query(searchhistory.Filter{})
	assert.Equal(t, []string{"DUP", "q4", "q3"}, queries(all))
	assert.Equal(t, "newer", all[0].ID)
}

func TestStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, memory.New(), newClock())

	var got [][]string
	unsubscribe := store.Subscribe(func(records []searchhistory.Record) {
		got = append(got, queries(records))
	})

	a, _ := store.Add(ctx, "a")
	store.Add(ctx, "b")
	store.ToggleFavorite(ctx, a.ID)
	store.Remove(ctx, "missing")
	store.Clear(ctx)

	unsubscribe()
	store.Add(ctx, "c")

	assert.Equal(t, [][]string{{"a"}, {"b", "a"}, {"b", "a"}, {}}, got)
}
