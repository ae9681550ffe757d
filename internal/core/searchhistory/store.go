package searchhistory

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a Store. Zero values fall back to the package defaults.
type Options struct {
	MaxEntries     int
	RecentDays     int
	MaxQueryLength int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewID generates record IDs. Defaults to a time-ordered UUID.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.MaxEntries <= 0 {
		o.MaxEntries = DefaultMaxEntries
	}
	if o.RecentDays <= 0 {
		o.RecentDays = DefaultRecentDays
	}
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = DefaultMaxQueryLength
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = newID
	}
	return o
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Store is a bounded, deduplicated search history persisted write-through to a Storage.
//
// The in-memory collection is the source of truth for the lifetime of the Store. It is read
// from storage once in New, and every mutation writes the full snapshot back. Storage
// failures are logged and never returned to the caller.
type Store struct {
	storage Storage
	opts    Options
	logger  zerolog.Logger

	mu      sync.RWMutex
	records []Record // newest first

	subsMu  sync.Mutex
	subs    map[int]func([]Record)
	nextSub int
}

// New creates a Store and loads the persisted snapshot from storage.
// Corrupt snapshots are discarded and the storage key is cleared.
func New(ctx context.Context, storage Storage, opts Options, logger zerolog.Logger) *Store {
	s := &Store{
		storage: storage,
		opts:    opts.withDefaults(),
		logger:  logger,
		subs:    make(map[int]func([]Record)),
	}
	s.load(ctx)
	return s
}

// Options returns the effective options of the store.
func (s *Store) Options() Options {
	return s.opts
}

// Add records a search for query. Returns false when the trimmed query is empty or too long.
// A repeat of an existing query, ignoring case, bumps its timestamp and search count.
func (s *Store) Add(ctx context.Context, query string) (Record, bool) {
	query = strings.TrimSpace(query)
	if !validQuery(query, s.opts.MaxQueryLength) {
		s.logger.Debug().
			Int("length", utf8.RuneCountInString(query)).
			Msg("search query rejected")
		return Record{}, false
	}

	s.mu.Lock()
	now := s.opts.Now()
	rec := Record{
		ID:          s.opts.NewID(),
		Query:       query,
		Timestamp:   now,
		SearchCount: 1,
	}

	if i := s.indexByQuery(Normalize(query)); i >= 0 {
		rec = s.records[i]
		rec.Timestamp = now
		rec.SearchCount++
		s.records = slices.Delete(s.records, i, i+1)
	}

	s.records = slices.Insert(s.records, 0, rec)
	s.evict()
	snapshot := s.persist(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return rec, true
}

// ToggleFavorite flips the favorite flag of the record with the given id.
// Returns false if no such record exists.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (Record, bool) {
	s.mu.Lock()
	i := s.indexByID(id)
	if i < 0 {
		s.mu.Unlock()
		return Record{}, false
	}

	s.records[i].IsFavorite = !s.records[i].IsFavorite
	rec := s.records[i]
	snapshot := s.persist(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return rec, true
}

// Remove deletes the record with the given id. Returns false if no such record exists.
func (s *Store) Remove(ctx context.Context, id string) bool {
	return s.removeWhere(ctx, func(r Record) bool { return r.ID == id })
}

// RemoveByQuery deletes the record whose query matches, ignoring case.
// Returns false if no such record exists. The query is trimmed the same way Add
// trims it, so it matches the stored form of the search it names.
func (s *Store) RemoveByQuery(ctx context.Context, query string) bool {
	key := Normalize(strings.TrimSpace(query))
	return s.removeWhere(ctx, func(r Record) bool { return r.Normalized() == key })
}

func (s *Store) removeWhere(ctx context.Context, match func(Record) bool) bool {
	s.mu.Lock()
	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, match)
	if len(s.records) == before {
		s.mu.Unlock()
		return false
	}

	snapshot := s.persist(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// Clear removes every record and deletes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.records = nil
	err := s.storage.Delete(ctx, StorageKey)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, ErrKeyNotFound) {
		s.logger.Error().Err(err).Msg("failed to clear persisted search history")
	}

	s.notify([]Record{})
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexByID(id); i >= 0 {
		return s.records[i], true
	}
	return Record{}, false
}

// Query returns the records matching f, newest first. It never mutates or persists state.
func (s *Store) Query(f Filter) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := f.Days
	if days <= 0 {
		days = s.opts.RecentDays
	}
	cutoff := s.opts.Now().Add(-time.Duration(days) * 24 * time.Hour)
	text := strings.ToLower(strings.TrimSpace(f.Text))

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		switch f.Kind {
		case FilterFavorites:
			if !r.IsFavorite {
				continue
			}
		case FilterRecent:
			if !r.Timestamp.After(cutoff) {
				continue
			}
		}

		if text != "" && !strings.Contains(r.Normalized(), text) {
			continue
		}

		out = append(out, r)
	}

	slices.SortStableFunc(out, newestFirst)
	return out
}

// Stats summarizes the current collection.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{Total: len(s.records)}
	for _, r := range s.records {
		if r.IsFavorite {
			st.Favorites++
		}
		st.TotalSearches += r.SearchCount
	}
	return st
}

// Subscribe registers fn to receive a newest-first snapshot after every mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]Record)) (unsubscribe func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snapshot []Record) {
	s.subsMu.Lock()
	fns := make([]func([]Record), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(slices.Clone(snapshot))
	}
}

func (s *Store) indexByID(id string) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}

func (s *Store) indexByQuery(key string) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.Normalized() == key })
}

// evict keeps the MaxEntries most recently touched records. Favorites are not exempt.
func (s *Store) evict() {
	slices.SortStableFunc(s.records, newestFirst)
	if len(s.records) > s.opts.MaxEntries {
		dropped := len(s.records) - s.opts.MaxEntries
		s.records = slices.Clip(s.records[:s.opts.MaxEntries])
		s.logger.Debug().Int("evicted", dropped).Msg("search history over capacity")
	}
}

// persist writes the full collection to storage and returns a copy of it.
// Must be called with mu held.
func (s *Store) persist(ctx context.Context) []Record {
	snapshot := slices.Clone(s.records)
	if snapshot == nil {
		snapshot = []Record{}
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode search history")
		return snapshot
	}

	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Error().Err(err).Int("records", len(snapshot)).Msg("failed to persist search history")
	}

	return snapshot
}

func newestFirst(a, b Record) int {
	return b.Timestamp.Compare(a.Timestamp)
}
