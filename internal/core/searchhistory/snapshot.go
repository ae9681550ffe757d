package searchhistory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// persistedRecord mirrors the stored layout loosely so that a single malformed
// record can be dropped without rejecting the whole snapshot.
type persistedRecord struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Timestamp   string          `json:"timestamp"`
	IsFavorite  json.RawMessage `json:"isFavorite"`
	SearchCount json.RawMessage `json:"searchCount"`
}

// DecodeSnapshot parses a persisted snapshot. It fails only when data is not a JSON
// array; records that are individually invalid are skipped and counted in dropped.
func DecodeSnapshot(data []byte, maxQueryLength int) (records []Record, dropped int, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, err
	}

	records = make([]Record, 0, len(raw))
	for _, item := range raw {
		rec, ok := decodeRecord(item, maxQueryLength)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func decodeRecord(item json.RawMessage, maxQueryLength int) (Record, bool) {
	var p persistedRecord
	if err := json.Unmarshal(item, &p); err != nil {
		return Record{}, false
	}

	if p.ID == "" || strings.TrimSpace(p.Query) == "" || !validQuery(p.Query, maxQueryLength) {
		return Record{}, false
	}

	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return Record{}, false
	}

	return Record{
		ID:          p.ID,
		Query:       p.Query,
		Timestamp:   ts,
		IsFavorite:  truthy(p.IsFavorite),
		SearchCount: coerceCount(p.SearchCount),
	}, true
}

// coerceCount reads a persisted search count of any JSON type. Numbers and numeric
// strings are floored and clamped to [1, math.MaxInt]; anything else counts once.
func coerceCount(raw json.RawMessage) int {
	var f float64
	switch v := decodeLoose(raw).(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 1
		}
		f = parsed
	default:
		return 1
	}

	switch {
	case math.IsNaN(f) || f < 1:
		return 1
	case f >= math.MaxInt:
		return math.MaxInt
	default:
		return int(math.Floor(f))
	}
}

// truthy reports whether a persisted flag of any JSON type is set. false, 0, "",
// null and a missing value are unset; every other value is set.
func truthy(raw json.RawMessage) bool {
	switch v := decodeLoose(raw).(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case string:
		return v != ""
	default:
		return true
	}
}

func decodeLoose(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// load reads the persisted snapshot into memory. Must only be called from New.
func (s *Store) load(ctx context.Context) {
	data, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error().Err(err).Msg("failed to read search history, starting empty")
		}
		return
	}

	if len(data) == 0 {
		return
	}

	records, dropped, err := DecodeSnapshot(data, s.opts.MaxQueryLength)
	if err != nil {
		s.logger.Warn().Err(err).Msg("search history corrupted, discarding")
		if err := s.storage.Delete(ctx, StorageKey); err != nil && !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error().Err(err).Msg("failed to clear corrupted search history")
		}
		return
	}

	records, merged := dedupe(records)
	dropped += merged
	if dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("discarded invalid search history records")
	}

	s.records = records
	s.evict()
}

// dedupe keeps the most recently touched record for each normalized query.
func dedupe(records []Record) ([]Record, int) {
	slices.SortStableFunc(records, newestFirst)

	seen := make(map[string]struct{}, len(records))
	out := records[:0]
	for _, r := range records {
		key := r.Normalized()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out, len(records) - len(out)
}
