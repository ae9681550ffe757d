// Package searchhistory defines the search history domain types and the store that manages them.
package searchhistory

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// StorageKey is the key the history snapshot is persisted under.
const StorageKey = "artstory_search_history"

// Defaults used when Options leaves a field unset.
const (
	DefaultMaxEntries     = 20
	DefaultRecentDays     = 7
	DefaultMaxQueryLength = 100
)

// Record is a single deduplicated search.
type Record struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	IsFavorite  bool      `json:"isFavorite"`
	SearchCount int       `json:"searchCount"`
}

// Normalized returns the comparison key for the record's query.
func (r Record) Normalized() string {
	return Normalize(r.Query)
}

// Normalize lowercases a query for case-insensitive equality.
func Normalize(query string) string {
	return strings.ToLower(query)
}

// validQuery reports whether a trimmed query is within [1, maxLen] characters.
func validQuery(query string, maxLen int) bool {
	n := utf8.RuneCountInString(query)
	return n > 0 && n <= maxLen
}

// RelativeTime formats how long ago the record was touched, relative to now.
func (r Record) RelativeTime(now time.Time) string {
	d := now.Sub(r.Timestamp)

	minutes := int(d.Minutes())
	hours := int(d.Hours())
	days := hours / 24

	switch {
	case d < time.Minute:
		return "just now"
	case minutes == 1:
		return "1 minute ago"
	case minutes < 60:
		return fmt.Sprintf("%d minutes ago", minutes)
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		if weeks := days / 7; weeks > 1 {
			return fmt.Sprintf("%d weeks ago", weeks)
		}
		return "1 week ago"
	default:
		return r.Timestamp.Format("2006-01-02")
	}
}

// Stats summarizes the collection.
type Stats struct {
	Total         int `json:"total"`
	Favorites     int `json:"favorites"`
	TotalSearches int `json:"totalSearches"`
}

// FilterKind selects which subset of records Query returns.
type FilterKind int

const (
	FilterAll FilterKind = iota
	FilterFavorites
	FilterRecent
)

// String returns the display name of the filter kind.
func (k FilterKind) String() string {
	switch k {
	case FilterFavorites:
		return "favorites"
	case FilterRecent:
		return "recent"
	default:
		return "all"
	}
}

// Filter describes a read-only projection of the history.
type Filter struct {
	Kind FilterKind
	// Days is the window for FilterRecent. Zero uses the store's configured default.
	Days int
	// Text keeps records whose query contains it, ignoring case. Empty matches all.
	Text string
}
