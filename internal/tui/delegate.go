package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/styles"
)

// RecordItem wraps a search record for the list component.
type RecordItem struct {
	Record searchhistory.Record
}

// FilterValue returns the value used for filtering.
func (i RecordItem) FilterValue() string {
	return i.Record.Query
}

// RecordDelegate renders one search record per line.
type RecordDelegate struct {
	Styles RecordDelegateStyles
	// Now is the reference time for relative timestamps.
	Now func() time.Time
}

// RecordDelegateStyles defines the styles for the delegate.
type RecordDelegateStyles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Meta     lipgloss.Style
	Favorite lipgloss.Style
}

// DefaultRecordDelegateStyles returns the default styles.
func DefaultRecordDelegateStyles() RecordDelegateStyles {
	return RecordDelegateStyles{
		Normal:   normalStyle,
		Selected: selectedStyle,
		Meta:     mutedStyle,
		Favorite: styles.FavoriteStyle,
	}
}

// NewRecordDelegate creates a record delegate with default styles.
func NewRecordDelegate() RecordDelegate {
	return RecordDelegate{
		Styles: DefaultRecordDelegateStyles(),
		Now:    time.Now,
	}
}

// Height returns the height of each item.
func (d RecordDelegate) Height() int {
	return 1
}

// Spacing returns the spacing between items.
func (d RecordDelegate) Spacing() int {
	return 0
}

// Update handles item updates.
func (d RecordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render renders a single item.
func (d RecordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	recordItem, ok := item.(RecordItem)
	if !ok {
		return
	}

	rec := recordItem.Record

	cursor := " "
	queryStyle := d.Styles.Normal
	if index == m.Index() {
		cursor = d.Styles.Selected.Render(iconCursor)
		queryStyle = d.Styles.Selected
	}

	star := " "
	if rec.IsFavorite {
		star = d.Styles.Favorite.Render(iconStar)
	}

	meta := d.Styles.Meta.Render(fmt.Sprintf("%s %s %dx", rec.RelativeTime(d.Now()), iconDot, rec.SearchCount))

	query := strings.ReplaceAll(rec.Query, "\n", " ")
	_, _ = fmt.Fprintf(w, "%s %s %s  %s", cursor, star, queryStyle.Render(query), meta)
}

// substringFilter matches list items whose value contains term, ignoring case.
// Matches keep their input order so the list stays newest first.
func substringFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(strings.TrimSpace(term))

	ranks := make([]list.Rank, 0, len(targets))
	for i, target := range targets {
		lower := strings.ToLower(target)
		at := strings.Index(lower, term)
		if at < 0 {
			continue
		}

		// highlight positions are rune offsets into the target
		start := len([]rune(lower[:at]))
		matched := make([]int, 0, len([]rune(term)))
		for j := range len([]rune(term)) {
			matched = append(matched, start+j)
		}

		ranks = append(ranks, list.Rank{Index: i, MatchedIndexes: matched})
	}

	return ranks
}
