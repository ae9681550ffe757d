package commands

import (
	"fmt"
	"strings"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
)

// resolveRecord finds a record by exact id or by a unique id prefix.
func resolveRecord(history *searchhistory.Store, id string) (searchhistory.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return searchhistory.Record{}, fmt.Errorf("record id is required")
	}

	if rec, ok := history.Get(id); ok {
		return rec, nil
	}

	var matches []searchhistory.Record
	for _, rec := range history.Query(searchhistory.Filter{}) {
		if strings.HasPrefix(rec.ID, id) {
			matches = append(matches, rec)
		}
	}

	switch len(matches) {
	case 0:
		return searchhistory.Record{}, fmt.Errorf("no search history record matches %q", id)
	case 1:
		return matches[0], nil
	default:
		return searchhistory.Record{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", id, len(matches))
	}
}
