package tui

import (
	"fmt"
	"strings"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/styles"
)

var filterKinds = []searchhistory.FilterKind{
	searchhistory.FilterAll,
	searchhistory.FilterFavorites,
	searchhistory.FilterRecent,
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Search history"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	if m.list.IsFiltered() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s matching %q", iconDot, m.list.FilterValue())))
	}
	b.WriteString("\n")

	b.WriteString(styles.DividerStyle.Render(strings.Repeat("─", max(m.width, 40))))
	b.WriteString("\n")

	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(filterKinds))
	for i, k := range filterKinds {
		label := k.String()
		if k == searchhistory.FilterRecent {
			label = fmt.Sprintf("recent (%dd)", m.history.Options().RecentDays)
		}

		if k == m.kind {
			tabs[i] = tabActiveStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(tabs, mutedStyle.Render(" "+iconDot+" "))
}

func (m Model) renderFooter() string {
	if m.state == stateConfirmingClear {
		return " " + styles.ErrorStyle.Render(fmt.Sprintf("Clear all %d searches? (y/N)", m.stats.Total))
	}

	return mutedStyle.Render(fmt.Sprintf(" %d searches %s %d favorites %s %d total",
		m.stats.Total, iconDot, m.stats.Favorites, iconDot, m.stats.TotalSearches))
}
