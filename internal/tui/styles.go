// Package tui implements the Bubble Tea search history browser.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/artstory/internal/styles"
)

// Styles used for rendering the TUI.
var (
	// Title style for the header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorBlue).
			PaddingLeft(1)

	// Active filter tab.
	tabActiveStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true).
			Underline(true)

	// Inactive filter tab.
	tabStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	// Selected row style.
	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorBlue).
			Bold(true)

	// Normal row style (terminal default).
	normalStyle = lipgloss.NewStyle()

	// Secondary text such as counts and times.
	mutedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	// Help line at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			PaddingLeft(1)
)

// Icons and symbols.
const (
	iconStar   = "★"
	iconCursor = "▌"
	iconDot    = "•"
)
