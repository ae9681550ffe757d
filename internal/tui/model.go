package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/styles"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirmingClear
)

// Rows used by the header and footer around the list.
const chromeHeight = 4

// historyChangedMsg is sent when the store reports a mutation.
type historyChangedMsg struct{}

// Model is the Bubble Tea model for the search history browser.
type Model struct {
	ctx     context.Context
	history *searchhistory.Store
	keys    keyMap
	state   UIState
	list    list.Model

	kind  searchhistory.FilterKind
	stats searchhistory.Stats

	changes     chan struct{}
	done        chan struct{}
	unsubscribe func()

	width    int
	height   int
	quitting bool
}

// New creates a browser bound to history. The model subscribes to the store and
// re-renders after every mutation, including ones it did not make itself.
func New(ctx context.Context, history *searchhistory.Store) Model {
	keys := defaultKeyMap()

	l := list.New([]list.Item{}, NewRecordDelegate(), 0, 0)
	l.SetShowTitle(false) // title and tabs are drawn by the header
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("search", "searches")
	l.KeyMap = listKeyMap()
	l.DisableQuitKeybindings() // quitting goes through Model.quit
	l.Filter = substringFilter
	l.FilterInput.Prompt = "/ "
	l.FilterInput.Placeholder = "filter queries"
	l.FilterInput.CharLimit = history.Options().MaxQueryLength
	l.FilterInput.PromptStyle = lipgloss.NewStyle().Foreground(styles.ColorBlue).Bold(true)
	l.Styles.NoItems = mutedStyle.PaddingLeft(2)
	l.Styles.HelpStyle = helpStyle

	l.Help.Styles.ShortKey = mutedStyle
	l.Help.Styles.ShortDesc = mutedStyle
	l.Help.Styles.ShortSeparator = mutedStyle
	l.Help.ShortSeparator = " " + iconDot + " "
	l.AdditionalShortHelpKeys = keys.helpBindings
	l.AdditionalFullHelpKeys = keys.helpBindings

	changes := make(chan struct{}, 1)
	unsubscribe := history.Subscribe(func([]searchhistory.Record) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	m := Model{
		ctx:         ctx,
		history:     history,
		keys:        keys,
		list:        l,
		changes:     changes,
		done:        make(chan struct{}),
		unsubscribe: unsubscribe,
	}
	m.refresh()
	return m
}

// Init starts listening for store changes.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks until the store changes or the browser quits.
func (m Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.done
	return func() tea.Msg {
		select {
		case <-changes:
			return historyChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		return m, nil
	case historyChangedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, m.waitForChange())
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m.quit()
		}

		switch {
		case m.state == stateConfirmingClear:
			return m.handleConfirmKey(msg)
		case m.list.SettingFilter():
			// the filter input owns every other key
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		default:
			return m.handleKey(msg)
		}
	}

	// filter results, cursor blinks and anything else the list started
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Search):
		if rec, ok := m.selected(); ok {
			m.history.Add(m.ctx, rec.Query)
			cmd := m.refresh()
			m.list.Select(0)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, m.keys.Favorite):
		if rec, ok := m.selected(); ok {
			m.history.ToggleFavorite(m.ctx, rec.ID)
			return m, m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selected(); ok {
			m.history.Remove(m.ctx, rec.ID)
			return m, m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if m.stats.Total > 0 {
			m.state = stateConfirmingClear
		}
		return m, nil
	case key.Matches(msg, m.keys.Cycle):
		m.kind = (m.kind + 1) % searchhistory.FilterKind(len(filterKinds))
		cmd := m.refresh()
		m.list.Select(0)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.state = stateNormal
	if msg.String() != "y" {
		return m, nil
	}

	m.history.Clear(m.ctx)
	return m, m.refresh()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	m.quitting = true
	m.unsubscribe()
	close(m.done)
	return m, tea.Quit
}

// refresh reloads the records for the current kind and keeps the cursor in range.
// An applied text filter is re-run synchronously so the view never shows an
// empty list between the reload and the filter results.
func (m *Model) refresh() tea.Cmd {
	records := m.history.Query(searchhistory.Filter{Kind: m.kind})
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = RecordItem{Record: r}
	}

	cmd := m.list.SetItems(items)
	if m.list.IsFiltered() {
		m.list.SetFilterText(m.list.FilterValue())
		cmd = nil
	}

	m.stats = m.history.Stats()

	if visible := len(m.list.VisibleItems()); m.list.Index() >= visible {
		m.list.Select(max(visible-1, 0))
	}

	return cmd
}

func (m Model) selected() (searchhistory.Record, bool) {
	item, ok := m.list.SelectedItem().(RecordItem)
	if !ok {
		return searchhistory.Record{}, false
	}
	return item.Record, true
}

// visibleRecords returns the records currently listed, after the text filter.
func (m Model) visibleRecords() []searchhistory.Record {
	items := m.list.VisibleItems()
	out := make([]searchhistory.Record, 0, len(items))
	for _, it := range items {
		if ri, ok := it.(RecordItem); ok {
			out = append(out, ri.Record)
		}
	}
	return out
}
