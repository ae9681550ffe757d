package commands

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/artstory/internal/tui"
)

type TuiCmd struct {
	flags   *Flags
	history *HistoryCmd
}

// NewTuiCmd creates a new tui command. When stdout is not a terminal it falls back
// to the plain history listing.
func NewTuiCmd(flags *Flags, history *HistoryCmd) *TuiCmd {
	return &TuiCmd{
		flags:   flags,
		history: history,
	}
}

// IsInteractive reports whether the browser can take over the terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	if !IsInteractive() {
		return cmd.history.run(ctx, c)
	}
	return cmd.run(ctx, c)
}

func (cmd *TuiCmd) run(ctx context.Context, _ *cli.Command) error {
	m := tui.New(ctx, cmd.flags.History)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}
