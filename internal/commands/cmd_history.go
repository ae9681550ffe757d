package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/artstory/internal/core/searchhistory"
	"github.com/hay-kot/artstory/internal/printer"
)

type HistoryCmd struct {
	flags *Flags

	// Command-specific flags
	clear     bool
	favorites bool
	recent    bool
	filter    string
	json      bool
}

// NewHistoryCmd creates a new history command
func NewHistoryCmd(flags *Flags) *HistoryCmd {
	return &HistoryCmd{flags: flags}
}

// Register adds the history command to the application
func (cmd *HistoryCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "history",
		Aliases:   []string{"ls"},
		Usage:     "View or manage search history",
		UsageText: "artstory history [options]",
		Description: `Lists recorded searches, most recent first.

Use --favorites or --recent to narrow the list and --filter to match part of a query.
Use --clear to remove all history entries.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "clear",
				Usage:       "clear all search history",
				Destination: &cmd.clear,
			},
			&cli.BoolFlag{
				Name:        "favorites",
				Aliases:     []string{"f"},
				Usage:       "only show favorite searches",
				Destination: &cmd.favorites,
			},
			&cli.BoolFlag{
				Name:        "recent",
				Aliases:     []string{"r"},
				Usage:       "only show searches from the last --days days",
				Destination: &cmd.recent,
			},
			&cli.IntFlag{
				Name:  "days",
				Usage: "window for --recent (defaults to history.recent_days)",
			},
			&cli.StringFlag{
				Name:        "filter",
				Usage:       "only show queries containing this text (case-insensitive)",
				Destination: &cmd.filter,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.json,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *HistoryCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.clear {
		cmd.flags.History.Clear(ctx)
		p.Successf("Search history cleared")
		return nil
	}

	if cmd.favorites && cmd.recent {
		return fmt.Errorf("--favorites and --recent cannot be combined")
	}

	filter := searchhistory.Filter{
		Days: int(c.Int("days")),
		Text: cmd.filter,
	}
	switch {
	case cmd.favorites:
		filter.Kind = searchhistory.FilterFavorites
	case cmd.recent:
		filter.Kind = searchhistory.FilterRecent
	}

	records := cmd.flags.History.Query(filter)
	out := c.Root().Writer

	if cmd.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		p.Infof("No search history")
		return nil
	}

	return writeRecords(out, records, time.Now())
}

// writeRecords renders records as a table, newest first.
func writeRecords(out io.Writer, records []searchhistory.Record, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\tQUERY\tSEARCHES\t%s\tFAV\n", printer.Muted("LAST SEARCHED"))

	for _, r := range records {
		query := r.Query
		if len([]rune(query)) > 50 {
			query = string([]rune(query)[:47]) + "..."
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			r.ID,
			strings.ReplaceAll(query, "\t", " "),
			r.SearchCount,
			printer.Muted(r.RelativeTime(now)),
			printer.FavoriteMark(r.IsFavorite),
		)
	}

	return w.Flush()
}
