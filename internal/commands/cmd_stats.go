package commands

import (
	"context"
	"encoding/json"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/artstory/internal/printer"
)

type StatsCmd struct {
	flags *Flags

	json bool
}

// NewStatsCmd creates a new stats command
func NewStatsCmd(flags *Flags) *StatsCmd {
	return &StatsCmd{flags: flags}
}

// Register adds the stats command to the application
func (cmd *StatsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "stats",
		Usage:     "Show search history statistics",
		UsageText: "artstory stats [--json]",
		Flags: []cli.Flag{
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

func (cmd *StatsCmd) run(ctx context.Context, c *cli.Command) error {
	stats := cmd.flags.History.Stats()

	if cmd.json {
		return json.NewEncoder(c.Root().Writer).Encode(stats)
	}

	p := printer.Ctx(ctx)
	p.Section("Search history")
	p.Stat("Searches", stats.Total)
	p.Stat("Favorites", stats.Favorites)
	p.Stat("Total searches", stats.TotalSearches)
	return nil
}
