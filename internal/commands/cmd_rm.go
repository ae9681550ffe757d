package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/artstory/internal/printer"
)

type RmCmd struct {
	flags *Flags

	query string
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "rm",
		Usage:     "Remove a search from history",
		UsageText: "artstory rm <id> | artstory rm --query <text>",
		Description: `Removes a single search, either by id (a unique prefix is enough) or by its
query text, ignoring case.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "remove the search with this query instead of by id",
				Destination: &cmd.query,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.query != "" {
		if !cmd.flags.History.RemoveByQuery(ctx, cmd.query) {
			p.Infof("No search matching %q", cmd.query)
			return nil
		}
		p.Successf("Removed %q from history", cmd.query)
		return nil
	}

	rec, err := resolveRecord(cmd.flags.History, c.Args().First())
	if err != nil {
		return err
	}

	if !cmd.flags.History.Remove(ctx, rec.ID) {
		return fmt.Errorf("search %s no longer exists", rec.ID)
	}

	p.Successf("Removed %q from history", rec.Query)
	return nil
}
