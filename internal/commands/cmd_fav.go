package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/artstory/internal/printer"
)

type FavCmd struct {
	flags *Flags
}

// NewFavCmd creates a new fav command
func NewFavCmd(flags *Flags) *FavCmd {
	return &FavCmd{flags: flags}
}

// Register adds the fav command to the application
func (cmd *FavCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "fav",
		Usage:       "Toggle a search as favorite",
		UsageText:   "artstory fav <id>",
		Description: "Marks the search as favorite, or unmarks it if it already is. Accepts a unique id prefix.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *FavCmd) run(ctx context.Context, c *cli.Command) error {
	rec, err := resolveRecord(cmd.flags.History, c.Args().First())
	if err != nil {
		return err
	}

	toggled, ok := cmd.flags.History.ToggleFavorite(ctx, rec.ID)
	if !ok {
		return fmt.Errorf("search %s no longer exists", rec.ID)
	}

	p := printer.Ctx(ctx)
	if toggled.IsFavorite {
		p.Successf("Added %q to favorites", toggled.Query)
	} else {
		p.Successf("Removed %q from favorites", toggled.Query)
	}
	return nil
}
