package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/artstory/internal/printer"
)

type SearchCmd struct {
	flags *Flags
}

// NewSearchCmd creates a new search command
func NewSearchCmd(flags *Flags) *SearchCmd {
	return &SearchCmd{flags: flags}
}

// Register adds the search command to the application
func (cmd *SearchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search for an artwork and record the query",
		UsageText: "artstory search <query...>",
		Description: `Records a search in the history. Repeating a query (ignoring case) moves it to
the top and increments its search count instead of adding a duplicate.

Arguments are joined with spaces, so quoting is optional.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SearchCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	query := strings.Join(c.Args().Slice(), " ")

	rec, ok := cmd.flags.History.Add(ctx, query)
	if !ok {
		p.Warnf("Query not recorded: must be 1-%d characters", cmd.flags.History.Options().MaxQueryLength)
		return nil
	}

	if rec.SearchCount == 1 {
		p.Success(fmt.Sprintf("Searching for %q", rec.Query), rec.ID)
		return nil
	}

	p.Success(fmt.Sprintf("Searching for %q", rec.Query), fmt.Sprintf("%s (searched %d times)", rec.ID, rec.SearchCount))
	return nil
}
