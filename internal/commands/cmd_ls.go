package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/pkg/iojson"
)

const lsSourceWidth = 50

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "ls",
		Usage:       "List all entries",
		UsageText:   "bitext ls [--json]",
		Description: `Displays a table of all entries with their id, languages, alignment count and source sentence.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	summaries, err := cmd.flags.Entries.List(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	if len(summaries) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No entries found\n")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, s := range summaries {
			if err := iojson.WriteLine(out, s); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tLANGS\tALIGNED\tSOURCE")

	for _, s := range summaries {
		langs := s.SourceLang + "→" + strings.Join(s.Languages, ",")
		source := ansi.Truncate(s.Source, lsSourceWidth, "…")
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", entry.ShortID(s.ID), langs, s.Aligned, source)
	}

	return w.Flush()
}
