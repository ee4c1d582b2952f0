package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/printer"
)

type RmCmd struct {
	flags *Flags
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags) *RmCmd {
	return &RmCmd{flags: flags}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "rm",
		Usage:         "Delete entries",
		UsageText:     "bitext rm <id>...",
		ShellComplete: EntryIDCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	refs := c.Args().Slice()
	if len(refs) == 0 {
		return errors.New("at least one entry id is required")
	}

	for _, ref := range refs {
		id, err := cmd.flags.Entries.Resolve(ctx, ref)
		if err != nil {
			return err
		}
		if err := cmd.flags.Entries.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", ref, err)
		}
		p.Successf("Deleted %s", entry.ShortID(id))
	}
	return nil
}
