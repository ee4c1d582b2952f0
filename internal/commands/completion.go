package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/entry"
)

// EntryIDCompleter returns a ShellCompleteFunc that suggests short entry ids
// as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func EntryIDCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if flags.Entries == nil {
			return
		}
		summaries, err := flags.Entries.List(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, s := range summaries {
			_, _ = fmt.Fprintf(w, "%s:%s\n", entry.ShortID(s.ID), s.Source)
		}
	}
}
