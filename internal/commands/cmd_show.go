package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/styles"
)

type ShowCmd struct {
	flags *Flags
	detok string
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{flags: flags}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Print an entry with its alignment groups colored",
		UsageText: "bitext show <id> [lang]",
		Description: `Prints the source and target token streams of an entry. Tokens of the
same alignment group share a color; unaligned tokens are dimmed.

Without a language every target is shown.

--detok human|nlp prints the sentences rebuilt from their tokens instead,
turning <sp>/<nsp>/<nl> spacing markers back into layout.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "detok",
				Usage:       "print detokenized text (human, nlp)",
				Destination: &cmd.detok,
			},
		},
		ShellComplete: EntryIDCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	ref, lang := c.Args().Get(0), c.Args().Get(1)
	if _, ok := detokStyles[cmd.detok]; cmd.detok != "" && !ok {
		return fmt.Errorf("unknown detok style %q (want human or nlp)", cmd.detok)
	}

	var (
		id  string
		e   entry.Entry
		err error
	)
	langs := []string{lang}
	if lang == "" {
		id, err = cmd.flags.Entries.Resolve(ctx, ref)
		if err == nil {
			e, err = cmd.flags.Entries.Get(ctx, id)
		}
		langs = e.Languages()
	} else {
		id, e, _, err = loadTarget(ctx, cmd.flags.Entries, ref, lang)
	}
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.detok != "" {
		style := detokStyles[cmd.detok]
		_, _ = fmt.Fprintf(out, "%s\t%s\n", e.SourceLang, entry.Detokenize(e.Source.Tokens, style))
		for _, l := range langs {
			target, _ := e.Target(l)
			_, _ = fmt.Fprintf(out, "%s\t%s\n", l, entry.Detokenize(target.Tokens, style))
		}
		return nil
	}

	_, _ = fmt.Fprintln(out, styles.CommandHeaderStyle.Render(entry.ShortID(id))+" "+styles.DividerStyle.Render(e.SourceLang))
	if len(langs) == 0 {
		_, _ = fmt.Fprintln(out, strings.Join(e.Source.Tokens, " "))
		return nil
	}

	for _, l := range langs {
		target, _ := e.Target(l)
		_, _ = fmt.Fprintln(out)
		writeAligned(out, id, e.SourceLang, l, e.Source.Tokens, target)
	}
	return nil
}

var detokStyles = map[string]entry.DetokenizeStyle{
	"human": entry.Human,
	"nlp":   entry.NLP,
}

// writeAligned prints both streams of one target and a legend of its groups.
func writeAligned(w io.Writer, id, sourceLang, lang string, source []string, target entry.Target) {
	src, tgt := entry.Tag(id, source, target)

	label := func(l string) string { return styles.DividerStyle.Render(fmt.Sprintf("%-6s", l)) }
	_, _ = fmt.Fprintln(w, label(sourceLang)+colored(src))
	_, _ = fmt.Fprintln(w, label(lang)+colored(tgt))

	for i, p := range target.Mapping {
		_, _ = fmt.Fprintf(w, "  %s %s → %s\n",
			styles.GroupStyle(i).Render(fmt.Sprintf("%2d", i)),
			pick(source, p.A), pick(target.Tokens, p.B))
	}
}

func colored(toks []entry.TaggedToken) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = styles.GroupStyle(t.Group).Render(t.Text)
	}
	return strings.Join(parts, " ")
}

func pick(texts []string, g entry.Group) string {
	var parts []string
	for _, idx := range g {
		if idx >= 0 && idx < len(texts) {
			parts = append(parts, texts[idx])
		}
	}
	if len(parts) == 0 {
		return "∅"
	}
	return strings.Join(parts, " ")
}
