package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/validate"
	"github.com/colonyops/bitext/internal/printer"
)

type AddCmd struct {
	flags *Flags

	// Command-specific flags
	to         string
	sourceLang string
	source     string
	targetLang string
	target     string
	from       string
	spacing    bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags) *AddCmd {
	return &AddCmd{flags: flags}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a sentence pair",
		UsageText: "bitext add [options]",
		Description: `Stores a source sentence and optionally one translation, tokenized on
whitespace and with no alignment yet. Prints the new entry id.

Use --to to add another target language to an existing entry.

--from reads a block file ("-" for stdin) where each block starts with a
[lang] header line; the first block is the source, the others are targets.

--spacing keeps whitespace as tokens: spaces, "_" and newlines become
<sp>, <nsp> and <nl> markers so the layout can be restored.

When --source (or --target with --to) is omitted and stdin is a terminal,
an interactive form prompts for input.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "to",
				Usage:       "add the target to an existing entry id",
				Destination: &cmd.to,
			},
			&cli.StringFlag{
				Name:        "source-lang",
				Usage:       "source language tag (defaults to config source_lang)",
				Destination: &cmd.sourceLang,
			},
			&cli.StringFlag{
				Name:        "source",
				Aliases:     []string{"s"},
				Usage:       "source sentence",
				Destination: &cmd.source,
			},
			&cli.StringFlag{
				Name:        "target-lang",
				Usage:       "target language tag (defaults to config target_lang)",
				Destination: &cmd.targetLang,
			},
			&cli.StringFlag{
				Name:        "target",
				Aliases:     []string{"t"},
				Usage:       "target sentence",
				Destination: &cmd.target,
			},
			&cli.StringFlag{
				Name:        "from",
				Aliases:     []string{"f"},
				Usage:       "read [lang] blocks from a file (- for stdin)",
				Destination: &cmd.from,
			},
			&cli.BoolFlag{
				Name:        "spacing",
				Usage:       "tokenize with <sp>/<nsp>/<nl> spacing markers",
				Destination: &cmd.spacing,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	if cmd.sourceLang == "" {
		cmd.sourceLang = cmd.flags.Config.SourceLang
	}
	if cmd.targetLang == "" {
		cmd.targetLang = cmd.flags.Config.TargetLang
	}

	if cmd.from != "" {
		return cmd.addFromBlocks(ctx, c, p)
	}

	if cmd.needsForm() {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("--source is required when stdin is not a terminal")
		}
		if err := cmd.runForm(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	if err := cmd.validate(); err != nil {
		return err
	}

	if cmd.to != "" {
		return cmd.addTarget(ctx, c, p)
	}

	e := entry.New(cmd.sourceLang, cmd.source)
	if cmd.target != "" {
		e.AddTarget(cmd.targetLang, cmd.target)
	}
	if cmd.spacing {
		e.Retokenize(entry.TokenizeSpacing)
	}

	id, err := cmd.flags.Entries.Add(ctx, e)
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func (cmd *AddCmd) addTarget(ctx context.Context, c *cli.Command, p *printer.Printer) error {
	id, err := cmd.flags.Entries.Resolve(ctx, cmd.to)
	if err != nil {
		return err
	}
	e, err := cmd.flags.Entries.Get(ctx, id)
	if err != nil {
		return err
	}

	if _, exists := e.Target(cmd.targetLang); exists {
		p.Infof("Replacing the %s target and its alignment", cmd.targetLang)
	}
	e.AddTarget(cmd.targetLang, cmd.target)
	if cmd.spacing {
		t, _ := e.Target(cmd.targetLang)
		t.Tokens = entry.TokenizeSpacing(t.Text)
		e.SetTarget(cmd.targetLang, t)
	}

	if err := cmd.flags.Entries.Write(ctx, id, e); err != nil {
		return fmt.Errorf("add target: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func (cmd *AddCmd) addFromBlocks(ctx context.Context, c *cli.Command, p *printer.Printer) error {
	if cmd.to != "" {
		return errors.New("--from cannot be combined with --to")
	}

	r := io.Reader(os.Stdin)
	if cmd.from != "-" {
		f, err := os.Open(cmd.from)
		if err != nil {
			return fmt.Errorf("open %s: %w", cmd.from, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	blocks, err := entry.ReadBlocks(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", cmd.from, err)
	}

	var errs criterio.FieldErrorsBuilder
	langs := make([]string, len(blocks))
	for i, b := range blocks {
		langs[i] = b.Lang
		if err := validate.Lang(b.Lang); err != nil {
			errs = errs.Append(fmt.Sprintf("block[%d]", i), err)
		}
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	tokenize := entry.Tokenize
	if cmd.spacing {
		tokenize = entry.TokenizeSpacing
	}
	e, err := entry.FromBlocks(blocks, tokenize)
	if err != nil {
		return err
	}
	p.Infof("Found texts for %s, using %s as source", strings.Join(langs, "/"), e.SourceLang)

	id, err := cmd.flags.Entries.Add(ctx, e)
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}

	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}

func (cmd *AddCmd) needsForm() bool {
	if cmd.to != "" {
		return cmd.target == ""
	}
	return cmd.source == ""
}

func (cmd *AddCmd) validate() error {
	if cmd.to != "" {
		return criterio.ValidateStruct(
			validate.LangField("target-lang", cmd.targetLang),
			validate.SentenceField("target", cmd.target),
		)
	}

	checks := []error{
		validate.LangField("source-lang", cmd.sourceLang),
		validate.SentenceField("source", cmd.source),
	}
	if cmd.target != "" {
		checks = append(checks, validate.LangField("target-lang", cmd.targetLang))
	}
	return criterio.ValidateStruct(checks...)
}

func (cmd *AddCmd) runForm() error {
	var fields []huh.Field
	if cmd.to == "" {
		fields = append(fields,
			huh.NewInput().
				Title("Source language").
				Validate(validate.Lang).
				Value(&cmd.sourceLang),
			huh.NewText().
				Title("Source sentence").
				Validate(validate.Sentence).
				Value(&cmd.source),
		)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Target language").
			Validate(validate.Lang).
			Value(&cmd.targetLang),
		huh.NewText().
			Title("Target sentence").
			Description("Leave empty to add the source only").
			Value(&cmd.target),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCharm()).Run()
}
