package commands

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/annotate"
	"github.com/colonyops/bitext/internal/core/editor"
	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/internal/printer"
	"github.com/colonyops/bitext/internal/tui"
)

const titleWidth = 60

type AnnotateCmd struct {
	flags *Flags
}

// NewAnnotateCmd creates a new annotate command
func NewAnnotateCmd(flags *Flags) *AnnotateCmd {
	return &AnnotateCmd{flags: flags}
}

// Register adds the annotate command to the application
func (cmd *AnnotateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "annotate",
		Aliases:   []string{"a"},
		Usage:     "Align an entry's source with one of its targets",
		UsageText: "bitext annotate <id> [lang]",
		Description: `Opens the interactive alignment screen for one target language of an entry.

Select tokens on both sides and commit them as a group. Quitting with q
writes the alignment back to the entry; ctrl+c discards it.

The language may be omitted when the entry has a single target.`,
		ShellComplete: EntryIDCompleter(cmd.flags),
		Action:        cmd.Run,
	})

	return app
}

// Run executes the annotation screen. Exported for use as default command.
func (cmd *AnnotateCmd) Run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	id, e, lang, err := loadTarget(ctx, cmd.flags.Entries, c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return err
	}
	ctx = logging.WithLang(logging.WithEntryID(ctx, id), lang)

	target, _ := e.Target(lang)
	sess := annotate.New(e.Source.Tokens, target.Tokens, target.Mapping,
		annotate.WithLogger(logging.ForEntry("annotate", id, lang)),
	)

	cfg := cmd.flags.Config
	model := tui.New(sess, tui.Options{
		Keys:   tui.NewKeyMap(cfg.Keybindings),
		Editor: editor.New(editor.Resolve(cfg.Editor), nil),
		Title:  entry.ShortID(id) + " " + ansi.Truncate(e.Source.Text, titleWidth, "…"),
		Labels: [2]string{e.SourceLang, lang},
		Build:  cmd.flags.Build,
		Logger: logging.ForEntry("tui", id, lang),
	})

	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("run annotation screen: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok || m.Outcome() != tui.OutcomeSaved {
		p.Infof("Alignment discarded")
		return nil
	}
	if !m.Dirty() {
		p.Infof("No changes to %s", entry.ShortID(id))
		return nil
	}

	cleared, err := saveResult(ctx, cmd.flags.Entries, id, e, lang, sess.Result())
	if err != nil {
		return err
	}

	p.Successf("Saved %s (%s, %d groups)", entry.ShortID(id), lang, len(sess.Entries()))
	for _, other := range cleared {
		p.Infof("Source tokens changed; cleared the %s alignment", other)
	}
	return nil
}

// loadTarget resolves ref and picks the target language to annotate. An
// empty lang selects the only target of the entry.
func loadTarget(ctx context.Context, svc *entry.Service, ref, lang string) (string, entry.Entry, string, error) {
	if ref == "" {
		return "", entry.Entry{}, "", errors.New("entry id is required")
	}

	id, err := svc.Resolve(ctx, ref)
	if err != nil {
		return "", entry.Entry{}, "", err
	}
	e, err := svc.Get(ctx, id)
	if err != nil {
		return "", entry.Entry{}, "", err
	}

	langs := e.Languages()
	if lang == "" {
		if len(langs) != 1 {
			return "", entry.Entry{}, "", fmt.Errorf("entry %s has targets %v; choose one", entry.ShortID(id), langs)
		}
		lang = langs[0]
	}
	if _, ok := e.Target(lang); !ok {
		return "", entry.Entry{}, "", fmt.Errorf("entry %s has no %q target (have %v)", entry.ShortID(id), lang, langs)
	}
	return id, e, lang, nil
}

// saveResult writes a finished session back to the entry.
func saveResult(ctx context.Context, svc *entry.Service, id string, e entry.Entry, lang string, res annotate.Result) ([]string, error) {
	cleared := e.Apply(lang, res.A, res.B, res.Pairs)
	if err := svc.Write(ctx, id, e); err != nil {
		return nil, fmt.Errorf("save alignment: %w", err)
	}
	return cleared, nil
}
