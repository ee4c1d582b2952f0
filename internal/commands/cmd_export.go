package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/validate"
	"github.com/colonyops/bitext/internal/printer"
	"github.com/colonyops/bitext/pkg/iojson"
)

// Document is the JSON form used by export and import: an entry plus its id.
type Document struct {
	ID string `json:"id,omitempty"`
	entry.Entry
}

// Validate checks the document before it is stored.
func (d Document) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if err := validate.LangField("source_lang", d.SourceLang); err != nil {
		errs = errs.Append("source_lang", err)
	}
	if err := validate.SentenceField("source.text", d.Source.Text); err != nil && len(d.Source.Tokens) == 0 {
		errs = errs.Append("source", err)
	}
	for _, lang := range d.Languages() {
		if err := validate.Lang(lang); err != nil {
			errs = errs.Append(fmt.Sprintf("targets[%q]", lang), err)
		}
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	return d.Entry.Validate()
}

// normalize fills token lists that were left out of hand-written input.
func (d *Document) normalize() {
	if len(d.Source.Tokens) == 0 {
		d.Source.Tokens = entry.Tokenize(d.Source.Text)
	}
	for _, lang := range d.Languages() {
		t := d.Targets[lang]
		if len(t.Tokens) == 0 {
			t.Tokens = entry.Tokenize(t.Text)
			d.Targets[lang] = t
		}
	}
}

type ExportCmd struct {
	flags *Flags
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:          "export",
		Usage:         "Print an entry as JSON",
		UsageText:     "bitext export <id>",
		ShellComplete: EntryIDCompleter(cmd.flags),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	ref := c.Args().First()
	if ref == "" {
		return errors.New("entry id is required")
	}

	id, err := cmd.flags.Entries.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	e, err := cmd.flags.Entries.Get(ctx, id)
	if err != nil {
		return err
	}

	return iojson.WriteWith(c.Root().Writer, os.Stderr, Document{ID: id, Entry: e})
}

type ImportCmd struct {
	flags  *Flags
	reader iojson.FileReader[Document]
	glob   iojson.GlobReader[Document]
}

// NewImportCmd creates a new import command
func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

// Register adds the import command to the application
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Store an entry from JSON",
		UsageText: "bitext import [-f file | -g pattern]",
		Description: `Reads one entry in the export format from a file or stdin, or every
file matching --glob.

A document with an id replaces the entry stored under it; without an id a
new entry is created. Missing token lists are derived from the text.`,
		Flags:  []cli.Flag{cmd.reader.Flag(), cmd.glob.Flag()},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if !cmd.glob.Set() {
		doc, err := cmd.reader.Read()
		if err != nil {
			return err
		}
		return cmd.store(ctx, c, doc)
	}

	paths, err := cmd.glob.Paths()
	if err != nil {
		return err
	}
	for _, path := range paths {
		doc, err := iojson.ReadFile[Document](path)
		if err != nil {
			return err
		}
		if err := cmd.store(ctx, c, doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (cmd *ImportCmd) store(ctx context.Context, c *cli.Command, doc Document) error {
	doc.normalize()
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	var err error
	id := doc.ID
	if id == "" {
		id, err = cmd.flags.Entries.Add(ctx, doc.Entry)
	} else {
		err = cmd.flags.Entries.Write(ctx, id, doc.Entry)
	}
	if err != nil {
		return fmt.Errorf("import entry: %w", err)
	}

	printer.Ctx(ctx).Successf("Imported %s", entry.ShortID(id))
	_, _ = fmt.Fprintln(c.Root().Writer, id)
	return nil
}
