package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/annotate"
	"github.com/colonyops/bitext/internal/core/config"
	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/data/stores"
	"github.com/colonyops/bitext/internal/printer"
)

type harness struct {
	flags  *Flags
	out    bytes.Buffer
	status bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Keybindings = config.DefaultKeybindings()

	return &harness{flags: &Flags{
		Config:  &cfg,
		Entries: entry.NewService(stores.NewMemoryKV()),
	}}
}

// run executes one command line and returns its stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	h.out.Reset()
	h.status.Reset()

	app := &cli.Command{Name: "bitext", Writer: &h.out}
	app = NewAddCmd(h.flags).Register(app)
	app = NewLsCmd(h.flags).Register(app)
	app = NewShowCmd(h.flags).Register(app)
	app = NewExportCmd(h.flags).Register(app)
	app = NewImportCmd(h.flags).Register(app)
	app = NewRmCmd(h.flags).Register(app)
	app = NewKeysCmd(h.flags).Register(app)
	app = NewConfigValidateCmd(h.flags).Register(app)

	ctx := printer.NewContext(context.Background(), printer.New(&h.status))
	err := app.Run(ctx, append([]string{"bitext"}, args...))
	return h.out.String(), err
}

func (h *harness) add(t *testing.T) string {
	t.Helper()
	out, err := h.run(t, "add", "--source", "Le chat mange", "--target", "The cat eats")
	require.NoError(t, err)
	return strings.TrimSpace(out)
}

func TestAdd(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)

	e, err := h.flags.Entries.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "fr", e.SourceLang, "defaults to config source_lang")
	assert.Equal(t, []string{"Le", "chat", "mange"}, e.Source.Tokens)
	assert.Equal(t, []string{"en"}, e.Languages())
}

func TestAdd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad source language", args: []string{"add", "--source-lang", "French", "--source", "Le chat"}},
		{name: "blank source", args: []string{"add", "--source", "   "}},
		{name: "bad target language", args: []string{"add", "--source", "Le chat", "--target-lang", "EN!", "--target", "The cat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.run(t, tt.args...)
			require.Error(t, err)

			list, err := h.flags.Entries.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestAdd_ToExistingEntry(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)

	out, err := h.run(t, "add", "--to", entry.ShortID(id), "--target-lang", "de", "--target", "Die Katze frisst")
	require.NoError(t, err)
	assert.Equal(t, id, strings.TrimSpace(out))

	e, err := h.flags.Entries.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "en"}, e.Languages())
}

func writeBlocks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pair.txt")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAdd_FromBlocks(t *testing.T) {
	h := newHarness(t)
	path := writeBlocks(t, "[de]\nDie Katze\nfrisst.\n\n[en]\nThe cat eats.\n[es]\nEl gato come.\n")

	out, err := h.run(t, "add", "--from", path)
	require.NoError(t, err)
	assert.Contains(t, h.status.String(), "Found texts for de/en/es, using de as source")

	e, err := h.flags.Entries.Get(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "de", e.SourceLang)
	assert.Equal(t, "Die Katze\nfrisst.", e.Source.Text)
	assert.Equal(t, []string{"Die", "Katze", "frisst."}, e.Source.Tokens)
	assert.Equal(t, []string{"en", "es"}, e.Languages())
}

func TestAdd_FromBlocksSpacing(t *testing.T) {
	h := newHarness(t)
	path := writeBlocks(t, "[fr]\nl'_homme\nest là\n[en]\nthe man\n")

	out, err := h.run(t, "add", "--from", path, "--spacing")
	require.NoError(t, err)

	id := strings.TrimSpace(out)
	e, err := h.flags.Entries.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"l'", entry.MarkerNoSpace, "homme", entry.MarkerNewline, "est", entry.MarkerSpace, "là"}, e.Source.Tokens)

	out, err = h.run(t, "show", "--detok", "human", id)
	require.NoError(t, err)
	assert.Equal(t, "fr\tl'homme\nest là\nen\tthe man\n", out)

	out, err = h.run(t, "show", "--detok", "nlp", id)
	require.NoError(t, err)
	assert.Contains(t, out, "fr\tl'_homme\nest là\n")
}

func TestAdd_FromBlocksInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		args    []string
		wantErr string
	}{
		{name: "no header", body: "Le chat\nThe cat\n", wantErr: "no language header found"},
		{name: "language twice", body: "[fr]\nLe chat\n[en]\nThe cat\n[fr]\nUn chat\n", wantErr: `language "fr" appears more than once`},
		{name: "bad language tag", body: "[fr]\nLe chat\n[]\nThe cat\n", wantErr: "block[1]"},
		{name: "combined with --to", body: "[fr]\nLe chat\n", args: []string{"--to", "abc"}, wantErr: "--to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			args := append([]string{"add", "--from", writeBlocks(t, tt.body)}, tt.args...)
			_, err := h.run(t, args...)
			require.ErrorContains(t, err, tt.wantErr)

			list, err := h.flags.Entries.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestLs(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)

	out, err := h.run(t, "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, entry.ShortID(id))
	assert.Contains(t, out, "fr→en")
	assert.Contains(t, out, "Le chat mange")

	out, err = h.run(t, "ls", "--json")
	require.NoError(t, err)
	var s entry.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, id, s.ID)
	assert.Equal(t, 0, s.Aligned)
}

func TestShow(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)

	ctx := context.Background()
	e, err := h.flags.Entries.Get(ctx, id)
	require.NoError(t, err)
	e.Apply("en", e.Source.Tokens, e.Targets["en"].Tokens, []entry.Pair{{A: entry.Group{1}, B: entry.Group{1}}})
	require.NoError(t, h.flags.Entries.Write(ctx, id, e))

	for _, args := range [][]string{{"show", id, "en"}, {"show", id}} {
		out, err := h.run(t, args...)
		require.NoError(t, err)

		plain := ansi.Strip(out)
		assert.Contains(t, plain, entry.ShortID(id))
		assert.Contains(t, plain, "Le chat mange")
		assert.Contains(t, plain, "The cat eats")
		assert.Contains(t, plain, " 0 chat → cat")
	}

	_, err = h.run(t, "show", id, "de")
	assert.ErrorContains(t, err, `no "de" target`)

	_, err = h.run(t, "show", "--detok", "fancy", id)
	assert.ErrorContains(t, err, "unknown detok style")
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)
	ctx := context.Background()

	out, err := h.run(t, "export", id)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Le chat mange", doc.Source.Text)

	// Re-import an edited copy under the same id.
	doc.Targets["en"] = entry.Target{
		Text:    "The cat eats",
		Tokens:  []string{"The", "cat", "eats"},
		Mapping: []entry.Pair{{A: entry.Group{0}, B: entry.Group{0}}},
	}
	file := filepath.Join(t.TempDir(), "doc.json")
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(file, data, 0o600))

	out, err = h.run(t, "import", "-f", file)
	require.NoError(t, err)
	assert.Equal(t, id, strings.TrimSpace(out))
	assert.Contains(t, ansi.Strip(h.status.String()), "Imported "+entry.ShortID(id))

	e, err := h.flags.Entries.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, e.Targets["en"].Mapping, 1)

	// Without an id a new entry is created and tokens are derived from text.
	require.NoError(t, os.WriteFile(file, []byte(`{"source_lang":"fr","source":{"text":"Bonjour"},"targets":{"en":{"text":"Hello there"}}}`), 0o600))
	out, err = h.run(t, "import", "-f", file)
	require.NoError(t, err)
	newID := strings.TrimSpace(out)
	assert.NotEqual(t, id, newID)

	e, err = h.flags.Entries.Get(ctx, newID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "there"}, e.Targets["en"].Tokens)
}

func TestImport_Glob(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	docs := map[string]string{
		filepath.Join(dir, "one.json"):    `{"source_lang":"fr","source":{"text":"Bonjour"},"targets":{"en":{"text":"Hello"}}}`,
		filepath.Join(nested, "two.json"): `{"source_lang":"fr","source":{"text":"Merci"},"targets":{"en":{"text":"Thanks"}}}`,
		filepath.Join(dir, "skip.txt"):    `not json`,
	}
	for path, body := range docs {
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}

	out, err := h.run(t, "import", "--glob", filepath.Join(dir, "**", "*.json"))
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 2)

	list, err := h.flags.Entries.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = h.run(t, "import", "--glob", filepath.Join(dir, "*.yaml"))
	require.Error(t, err)
}

func TestDocument_Validate(t *testing.T) {
	valid := func() Document {
		e := entry.New("fr", "Le chat")
		e.AddTarget("en", "The cat")
		return Document{Entry: e}
	}

	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Document) {}},
		{name: "missing source lang", mutate: func(d *Document) { d.SourceLang = "" }, wantErr: true},
		{name: "empty source", mutate: func(d *Document) { d.Source = entry.Text{} }, wantErr: true},
		{name: "bad target lang", mutate: func(d *Document) { d.AddTarget("English", "x") }, wantErr: true},
		{
			name: "mapping out of range",
			mutate: func(d *Document) {
				t := d.Targets["en"]
				t.Mapping = []entry.Pair{{A: entry.Group{5}, B: entry.Group{0}}}
				d.Targets["en"] = t
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRm(t *testing.T) {
	h := newHarness(t)
	id := h.add(t)

	_, err := h.run(t, "rm", entry.ShortID(id))
	require.NoError(t, err)

	_, err = h.flags.Entries.Get(context.Background(), id)
	assert.ErrorIs(t, err, entry.ErrNotFound)

	_, err = h.run(t, "rm", id)
	assert.ErrorIs(t, err, entry.ErrNotFound)

	_, err = h.run(t, "rm")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "keys", "--width", "100")
	require.NoError(t, err)

	plain := ansi.Strip(out)
	assert.Contains(t, plain, "Keybindings")
	assert.Contains(t, plain, "commit selection")
	assert.Contains(t, plain, "enter")
}

func TestConfigValidate_JSON(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "config", "validate", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Valid bool `json:"valid"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Valid)
}

func TestLoadTarget(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.add(t)

	gotID, _, lang, err := loadTarget(ctx, h.flags.Entries, entry.ShortID(id), "")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "en", lang, "single target is chosen")

	_, _, _, err = loadTarget(ctx, h.flags.Entries, id, "de")
	assert.ErrorContains(t, err, `no "de" target`)

	_, _, _, err = loadTarget(ctx, h.flags.Entries, "", "")
	assert.Error(t, err)

	_, err = h.run(t, "add", "--to", id, "--target-lang", "de", "--target", "Die Katze")
	require.NoError(t, err)
	_, _, _, err = loadTarget(ctx, h.flags.Entries, id, "")
	assert.ErrorContains(t, err, "choose one")
}

func TestSaveResult(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := h.add(t)

	_, err := h.run(t, "add", "--to", id, "--target-lang", "de", "--target", "Die Katze frisst")
	require.NoError(t, err)

	e, err := h.flags.Entries.Get(ctx, id)
	require.NoError(t, err)
	de := e.Targets["de"]
	de.Mapping = []entry.Pair{{A: entry.Group{0}, B: entry.Group{0}}}
	e.SetTarget("de", de)
	require.NoError(t, h.flags.Entries.Write(ctx, id, e))

	sess := annotate.New(e.Source.Tokens, e.Targets["en"].Tokens, nil)
	for _, a := range []annotate.Action{
		annotate.ActionToggleSelect, annotate.ActionSwitchSide, annotate.ActionToggleSelect, annotate.ActionCommit,
	} {
		sess.Apply(a)
	}

	cleared, err := saveResult(ctx, h.flags.Entries, id, e, "en", sess.Result())
	require.NoError(t, err)
	assert.Empty(t, cleared)

	e, err = h.flags.Entries.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []entry.Pair{{A: entry.Group{0}, B: entry.Group{0}}}, e.Targets["en"].Mapping)
	assert.Len(t, e.Targets["de"].Mapping, 1)
}
