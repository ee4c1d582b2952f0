package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

type FileReader[T any] struct {
	fileFlagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to JSON file (reads from stdin if not provided)",
		Destination: &fr.fileFlagValue,
	}
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	if fr.fileFlagValue != "" {
		f, err := os.Open(fr.fileFlagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		reader = os.Stdin
	}

	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return input, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}

// GlobReader decodes every JSON file matching a doublestar pattern such as
// "corpus/**/*.json".
type GlobReader[T any] struct {
	pattern string
}

func (gr *GlobReader[T]) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "glob",
		Aliases:     []string{"g"},
		Usage:       "import every JSON file matching a pattern (supports **)",
		Destination: &gr.pattern,
	}
}

// Set reports whether a pattern was given.
func (gr *GlobReader[T]) Set() bool { return gr.pattern != "" }

// Paths returns the files matching the pattern in lexical order.
func (gr *GlobReader[T]) Paths() ([]string, error) {
	paths, err := doublestar.FilepathGlob(gr.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", gr.pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files match %q", gr.pattern)
	}
	slices.Sort(paths)
	return paths, nil
}

// ReadFile decodes a single JSON file.
func ReadFile[T any](path string) (T, error) {
	var out T
	f, err := os.Open(path)
	if err != nil {
		return out, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}
