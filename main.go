package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/commands"
	"github.com/colonyops/bitext/internal/core/config"
	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/kv"
	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/internal/core/styles"
	"github.com/colonyops/bitext/internal/data/db"
	"github.com/colonyops/bitext/internal/data/stores"
	"github.com/colonyops/bitext/internal/printer"
	"github.com/colonyops/bitext/internal/tui"
	"github.com/colonyops/bitext/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() tui.BuildInfo {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	if len(c) > 7 {
		c = c[:7]
	}

	return tui.BuildInfo{Version: v, Commit: c, Date: d}
}

func main() {
	ctx := printer.NewContext(context.Background(), printer.New(os.Stderr))

	var (
		logCloser func()
		database  *db.DB
	)

	flags := &commands.Flags{Build: buildInfo()}
	b := flags.Build

	app := commands.NewApp(flags)
	app.Version = fmt.Sprintf("%s (%s) %s", b.Version, b.Commit, b.Date)
	app.Before = func(ctx context.Context, c *cli.Command) (context.Context, error) {
		// Always log to a file; the TUI owns the terminal
		logFile := flags.LogFile
		if logFile == "" {
			logFile = filepath.Join(flags.DataDir, "bitext.log")
		}

		logger, closer, err := logutils.New(flags.LogLevel, logFile, logging.ContextHook{})
		if err != nil {
			return ctx, fmt.Errorf("setup logger: %w", err)
		}
		log.Logger = logger
		logCloser = closer

		cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
		if err != nil {
			return ctx, fmt.Errorf("load config: %w", err)
		}
		flags.Config = cfg

		// Apply configured theme (validation ensures name is valid)
		palette, _ := styles.GetPalette(cfg.Theme)
		styles.SetTheme(palette)

		var store kv.KV
		if flags.Ephemeral {
			store = stores.NewMemoryKV()
		} else {
			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil && stores.IsCorruptionError(err) {
				log.Warn().Err(err).Msg("database corrupted, moving it aside")
				if recErr := stores.RecoverFromCorruption(cfg.DataDir); recErr != nil {
					return ctx, fmt.Errorf("recover database: %w", recErr)
				}
				database, err = db.Open(cfg.DataDir, dbOpts)
			}
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			if v, err := database.SchemaVersion(ctx); err == nil {
				log.Debug().Int("schema", v).Str("dir", cfg.DataDir).Msg("database ready")
			}
			store = stores.NewKVStore(database)
		}

		flags.Entries = entry.NewService(store)
		return ctx, nil
	}
	app.After = func(ctx context.Context, c *cli.Command) error {
		if database != nil {
			if err := database.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close database")
				return err
			}
		}

		if logCloser != nil {
			logCloser()
		}
		return nil
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(styles.ErrorStyle.Render(runErr.Error()))
		exitCode = 1
	}

	os.Exit(exitCode)
}
