package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

// NewApp builds the root command with every subcommand registered. Global
// flags write into flags; the caller adds lifecycle hooks.
func NewApp(flags *Flags) *cli.Command {
	app := &cli.Command{
		Name:      "bitext",
		Usage:     "Align words between sentences and their translations",
		UsageText: "bitext [global options] command [command options]",
		Description: `bitext stores sentence pairs and lets you align their tokens by hand.

Add a pair with 'bitext add', then run 'bitext <id>' to open the
interactive alignment screen. 'bitext serve' shows the result in a browser.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("BITEXT_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/bitext.log)",
				Sources:     cli.EnvVars("BITEXT_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BITEXT_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("BITEXT_DATA_DIR"),
				Value:       DefaultDataDir(),
				Destination: &flags.DataDir,
			},
			&cli.BoolFlag{
				Name:        "ephemeral",
				Usage:       "keep entries in memory only, for trying things out",
				Sources:     cli.EnvVars("BITEXT_EPHEMERAL"),
				Destination: &flags.Ephemeral,
			},
		},
	}

	annotateCmd := NewAnnotateCmd(flags)

	app = annotateCmd.Register(app)
	app = NewAddCmd(flags).Register(app)
	app = NewLsCmd(flags).Register(app)
	app = NewShowCmd(flags).Register(app)
	app = NewExportCmd(flags).Register(app)
	app = NewImportCmd(flags).Register(app)
	app = NewRmCmd(flags).Register(app)
	app = NewKeysCmd(flags).Register(app)
	app = NewServeCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)

	// `bitext <id> [lang]` is shorthand for `bitext annotate <id> [lang]`
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() == 0 {
			return cli.ShowAppHelp(c)
		}
		return annotateCmd.Run(ctx, c)
	}

	return app
}
