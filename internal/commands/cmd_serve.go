package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/internal/printer"
	"github.com/colonyops/bitext/internal/viewer"
)

const shutdownGrace = 5 * time.Second

type ServeCmd struct {
	flags   *Flags
	addr    string
	profile bool
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve a read-only view of the entries over HTTP",
		UsageText: "bitext serve [--addr host:port]",
		Description: `Starts the viewer. Routes:

  GET /                         entry index
  GET /entries/{id}/{lang}      aligned tokens as HTML
  GET /entries/{id}/{lang}.json aligned tokens with group tags as JSON`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (defaults to config viewer.addr)",
				Sources:     cli.EnvVars("BITEXT_VIEWER_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.BoolFlag{
				Name:        "pprof",
				Usage:       "also serve /debug/pprof/",
				Destination: &cmd.profile,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	p := printer.Ctx(ctx)

	addr := cmd.addr
	if addr == "" {
		addr = cmd.flags.Config.Viewer.Addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := viewer.NewServer(viewer.NewHandler(cmd.flags.Entries), viewer.ServerOptions{
		Addr:    addr,
		Profile: cmd.profile,
		Logger:  logging.Component("viewer"),
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	p.Successf("Viewer listening on http://%s", srv.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown viewer: %w", err)
	}
	return nil
}
