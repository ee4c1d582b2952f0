package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/bitext/internal/tui"
	"github.com/colonyops/bitext/internal/tui/components"
)

type KeysCmd struct {
	flags *Flags
	width int
}

// NewKeysCmd creates a new keys command
func NewKeysCmd(flags *Flags) *KeysCmd {
	return &KeysCmd{flags: flags}
}

// Register adds the keys command to the application
func (cmd *KeysCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "keys",
		Usage:       "Show the annotation screen keybindings",
		UsageText:   "bitext keys [--width n]",
		Description: "Prints the effective keymap, including overrides from the config file.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap width",
				Value:       80,
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *KeysCmd) run(_ context.Context, c *cli.Command) error {
	md := "# Keybindings\n\n" + tui.NewKeyMap(cmd.flags.Config.Keybindings).Markdown()

	out, err := components.RenderMarkdown(md, cmd.width)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(c.Root().Writer, out)
	return err
}
