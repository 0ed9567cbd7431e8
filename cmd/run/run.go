// Package run provides the run command, which starts a shell on a new
// pseudo-terminal and shows it through the selected back end.
package run

import (
	"context"
	"fmt"

	"jterm/cmd/shared"
	"jterm/pkg/config"
	"jterm/pkg/entrypoint"
	"jterm/pkg/log"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command that runs the terminal.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run a shell in the terminal",
		Description: "Escape quits, ctrl+'=' and ctrl+'-' zoom, the mouse wheel cycles the font.\n" +
			"With --mirror, 'jterm watch' can follow the screen remotely.",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := shared.ParseConfig(cmd)
			if err != nil {
				return fmt.Errorf("parsing arguments: %w", err)
			}

			if errors := config.Validate(cfg); len(errors) > 0 {
				log.ErrorMsg("Argument validation errors:\n")
				for _, err := range errors {
					log.ErrorMsg(" - %s\n", err)
				}
				return fmt.Errorf("exiting")
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := shared.SetupSignalHandling(cancel)
			defer stop()

			return run(ctx, cfg)
		},
		Flags: getFlags(),
	}
}

var run = entrypoint.Run

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetTerminalFlags()...)

	return flags
}
