// Package watch provides the watch command, which follows the screen of a
// terminal started with --mirror.
package watch

import (
	"context"
	"fmt"
	"os"

	"jterm/cmd/shared"
	"jterm/pkg/mirror"

	"github.com/urfave/cli/v3"
)

// OnceFlag is the name of the flag to print a single frame and exit.
const OnceFlag = "once"

// GetCommand returns the CLI command that follows a mirror.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Follow the screen of a mirrored terminal",
		ArgsUsage: "ws://host:port",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one argument: the mirror address")
			}

			url, err := shared.ParseMirrorURL(cmd.Args().First())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := shared.SetupSignalHandling(cancel)
			defer stop()

			return mirror.Watch(ctx, url, os.Stdout, cmd.Bool(OnceFlag))
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:     OnceFlag,
				Aliases:  []string{"1"},
				Usage:    "Print the current screen as text and exit",
				Value:    false,
				Required: false,
			},
		},
	}
}
