// Package version provides the version command.
package version

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X jterm/cmd/version.Version=...".
var Version = "unknown"

// GetCommand returns the CLI command printing the program version.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Program version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Println("jterm", Version)
			return nil
		},
		Flags: []cli.Flag{},
	}
}
