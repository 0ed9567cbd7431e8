package main

import (
	"context"
	"os"

	"jterm/cmd/run"
	"jterm/cmd/version"
	"jterm/cmd/watch"
	"jterm/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.ErrorMsg("%s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "jterm",
		Usage: "minimal terminal emulator",
		Commands: []*cli.Command{
			run.GetCommand(),
			watch.GetCommand(),
			version.GetCommand(),
		},
	}
}
