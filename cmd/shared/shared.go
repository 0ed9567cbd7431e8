// Package shared provides common CLI flag definitions and utility functions
// used across jterm's command-line interface.
package shared

import (
	"strings"

	"jterm/pkg/config"
	"jterm/pkg/layout"
	"jterm/pkg/mirror"
	"jterm/pkg/multiplex"
	"jterm/pkg/pty"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// VerboseFlag is the name of the flag to enable verbose logging.
const VerboseFlag = "verbose"

// LogFileFlag is the name of the flag to specify a log file.
const LogFileFlag = "log"

// ConfigFlag is the name of the flag to load settings from a TOML file.
const ConfigFlag = "config"

// GetCommonFlags returns the CLI flags shared by all commands.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
		&cli.StringFlag{
			Name:     LogFileFlag,
			Aliases:  []string{"l"},
			Usage:    "Write log messages to this file; they are discarded otherwise while the terminal is shown",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
		&cli.StringFlag{
			Name:     ConfigFlag,
			Aliases:  []string{"c"},
			Usage:    "Load settings from a TOML file; flags given explicitly take precedence",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
	}
}

const categoryTerminal = "terminal"

// ShellFlag is the name of the flag to select the shell binary.
const ShellFlag = "shell"

// NoDisplayFlag is the name of the flag to stop DISPLAY from reaching the shell.
const NoDisplayFlag = "no-display"

// ScaleFlag is the name of the flag to set the initial zoom factor.
const ScaleFlag = "scale"

// FontFlag is the name of the flag to select the initial font.
const FontFlag = "font"

// PollTimeoutFlag is the name of the flag to bound the wait for shell output.
const PollTimeoutFlag = "poll-timeout"

// BackendFlag is the name of the flag to select the presentation back end.
const BackendFlag = "backend"

// MirrorFlag is the name of the flag to serve the screen to remote viewers.
const MirrorFlag = "mirror"

// MirrorViewersFlag is the name of the flag to limit concurrent viewers.
const MirrorViewersFlag = "mirror-viewers"

// MirrorWaitFlag is the name of the flag to let viewers over the limit wait for a slot.
const MirrorWaitFlag = "mirror-wait"

// TranscriptFlag is the name of the flag to record shell output to a file.
const TranscriptFlag = "transcript"

// GetTerminalFlags returns the CLI flags of the run command.
func GetTerminalFlags() []cli.Flag {
	fonts := make([]string, 0, 3)
	for _, f := range layout.Fonts() {
		fonts = append(fonts, f.String())
	}

	return []cli.Flag{
		&cli.StringFlag{
			Name:     ShellFlag,
			Aliases:  []string{"s"},
			Usage:    "Shell binary to spawn on the terminal, looked up on PATH when given without a slash",
			Category: categoryTerminal,
			Value:    pty.DefaultShell,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     NoDisplayFlag,
			Usage:    "Do not pass DISPLAY to the shell",
			Category: categoryTerminal,
			Value:    false,
			Required: false,
		},
		&cli.FloatFlag{
			Name:     ScaleFlag,
			Usage:    "Initial zoom factor, adjustable with ctrl+'=' and ctrl+'-'",
			Category: categoryTerminal,
			Value:    float64(layout.DefaultScale),
			Required: false,
		},
		&cli.StringFlag{
			Name:     FontFlag,
			Aliases:  []string{"f"},
			Usage:    "Initial font, one of " + strings.Join(fonts, "|") + "; the mouse wheel cycles through them",
			Category: categoryTerminal,
			Value:    layout.FontOric.String(),
			Required: false,
		},
		&cli.DurationFlag{
			Name:     PollTimeoutFlag,
			Usage:    "Longest wait for shell output per frame",
			Category: categoryTerminal,
			Value:    multiplex.DefaultTimeout,
			Required: false,
		},
		&cli.StringFlag{
			Name:     BackendFlag,
			Aliases:  []string{"b"},
			Usage:    "Presentation back end, tui|plain",
			Category: categoryTerminal,
			Value:    config.BackendTUI.String(),
			Required: false,
		},
		&cli.StringFlag{
			Name:     MirrorFlag,
			Aliases:  []string{"m"},
			Usage:    "Serve the screen to 'jterm watch' viewers on host:port, leave empty to disable",
			Category: categoryTerminal,
			Value:    "",
			Required: false,
		},
		&cli.IntFlag{
			Name:     MirrorViewersFlag,
			Usage:    "Most viewers served at once",
			Category: categoryTerminal,
			Value:    mirror.DefaultMaxViewers,
			Required: false,
		},
		&cli.DurationFlag{
			Name:     MirrorWaitFlag,
			Usage:    "How long a viewer over the limit waits for a slot before it is turned away",
			Category: categoryTerminal,
			Value:    0,
			Required: false,
		},
		&cli.StringFlag{
			Name:     TranscriptFlag,
			Aliases:  []string{"t"},
			Usage:    "Append all shell output to this file",
			Category: categoryTerminal,
			Value:    "",
			Required: false,
		},
	}
}

// ParseConfig builds a run configuration: defaults, then the file named by
// --config, then every flag given explicitly on the command line.
func ParseConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Default()

	if path := cmd.String(ConfigFlag); path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if cmd.IsSet(ShellFlag) {
		cfg.Shell = cmd.String(ShellFlag)
	}
	if cmd.IsSet(NoDisplayFlag) {
		cfg.ForwardDisplay = !cmd.Bool(NoDisplayFlag)
	}
	if cmd.IsSet(ScaleFlag) {
		cfg.Scale = layout.Scale(cmd.Float(ScaleFlag))
	}
	if cmd.IsSet(FontFlag) {
		font, err := layout.ParseFont(cmd.String(FontFlag))
		if err != nil {
			return nil, err
		}
		cfg.Font = font
	}
	if cmd.IsSet(PollTimeoutFlag) {
		cfg.PollTimeout = cmd.Duration(PollTimeoutFlag)
	}
	if cmd.IsSet(BackendFlag) {
		cfg.Backend = config.ParseBackend(cmd.String(BackendFlag))
	}
	if cmd.IsSet(MirrorFlag) {
		cfg.Mirror = cmd.String(MirrorFlag)
	}
	if cmd.IsSet(MirrorViewersFlag) {
		cfg.MirrorViewers = int(cmd.Int(MirrorViewersFlag))
	}
	if cmd.IsSet(MirrorWaitFlag) {
		cfg.MirrorWait = cmd.Duration(MirrorWaitFlag)
	}
	if cmd.IsSet(TranscriptFlag) {
		cfg.Transcript = cmd.String(TranscriptFlag)
	}
	if cmd.IsSet(LogFileFlag) {
		cfg.LogFile = cmd.String(LogFileFlag)
	}
	if cmd.IsSet(VerboseFlag) {
		cfg.Verbose = cmd.Bool(VerboseFlag)
	}

	if cfg.Mirror != "" {
		mirror, err := ParseListenAddress(cfg.Mirror)
		if err != nil {
			return nil, err
		}
		cfg.Mirror = mirror
	}

	return cfg, nil
}
