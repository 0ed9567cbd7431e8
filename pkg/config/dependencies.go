package config

import (
	"fmt"
	"io"
	"os"

	"jterm/pkg/host"
	"jterm/pkg/host/plain"
	"jterm/pkg/host/tui"
	"jterm/pkg/pty"
	"jterm/pkg/session"
)

// Dependencies contains injectable dependencies for testing and customization.
// All fields are optional and will use default implementations if nil.
type Dependencies struct {
	Stdin       StdinFunc
	Stdout      StdoutFunc
	NewBackend  NewBackendFunc
	NewTerminal NewTerminalFunc
}

// StdinFunc is a function that returns a reader for stdin.
type StdinFunc func() io.Reader

// StdoutFunc is a function that returns a writer for stdout.
type StdoutFunc func() io.Writer

// NewBackendFunc creates the presentation back end for a run.
type NewBackendFunc func(kind Backend, in io.Reader, out io.Writer) (host.Backend, error)

// NewTerminalFunc allocates a PTY and starts the shell on it.
type NewTerminalFunc func(cfg *Config) (session.Terminal, error)

// GetStdinFunc returns the stdin function from dependencies, or a default implementation.
// If deps is nil or deps.Stdin is nil, returns a function that uses os.Stdin.
func GetStdinFunc(deps *Dependencies) StdinFunc {
	if deps != nil && deps.Stdin != nil {
		return deps.Stdin
	}
	return func() io.Reader {
		return os.Stdin
	}
}

// GetStdoutFunc returns the stdout function from dependencies, or a default implementation.
// If deps is nil or deps.Stdout is nil, returns a function that uses os.Stdout.
func GetStdoutFunc(deps *Dependencies) StdoutFunc {
	if deps != nil && deps.Stdout != nil {
		return deps.Stdout
	}
	return func() io.Writer {
		return os.Stdout
	}
}

// GetNewBackendFunc returns the back end factory from dependencies, or one
// that builds the tcell or plain back end.
func GetNewBackendFunc(deps *Dependencies) NewBackendFunc {
	if deps != nil && deps.NewBackend != nil {
		return deps.NewBackend
	}
	return newBackend
}

func newBackend(kind Backend, in io.Reader, out io.Writer) (host.Backend, error) {
	switch kind {
	case BackendTUI:
		return tui.New()
	case BackendPlain:
		return plain.New(in, out), nil
	default:
		return nil, fmt.Errorf("unknown backend %d", int(kind))
	}
}

// GetNewTerminalFunc returns the terminal factory from dependencies, or one
// that allocates a real PTY and spawns cfg.Shell on it.
func GetNewTerminalFunc(deps *Dependencies) NewTerminalFunc {
	if deps != nil && deps.NewTerminal != nil {
		return deps.NewTerminal
	}
	return newTerminal
}

func newTerminal(cfg *Config) (session.Terminal, error) {
	s, err := pty.Allocate()
	if err != nil {
		return nil, fmt.Errorf("allocating pty: %w", err)
	}

	display := ""
	if cfg.ForwardDisplay {
		display = os.Getenv("DISPLAY")
	}

	sh := pty.Shell{Path: cfg.Shell, Env: pty.Environment(display)}
	if err := s.Spawn(sh); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("spawning %s: %w", cfg.Shell, err)
	}

	return s, nil
}
