// Package config holds the settings of a terminal run and the injectable
// dependencies used to start one.
package config

import (
	"fmt"
	"time"

	"jterm/pkg/layout"
	"jterm/pkg/mirror"
	"jterm/pkg/multiplex"
	"jterm/pkg/pty"
)

// MaxPollTimeout bounds the shell output wait per loop iteration.
const MaxPollTimeout = 100 * time.Millisecond

// Backend selects a presentation back end.
type Backend int

const (
	BackendNone Backend = iota
	BackendTUI
	BackendPlain
)

// String returns the backend name used on the command line.
func (b Backend) String() string {
	switch b {
	case BackendTUI:
		return "tui"
	case BackendPlain:
		return "plain"
	default:
		return ""
	}
}

// ParseBackend parses a backend name.
func ParseBackend(s string) Backend {
	switch s {
	case "tui":
		return BackendTUI
	case "plain":
		return BackendPlain
	default:
		return BackendNone
	}
}

// Config is the configuration of one terminal run.
type Config struct {
	Shell          string
	ForwardDisplay bool
	Scale          layout.Scale
	Font           layout.Font
	PollTimeout    time.Duration
	Backend        Backend
	Mirror         string // listen address for viewers, empty disables
	MirrorViewers  int
	MirrorWait     time.Duration // how long a viewer over the limit waits
	Transcript     string        // file receiving all shell output, empty disables
	LogFile        string
	Verbose        bool

	Deps *Dependencies
}

// Default returns a Config with every field at its default.
func Default() *Config {
	return &Config{
		Shell:          pty.DefaultShell,
		ForwardDisplay: true,
		Scale:          layout.DefaultScale,
		Font:           layout.FontOric,
		PollTimeout:    multiplex.DefaultTimeout,
		Backend:        BackendTUI,
		MirrorViewers:  mirror.DefaultMaxViewers,
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []error {
	var errors []error

	if c.Shell == "" {
		errors = append(errors, fmt.Errorf("'--shell' must not be empty"))
	}

	if err := c.Scale.Validate(); err != nil {
		errors = append(errors, fmt.Errorf("'--scale': %w", err))
	}

	if c.PollTimeout <= 0 || c.PollTimeout > MaxPollTimeout {
		errors = append(errors, fmt.Errorf("'--poll-timeout' must be in (0, %s]", MaxPollTimeout))
	}

	if c.Backend == BackendNone {
		errors = append(errors, fmt.Errorf("'--backend' must be one of: tui, plain"))
	}

	if c.MirrorViewers < 1 {
		errors = append(errors, fmt.Errorf("'--mirror-viewers' must be at least 1"))
	}

	if c.MirrorWait < 0 {
		errors = append(errors, fmt.Errorf("'--mirror-wait' must not be negative"))
	}

	if c.Font.Next(0) != c.Font {
		errors = append(errors, fmt.Errorf("'--font' %d is not a known font", int(c.Font)))
	}

	return errors
}
