package config

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"jterm/pkg/layout"
)

// File is the on-disk form of a Config. Keys left out keep their current
// value when the file is applied.
type File struct {
	Shell          *string  `toml:"shell"`
	ForwardDisplay *bool    `toml:"forward_display"`
	Scale          *float64 `toml:"scale"`
	Font           *string  `toml:"font"`
	PollTimeout    *string  `toml:"poll_timeout"`
	Backend        *string  `toml:"backend"`
	Mirror         *string  `toml:"mirror"`
	MirrorViewers  *int     `toml:"mirror_viewers"`
	MirrorWait     *string  `toml:"mirror_wait"`
	Transcript     *string  `toml:"transcript"`
	LogFile        *string  `toml:"log"`
	Verbose        *bool    `toml:"verbose"`
}

// LoadFile reads a TOML configuration file. Unknown keys are an error.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies every key present in f onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f.Shell != nil {
		cfg.Shell = *f.Shell
	}
	if f.ForwardDisplay != nil {
		cfg.ForwardDisplay = *f.ForwardDisplay
	}
	if f.Scale != nil {
		cfg.Scale = layout.Scale(*f.Scale)
	}
	if f.Font != nil {
		font, err := layout.ParseFont(*f.Font)
		if err != nil {
			return fmt.Errorf("config key font: %w", err)
		}
		cfg.Font = font
	}
	if f.PollTimeout != nil {
		d, err := time.ParseDuration(*f.PollTimeout)
		if err != nil {
			return fmt.Errorf("config key poll_timeout: %w", err)
		}
		cfg.PollTimeout = d
	}
	if f.Backend != nil {
		cfg.Backend = ParseBackend(*f.Backend)
	}
	if f.Mirror != nil {
		cfg.Mirror = *f.Mirror
	}
	if f.MirrorViewers != nil {
		cfg.MirrorViewers = *f.MirrorViewers
	}
	if f.MirrorWait != nil {
		d, err := time.ParseDuration(*f.MirrorWait)
		if err != nil {
			return fmt.Errorf("config key mirror_wait: %w", err)
		}
		cfg.MirrorWait = d
	}
	if f.Transcript != nil {
		cfg.Transcript = *f.Transcript
	}
	if f.LogFile != nil {
		cfg.LogFile = *f.LogFile
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}
	return nil
}
