// Package entrypoint runs a terminal: it wires the back end, the shell and
// the session together and drives the host loop until the shell exits,
// the user quits or the context is cancelled.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"jterm/pkg/config"
	"jterm/pkg/host"
	"jterm/pkg/layout"
	"jterm/pkg/log"
	"jterm/pkg/mirror"
	"jterm/pkg/multiplex"
	"jterm/pkg/screen"
	"jterm/pkg/session"
)

// Run starts the shell configured in cfg and runs the host loop. It
// returns nil when the shell exits, the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	stdin := config.GetStdinFunc(cfg.Deps)()
	stdout := config.GetStdoutFunc(cfg.Deps)()

	backend, err := config.GetNewBackendFunc(cfg.Deps)(cfg.Backend, stdin, stdout)
	if err != nil {
		return fmt.Errorf("creating %s backend: %w", cfg.Backend, err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing %s backend: %w", cfg.Backend, err)
	}
	defer backend.Fini()

	term, err := config.GetNewTerminalFunc(cfg.Deps)(cfg)
	if err != nil {
		return err
	}

	opts := session.Options{
		Scale:       cfg.Scale,
		Font:        cfg.Font,
		PollTimeout: cfg.PollTimeout,
		Logger:      logger,
	}
	if cfg.Transcript != "" {
		tr, err := log.NewTranscript(io.Discard, cfg.Transcript)
		if err != nil {
			_ = term.Close()
			return fmt.Errorf("opening transcript %s: %w", cfg.Transcript, err)
		}
		defer tr.Close()
		opts.Transcript = tr
	}

	width, height := backend.SurfaceSize()
	sess, err := session.New(term, width, height, opts)
	if err != nil {
		_ = term.Close()
		return fmt.Errorf("creating session: %w", err)
	}
	defer sess.Close()

	var hub *mirror.Hub
	if cfg.Mirror != "" {
		hub = mirror.NewHub()
		stop, err := mirror.Start(ctx, cfg.Mirror, hub, logger, mirror.Options{
			MaxViewers: cfg.MirrorViewers,
			AdmitWait:  cfg.MirrorWait,
		})
		if err != nil {
			return err
		}
		defer stop()
	}

	return loop(ctx, sess, backend, hub, logger)
}

// openLogger opens the log destination. A full-screen back end owns the
// host terminal, so without a log file messages are discarded.
func openLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		return log.NewLogger(io.Discard, cfg.Verbose), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.LogFile, err)
	}
	return log.NewLogger(f, cfg.Verbose), func() { _ = f.Close() }, nil
}

// presenter hands frames to the back end and the mirror, skipping frames
// identical to the previous one.
type presenter struct {
	backend host.Backend
	hub     *mirror.Hub

	shown bool
	frame screen.Frame
	font  layout.Font
}

func (p *presenter) present(frame screen.Frame, font layout.Font) {
	if p.shown && font == p.font && frame.Equal(p.frame) {
		return
	}
	p.backend.Present(frame, font)
	if p.hub != nil {
		p.hub.Publish(frame, font)
	}
	p.shown, p.frame, p.font = true, frame, font
}

// loop is the host loop: poll the shell, apply pending host events, draw.
func loop(ctx context.Context, sess *session.Session, backend host.Backend, hub *mirror.Hub, logger *log.Logger) error {
	p := &presenter{backend: backend, hub: hub}
	p.present(sess.Frame(), sess.Font())

	for {
		if err := ctx.Err(); err != nil {
			logger.VerboseMsg("stopping: %s\n", err)
			return nil
		}

		if err := sess.Tick(); err != nil {
			if errors.Is(err, multiplex.ErrClosed) {
				logger.InfoMsg("Shell exited\n")
				return nil
			}
			return fmt.Errorf("reading shell output: %w", err)
		}

		quit, err := drainEvents(sess, backend.Events(), logger)
		if err != nil {
			return err
		}
		if quit {
			logger.VerboseMsg("quit requested\n")
			return nil
		}

		p.present(sess.Frame(), sess.Font())
	}
}

// drainEvents applies every queued host event without waiting for more.
func drainEvents(sess *session.Session, events <-chan host.Event, logger *log.Logger) (quit bool, err error) {
	for {
		select {
		case ev := <-events:
			quit, err := handleEvent(sess, ev, logger)
			if quit || err != nil {
				return quit, err
			}
		default:
			return false, nil
		}
	}
}

func handleEvent(sess *session.Session, ev host.Event, logger *log.Logger) (quit bool, err error) {
	switch ev.Type {
	case host.EventKey:
		quit, err := sess.HandleKey(ev.Key)
		if err != nil {
			return quit, fmt.Errorf("handling key: %w", err)
		}
		return quit, nil

	case host.EventResize:
		if err := sess.SetSurface(ev.Width, ev.Height); err != nil {
			return false, fmt.Errorf("resizing: %w", err)
		}
		return false, nil

	case host.EventScroll:
		sess.HandleScroll(ev.Scroll)
		logger.VerboseMsg("font %s\n", sess.Font())
		return false, nil

	case host.EventQuit:
		return true, nil
	}
	return false, nil
}
