// Package session holds the state of one terminal: the PTY, the screen
// buffer, the grid geometry and the font selector. The host loop owns a
// single Session and drives it from one goroutine.
package session

import (
	"errors"
	"fmt"
	"io"
	"time"

	"jterm/pkg/keys"
	"jterm/pkg/layout"
	"jterm/pkg/log"
	"jterm/pkg/multiplex"
	"jterm/pkg/pty"
	"jterm/pkg/screen"
)

// Terminal is the shell side of a session. *pty.Session implements it.
type Terminal interface {
	multiplex.Source
	io.Writer
	Resize(size pty.TerminalSize) error
	Close() error
}

// Options configures a Session.
type Options struct {
	Scale       layout.Scale
	Font        layout.Font
	PollTimeout time.Duration
	Escape      screen.EscapeHandler
	Transcript  io.Writer // receives a copy of all shell output, optional
	Logger      *log.Logger
}

// Session is the owned state of one running terminal. It is not safe for
// concurrent use.
type Session struct {
	term   Terminal
	buffer *screen.Buffer
	sink   io.Writer

	scale   layout.Scale
	font    layout.Font
	surface [2]int
	timeout time.Duration

	logger *log.Logger
	closed bool
}

// New creates a session on term with a grid fitted to a width×height
// pixel surface, and pushes that size to the kernel.
func New(term Terminal, width, height int, opts Options) (*Session, error) {
	if opts.Scale == 0 {
		opts.Scale = layout.DefaultScale
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = multiplex.DefaultTimeout
	}

	s := &Session{
		term:    term,
		scale:   opts.Scale.Clamp(),
		font:    opts.Font.Next(0),
		surface: [2]int{width, height},
		timeout: opts.PollTimeout,
		logger:  opts.Logger,
	}

	size := layout.GridSize(width, height, s.scale)
	s.buffer = screen.New(size, screen.WithEscapeHandler(opts.Escape))
	s.sink = s.buffer
	if opts.Transcript != nil {
		s.sink = io.MultiWriter(s.buffer, opts.Transcript)
	}

	if err := term.Resize(size); err != nil {
		return nil, err
	}
	s.logger.VerboseMsg("grid %dx%d at scale %.2f\n", size.Cols, size.Rows, float64(s.scale))

	return s, nil
}

// Tick waits up to the poll timeout for shell output and feeds it to the
// buffer. It returns multiplex.ErrClosed once the shell has exited; after
// that the buffer is never touched again.
func (s *Session) Tick() error {
	if s.closed {
		return multiplex.ErrClosed
	}

	_, err := multiplex.PollAndDrain(s.term, s.sink, s.timeout)
	if errors.Is(err, multiplex.ErrClosed) {
		s.closed = true
		s.logger.VerboseMsg("%s\n", err)
	}
	return err
}

// HandleKey encodes a host key event. Bytes for the shell are written to
// the master; zoom keys rescale the grid. It reports whether the host
// should shut down.
func (s *Session) HandleKey(ev keys.Event) (quit bool, err error) {
	action := keys.Encode(ev)

	if action.Zoom != 0 {
		if err := s.SetScale(s.scale.Step(action.Zoom)); err != nil {
			return false, err
		}
	}

	if action.Forward() && !s.closed {
		if _, err := s.term.Write(action.Bytes); err != nil {
			return action.Quit, fmt.Errorf("writing to pty: %w", err)
		}
	}

	return action.Quit, nil
}

// HandleScroll moves the font selector by delta steps, wrapping around.
func (s *Session) HandleScroll(delta int) {
	s.font = s.font.Next(delta)
}

// SetSurface refits the grid to a new surface size.
func (s *Session) SetSurface(width, height int) error {
	s.surface = [2]int{width, height}
	return s.refit()
}

// SetScale changes the zoom factor and refits the grid.
func (s *Session) SetScale(scale layout.Scale) error {
	s.scale = scale.Clamp()
	return s.refit()
}

// refit reallocates the buffer and notifies the kernel when the grid size
// changed. An unchanged size leaves everything as is.
func (s *Session) refit() error {
	size := layout.GridSize(s.surface[0], s.surface[1], s.scale)
	if !s.buffer.Resize(size) {
		return nil
	}

	if err := s.term.Resize(size); err != nil {
		return err
	}
	s.logger.VerboseMsg("resized grid to %dx%d\n", size.Cols, size.Rows)
	return nil
}

// Frame returns what the back end should draw.
func (s *Session) Frame() screen.Frame {
	return s.buffer.Frame()
}

// Buffer exposes the screen buffer.
func (s *Session) Buffer() *screen.Buffer {
	return s.buffer
}

// Scale returns the current zoom factor.
func (s *Session) Scale() layout.Scale {
	return s.scale
}

// Font returns the current font selector.
func (s *Session) Font() layout.Font {
	return s.font
}

// Close releases the terminal.
func (s *Session) Close() error {
	s.closed = true
	return s.term.Close()
}
