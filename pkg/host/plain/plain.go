// Package plain presents the terminal grid by redrawing the host terminal
// with ANSI sequences, reading keyboard input from stdin in raw mode.
package plain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"jterm/pkg/host"
	"jterm/pkg/keys"
	"jterm/pkg/layout"
	"jterm/pkg/pty"
	"jterm/pkg/screen"
)

// sizeInterval is how often the host terminal size is re-read.
const sizeInterval = 250 * time.Millisecond

// Fallback grid used when the host size cannot be determined.
const (
	fallbackCols = 80
	fallbackRows = 24
)

// Terminal implements host.Backend on the process's own terminal.
type Terminal struct {
	in  io.Reader
	out io.Writer

	reader   cancelreader.CancelReader
	oldState *term.State

	events   chan host.Event
	done     chan struct{}
	readDone chan struct{}
	wg       sync.WaitGroup

	getSize func() (cols, rows int, err error)
}

// New creates a back end reading from in and drawing to out. When in is a
// terminal it is switched to raw mode during Init.
func New(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:       in,
		out:      out,
		events:   make(chan host.Event, 64),
		done:     make(chan struct{}),
		readDone: make(chan struct{}),
	}
	t.getSize = t.hostSize
	return t
}

func (t *Terminal) fd() (int, bool) {
	f, ok := t.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	return int(f.Fd()), true
}

func (t *Terminal) hostSize() (int, int, error) {
	f, ok := t.out.(*os.File)
	if !ok {
		return 0, 0, fmt.Errorf("output is not a terminal")
	}
	size, err := pty.GetTerminalSize(f)
	if err != nil {
		return 0, 0, err
	}
	return size.Cols, size.Rows, nil
}

func (t *Terminal) Init() error {
	if fd, ok := t.fd(); ok {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("setting terminal to raw mode: %s", err)
		}
		t.oldState = oldState
	}

	reader, err := cancelreader.NewReader(t.in)
	if err != nil {
		t.restore()
		return fmt.Errorf("cancelreader.NewReader(): %w", err)
	}
	t.reader = reader

	io.WriteString(t.out, "\x1b[2J\x1b[H")

	t.wg.Add(1)
	go t.readInput()
	go t.watchSize()
	return nil
}

// Fini stops input handling and restores the host terminal. A reader that
// cannot be cancelled is left blocked in its read.
func (t *Terminal) Fini() {
	close(t.done)
	if t.reader.Cancel() {
		<-t.readDone
	}
	t.wg.Wait()
	t.reader.Close()

	io.WriteString(t.out, "\x1b[0m\x1b[2J\x1b[H")
	t.restore()
}

func (t *Terminal) restore() {
	if t.oldState == nil {
		return
	}
	if fd, ok := t.fd(); ok {
		term.Restore(fd, t.oldState)
	}
	t.oldState = nil
}

// readInput decodes stdin into key events. End of input is reported as
// EventQuit.
func (t *Terminal) readInput() {
	defer close(t.readDone)

	buf := make([]byte, 256)
	for {
		n, err := t.reader.Read(buf)
		for _, k := range keys.Decode(buf[:n]) {
			if !t.send(host.Event{Type: host.EventKey, Key: k}) {
				return
			}
		}
		if err != nil {
			t.send(host.Event{Type: host.EventQuit})
			return
		}
	}
}

// watchSize polls the host terminal size and reports changes.
func (t *Terminal) watchSize() {
	defer t.wg.Done()

	ticker := time.NewTicker(sizeInterval)
	defer ticker.Stop()

	lastW, lastH := t.SurfaceSize()
	for {
		select {
		case <-ticker.C:
			w, h := t.SurfaceSize()
			if w == lastW && h == lastH {
				continue
			}
			lastW, lastH = w, h
			if !t.send(host.Event{Type: host.EventResize, Width: w, Height: h}) {
				return
			}
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) send(ev host.Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}

func (t *Terminal) SurfaceSize() (int, int) {
	cols, rows, err := t.getSize()
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = fallbackCols, fallbackRows
	}
	return layout.SurfaceFor(cols, rows)
}

func (t *Terminal) Events() <-chan host.Event {
	return t.events
}

// Present redraws the whole screen.
func (t *Terminal) Present(frame screen.Frame, font layout.Font) {
	t.out.Write(Render(frame, font))
}

// Render produces the ANSI byte stream that draws frame on a terminal.
func Render(frame screen.Frame, font layout.Font) []byte {
	var b bytes.Buffer

	b.WriteString("\x1b[H\x1b[2J")
	b.WriteString(fontSGR(font))
	for i, row := range frame.Rows {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(host.Line(row))
	}
	b.WriteString("\x1b[0m")
	fmt.Fprintf(&b, "\x1b[%d;%dH", frame.Cursor.Row+1, frame.Cursor.Col+1)

	return b.Bytes()
}

func fontSGR(f layout.Font) string {
	switch f {
	case layout.FontKC854:
		return "\x1b[1m"
	case layout.FontZ1013:
		return "\x1b[32m"
	}
	return "\x1b[0m"
}
