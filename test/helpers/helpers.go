// Package helpers provides common utilities for integration and end-to-end tests.
package helpers

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"jterm/mocks"
	"jterm/pkg/config"
	"jterm/pkg/host"
	"jterm/pkg/keys"
	"jterm/pkg/screen"
)

// SetupMockBackend creates a mock back end with a width×height pixel
// surface and dependencies that use it together with a real PTY.
func SetupMockBackend(width, height int) (*mocks.MockBackend, *config.Dependencies) {
	backend := mocks.NewMockBackend(width, height)

	deps := &config.Dependencies{
		Stdin:  func() io.Reader { return strings.NewReader("") },
		Stdout: func() io.Writer { return io.Discard },
		NewBackend: func(config.Backend, io.Reader, io.Writer) (host.Backend, error) {
			return backend, nil
		},
	}

	return backend, deps
}

// Type sends s as key events; '\n' becomes Enter.
func Type(b *mocks.MockBackend, s string) {
	for _, r := range s {
		ev := keys.Event{Key: keys.KeyRune, Rune: r}
		if r == '\n' {
			ev = keys.Event{Key: keys.KeyEnter}
		}
		b.Send(host.Event{Type: host.EventKey, Key: ev})
	}
}

// ScreenLines returns the rows of the last presented frame as text.
func ScreenLines(b *mocks.MockBackend) []string {
	p, ok := b.Last()
	if !ok {
		return nil
	}
	lines := make([]string, len(p.Frame.Rows))
	for i, row := range p.Frame.Rows {
		lines[i] = screen.Text(row)
	}
	return lines
}

// WaitForLine waits until the screen shows a row equal to line.
func WaitForLine(t *testing.T, b *mocks.MockBackend, line string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, l := range ScreenLines(b) {
			if l == line {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("screen never showed %q; last screen:\n%s", line, strings.Join(ScreenLines(b), "\n"))
}

// FreeAddress returns a loopback address with a currently unused port.
func FreeAddress(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}
