// Package mocks provides mock implementations for testing.
package mocks

import (
	"bytes"
	"errors"
	"os"
	"sync"

	"jterm/pkg/pty"
)

// MockTerminal stands in for a PTY master. Shell output is simulated by
// writing to an os.Pipe, so the descriptor can be polled like a real
// master; input written by the core is recorded.
type MockTerminal struct {
	outR *os.File
	outW *os.File

	mu        sync.Mutex
	input     bytes.Buffer
	sizes     []pty.TerminalSize
	resizeErr error
	closed    bool
}

// NewMockTerminal creates a mock terminal with an open output pipe.
func NewMockTerminal() (*MockTerminal, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &MockTerminal{outR: r, outW: w}, nil
}

// ShellWrite simulates the shell printing data.
func (m *MockTerminal) ShellWrite(data string) error {
	_, err := m.outW.Write([]byte(data))
	return err
}

// Exit simulates the shell exiting: further reads see end of file.
func (m *MockTerminal) Exit() {
	m.outW.Close()
}

// Fd returns the pollable output descriptor.
func (m *MockTerminal) Fd() uintptr {
	return m.outR.Fd()
}

// Read reads simulated shell output.
func (m *MockTerminal) Read(p []byte) (int, error) {
	return m.outR.Read(p)
}

// Write records input sent to the shell.
func (m *MockTerminal) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, os.ErrClosed
	}
	return m.input.Write(p)
}

// Resize records the size pushed to the kernel.
func (m *MockTerminal) Resize(size pty.TerminalSize) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resizeErr != nil {
		return m.resizeErr
	}
	m.sizes = append(m.sizes, size)
	return nil
}

// FailResize makes subsequent Resize calls return err.
func (m *MockTerminal) FailResize(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resizeErr = err
}

// Close releases both pipe ends.
func (m *MockTerminal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errors.New("already closed")
	}
	m.closed = true
	m.outW.Close()
	return m.outR.Close()
}

// Input returns everything written to the terminal so far.
func (m *MockTerminal) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input.String()
}

// Sizes returns every size pushed with Resize, in order.
func (m *MockTerminal) Sizes() []pty.TerminalSize {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]pty.TerminalSize(nil), m.sizes...)
}

// IsClosed reports whether Close was called.
func (m *MockTerminal) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
