// Package pty allocates pseudo-terminal pairs, binds a shell to the slave
// side and propagates the terminal size to the kernel PTY driver.
package pty

import "math"

// TerminalSize represents the dimensions of a terminal window in rows and columns.
type TerminalSize struct {
	Rows int // Number of rows (height) in the terminal
	Cols int // Number of columns (width) in the terminal
}

// clamp16 limits v to the range a winsize field can carry.
func clamp16(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

// Shell describes the program bound to the slave side of the PTY.
type Shell struct {
	Path string   // absolute path of the shell binary
	Env  []string // complete environment of the child, e.g. "TERM=dumb"
}

// DefaultShell is the shell spawned when none is configured.
const DefaultShell = "/bin/sh"

// Environment builds the minimal child environment: TERM=dumb plus
// DISPLAY when a display value is given.
func Environment(display string) []string {
	env := []string{"TERM=dumb"}
	if display != "" {
		env = append(env, "DISPLAY="+display)
	}
	return env
}
