// Package log provides logging utilities including colored console output
// and session transcript recording.
package log

import (
	"io"
	"os"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var faint = color.New(color.Faint).FprintfFunc()

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// Logger writes colored messages to a configurable writer.
// A nil *Logger discards everything.
type Logger struct {
	out     io.Writer
	verbose bool
}

// NewLogger creates a Logger writing to out. If out is nil, stderr is used.
func NewLogger(out io.Writer, verbose bool) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{out: out, verbose: verbose}
}

// ErrorMsg prints an error message in red color.
func (l *Logger) ErrorMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	red(l.out, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message in blue color.
func (l *Logger) InfoMsg(format string, a ...interface{}) {
	if l == nil {
		return
	}
	blue(l.out, "[+] "+format, a...)
}

// VerboseMsg prints a message only if the logger is verbose.
func (l *Logger) VerboseMsg(format string, a ...interface{}) {
	if l == nil || !l.verbose {
		return
	}
	faint(l.out, "[~] "+format, a...)
}

// IsVerbose reports whether verbose messages are printed.
func (l *Logger) IsVerbose() bool {
	return l != nil && l.verbose
}
