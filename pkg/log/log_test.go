package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestErrorMsg(t *testing.T) {
	// Capture stderr
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	ErrorMsg("test error: %s", "something")

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if output == "" {
		t.Error("ErrorMsg() produced no output")
	}
	if !strings.Contains(output, "test error") {
		t.Errorf("ErrorMsg() output does not contain expected text: %q", output)
	}
}

func TestInfoMsg(t *testing.T) {
	// Capture stderr
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	InfoMsg("test info: %s", "something")

	w.Close()
	os.Stderr = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if !strings.Contains(output, "test info") {
		t.Errorf("InfoMsg() output does not contain expected text: %q", output)
	}
}

func TestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		log     func(l *Logger)
		want    string
	}{
		{"error", false, func(l *Logger) { l.ErrorMsg("boom %d", 1) }, "boom 1"},
		{"info", false, func(l *Logger) { l.InfoMsg("hello") }, "hello"},
		{"verbose enabled", true, func(l *Logger) { l.VerboseMsg("detail") }, "detail"},
		{"verbose disabled", false, func(l *Logger) { l.VerboseMsg("detail") }, ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			l := NewLogger(&buf, tc.verbose)
			tc.log(l)

			if tc.want == "" {
				if buf.Len() != 0 {
					t.Errorf("output = %q, want empty", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tc.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tc.want)
			}
		})
	}
}

func TestLogger_Nil(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.ErrorMsg("x")
	l.InfoMsg("x")
	l.VerboseMsg("x")
	if l.IsVerbose() {
		t.Error("nil Logger IsVerbose() = true, want false")
	}
}

func TestNewTranscript(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.log")

	var screen bytes.Buffer
	w, err := NewTranscript(&screen, path)
	if err != nil {
		t.Fatalf("NewTranscript() error = %v", err)
	}

	if _, err := w.Write([]byte("hello\r\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if screen.String() != "hello\r\n" {
		t.Errorf("forwarded = %q, want %q", screen.String(), "hello\r\n")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "hello\r\n" {
		t.Errorf("transcript = %q, want %q", data, "hello\r\n")
	}
}

func TestNewTranscript_BadPath(t *testing.T) {
	t.Parallel()

	_, err := NewTranscript(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing", "x.log"))
	if err == nil {
		t.Error("NewTranscript() with missing directory should fail")
	}
}
