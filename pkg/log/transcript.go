package log

import (
	"fmt"
	"io"
	"os"
)

// transcriptWriter forwards writes to w and records every byte written
// to a transcript file.
type transcriptWriter struct {
	w       io.Writer
	logFile *os.File
}

func (tw *transcriptWriter) Write(b []byte) (int, error) {
	n, err := tw.w.Write(b)
	if n > 0 {
		if _, lerr := tw.logFile.Write(b[:n]); lerr != nil {
			return n, fmt.Errorf("writing transcript: %s", lerr)
		}
	}
	return n, err
}

func (tw *transcriptWriter) Close() error {
	return tw.logFile.Close()
}

// NewTranscript wraps w so that all data written to it is also appended to
// the file at logFilePath. Closing the result closes only the file.
func NewTranscript(w io.Writer, logFilePath string) (io.WriteCloser, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &transcriptWriter{w: w, logFile: logFile}, nil
}
