// Package multiplex waits on the PTY master with a bounded timeout and
// drains whatever the shell wrote into the screen buffer, so the host
// loop never stalls on the shell.
package multiplex

import (
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultTimeout bounds one poll; it is also the worst-case input latency.
const DefaultTimeout = 10 * time.Millisecond

// ReadSize is the most bytes drained per call.
const ReadSize = 256

// ErrClosed signals that the shell side is gone: the master read returned
// zero bytes or failed. The session should end.
var ErrClosed = errors.New("pty closed: child exited")

// Source is a pollable descriptor. *os.File and *pty.Session satisfy it.
type Source interface {
	io.Reader
	Fd() uintptr
}

// PollAndDrain waits up to timeout for src to become readable, then reads
// once and writes the bytes to dst in order. It returns the number of bytes
// forwarded; zero with a nil error means the timeout elapsed. ErrClosed is
// returned once the shell has exited.
func PollAndDrain(src Source, dst io.Writer, timeout time.Duration) (int, error) {
	ready, err := wait(src.Fd(), timeout)
	if err != nil {
		return 0, err
	}
	if !ready {
		return 0, nil
	}

	var buf [ReadSize]byte
	n, err := src.Read(buf[:])
	if n <= 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return 0, ErrClosed
		}
		return 0, fmt.Errorf("%w: %s", ErrClosed, err)
	}

	if _, werr := dst.Write(buf[:n]); werr != nil {
		return 0, fmt.Errorf("forwarding pty output: %w", werr)
	}
	return n, nil
}

// wait polls fd for input. Hangup and error conditions count as readable
// so the following read reports them.
func wait(fd uintptr, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}

	n, err := unix.Poll(fds, timeoutMillis(timeout))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, fmt.Errorf("poll: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if fds[0].Revents&unix.POLLNVAL != 0 {
		return false, fmt.Errorf("%w: descriptor invalid", ErrClosed)
	}
	return fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0, nil
}

func timeoutMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := int(d / time.Millisecond)
	if ms == 0 {
		ms = 1
	}
	return ms
}
