//go:build linux || darwin

package pty

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// closeGrace is how long Close waits for the child to exit after hangup.
const closeGrace = 2 * time.Second

// Session is a pseudo-terminal pair and the shell bound to it.
// The master lives until Close; the slave is released once the shell runs.
type Session struct {
	master *os.File
	slave  *os.File
	cmd    *exec.Cmd
	size   TerminalSize

	exited    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Allocate opens a new pseudo-terminal master, grants and unlocks it,
// resolves the slave device path and opens the slave.
func Allocate() (*Session, error) {
	ptm, pts, err := NewPty()
	if err != nil {
		return nil, err
	}
	return &Session{master: ptm, slave: pts}, nil
}

// NewPty creates a new pseudo-terminal pair on Unix systems.
// It returns the master (ptm) and slave (pts) file descriptors.
// The caller is responsible for closing both file descriptors.
func NewPty() (*os.File, *os.File, error) {
	ptm, err := openPtm()
	if err != nil {
		return nil, nil, fmt.Errorf("openPtm(): %w", err)
	}

	if err := grantpt(ptm); err != nil {
		ptm.Close()
		return nil, nil, fmt.Errorf("grantpt(ptm): %w", err)
	}

	if err := unlockpt(ptm); err != nil {
		ptm.Close()
		return nil, nil, fmt.Errorf("unlockpt(ptm): %w", err)
	}

	ptsName, err := ptsname(ptm)
	if err != nil {
		ptm.Close()
		return nil, nil, fmt.Errorf("ptsname(ptm): %w", err)
	}

	pts, err := openPts(ptsName)
	if err != nil {
		ptm.Close()
		return nil, nil, fmt.Errorf("openPts(%s): %w", ptsName, err)
	}
	return ptm, pts, nil
}

func openPts(ptsName string) (*os.File, error) {
	pts, err := os.OpenFile(ptsName, os.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile: %w", err)
	}

	return pts, nil
}

// Spawn starts the shell in a new session with the slave as its
// controlling terminal and standard streams. The parent's slave
// descriptor is closed once the child runs.
func (s *Session) Spawn(sh Shell) error {
	if s.slave == nil {
		return errors.New("spawn: slave already released")
	}
	if s.cmd != nil {
		return errors.New("spawn: shell already running")
	}

	path := sh.Path
	if path == "" {
		path = DefaultShell
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}

	cmd := &exec.Cmd{
		Path: bin,
		// a leading dash makes the shell a login shell
		Args:   []string{"-" + filepath.Base(path)},
		Env:    sh.Env,
		Stdin:  s.slave,
		Stdout: s.slave,
		Stderr: s.slave,
		SysProcAttr: &syscall.SysProcAttr{
			Setsid:  true,
			Setctty: true,
			Ctty:    0,
		},
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}

	s.slave.Close()
	s.slave = nil
	s.cmd = cmd
	s.exited = make(chan struct{})

	go func() {
		cmd.Wait()
		close(s.exited)
	}()

	return nil
}

// Pid returns the shell's process id, or 0 before Spawn.
func (s *Session) Pid() int {
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Resize records size in the kernel's PTY bookkeeping via TIOCSWINSZ.
func (s *Session) Resize(size TerminalSize) error {
	if err := SetTerminalSize(s.master, size); err != nil {
		return fmt.Errorf("ioctl(TIOCSWINSZ): %w", err)
	}
	s.size = size
	return nil
}

// Size returns the size last pushed with Resize.
func (s *Session) Size() TerminalSize {
	return s.size
}

// Fd returns the master descriptor.
func (s *Session) Fd() uintptr {
	return s.master.Fd()
}

// Read reads shell output from the master.
func (s *Session) Read(p []byte) (int, error) {
	return s.master.Read(p)
}

// Write sends input to the shell through the master.
func (s *Session) Write(p []byte) (int, error) {
	return s.master.Write(p)
}

// Close releases the master, which the shell sees as a hangup, and reaps
// the child. A child that outlives the grace period is killed.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.slave != nil {
			s.slave.Close()
			s.slave = nil
		}
		s.closeErr = s.master.Close()

		if s.cmd == nil {
			return
		}
		select {
		case <-s.exited:
		case <-time.After(closeGrace):
			s.cmd.Process.Kill()
			<-s.exited
		}
	})
	return s.closeErr
}

// Terminal size

// GetTerminalSize reads the size of the terminal behind t with TIOCGWINSZ.
func GetTerminalSize(t *os.File) (size TerminalSize, err error) {
	ws, err := unix.IoctlGetWinsize(int(t.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return size, err
	}

	return TerminalSize{
		Rows: int(ws.Row),
		Cols: int(ws.Col),
	}, nil
}

// SetTerminalSize sets the terminal size for the given PTY file descriptor.
// It uses the TIOCSWINSZ ioctl to update the terminal dimensions.
func SetTerminalSize(t *os.File, size TerminalSize) error {
	ws := &unix.Winsize{
		Row: clamp16(size.Rows),
		Col: clamp16(size.Cols),
	}
	return unix.IoctlSetWinsize(int(t.Fd()), unix.TIOCSWINSZ, ws)
}
