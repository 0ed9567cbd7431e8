//go:build darwin

package pty

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ptyNameLen is the buffer size TIOCPTYGNAME writes into.
const ptyNameLen = (unix.TIOCPTYGNAME >> 16) & 0x1fff

func openPtm() (*os.File, error) {
	fd, err := unix.Open("/dev/ptmx", unix.O_RDWR|unix.O_NOCTTY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("unix.Open(/dev/ptmx): %w", err)
	}
	return os.NewFile(uintptr(fd), "/dev/ptmx"), nil
}

func ptsname(f *os.File) (string, error) {
	var buf [ptyNameLen]byte
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), uintptr(unix.TIOCPTYGNAME), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", fmt.Errorf("ioctl(TIOCPTYGNAME): %w", errno)
	}

	n := bytes.IndexByte(buf[:], 0)
	if n < 0 {
		return "", errors.New("ioctl(TIOCPTYGNAME): name not terminated")
	}
	return string(buf[:n]), nil
}

func grantpt(f *os.File) error {
	return unix.IoctlSetInt(int(f.Fd()), unix.TIOCPTYGRANT, 0)
}

func unlockpt(f *os.File) error {
	return unix.IoctlSetInt(int(f.Fd()), unix.TIOCPTYUNLK, 0)
}
