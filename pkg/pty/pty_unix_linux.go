//go:build linux

package pty

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func openPtm() (*os.File, error) {
	ptm, err := os.OpenFile("/dev/ptmx", os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile(/dev/ptmx): %w", err)
	}

	return ptm, nil
}

func ptsname(f *os.File) (string, error) {
	n, err := unix.IoctlGetUint32(int(f.Fd()), unix.TIOCGPTN)
	if err != nil {
		return "", fmt.Errorf("ioctl(TIOCGPTN): %w", err)
	}
	return fmt.Sprintf("/dev/pts/%d", n), nil
}

// grantpt is a no-op with devpts: the slave already belongs to the caller.
func grantpt(f *os.File) error {
	return nil
}

func unlockpt(f *os.File) error {
	return unix.IoctlSetPointerInt(int(f.Fd()), unix.TIOCSPTLCK, 0)
}
