// Package semaphore limits how many holders share a resource at once,
// such as the viewer slots of the mirror.
package semaphore

import (
	"context"
	"errors"
	"time"
)

// ErrFull is returned by Acquire when no slot became free in time.
var ErrFull = errors.New("all slots taken")

// Semaphore hands out a fixed number of slots. A nil *Semaphore never
// limits anything.
type Semaphore struct {
	slots chan struct{}
	wait  time.Duration
}

// New creates a semaphore with n free slots. Acquire waits up to wait for
// a slot; with a zero wait it fails at once when all slots are taken.
func New(n int, wait time.Duration) *Semaphore {
	slots := make(chan struct{}, max(n, 0))
	for i := 0; i < cap(slots); i++ {
		slots <- struct{}{}
	}
	return &Semaphore{slots: slots, wait: wait}
}

// Acquire takes a slot. It returns ErrFull when none frees up within the
// wait period, or the context's error if ctx ends first.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if s == nil {
		return nil
	}

	select {
	case <-s.slots:
		return nil
	default:
	}
	if s.wait <= 0 {
		return ErrFull
	}

	timer := time.NewTimer(s.wait)
	defer timer.Stop()

	select {
	case <-s.slots:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrFull
	}
}

// Release returns a slot taken with Acquire.
func (s *Semaphore) Release() {
	if s == nil {
		return
	}
	s.slots <- struct{}{}
}

// Available returns the number of free slots.
func (s *Semaphore) Available() int {
	if s == nil {
		return 0
	}
	return len(s.slots)
}
