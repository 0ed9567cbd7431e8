package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandling cancels the run on SIGINT, SIGTERM, SIGHUP or
// SIGQUIT so the host loop can release the terminal. A second signal
// exits immediately with 128+signal. The returned function stops the
// handling.
func SetupSignalHandling(cancel context.CancelFunc) (stop func()) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	// writes to a viewer that went away must not kill the terminal
	signal.Ignore(syscall.SIGPIPE)

	done := make(chan struct{})
	go func() {
		var s os.Signal
		select {
		case s = <-sigCh:
			cancel()
		case <-done:
			return
		}

		select {
		case <-sigCh:
			if ss, ok := s.(syscall.Signal); ok {
				os.Exit(128 + int(ss))
			}
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
