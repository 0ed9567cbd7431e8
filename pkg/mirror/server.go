package mirror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"jterm/pkg/log"
	"jterm/pkg/semaphore"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// DefaultMaxViewers bounds concurrent viewers; further connections
// receive HTTP 503.
const DefaultMaxViewers = 16

// writeTimeout bounds a single message write to a viewer.
const writeTimeout = 5 * time.Second

// Options configure viewer admission.
type Options struct {
	MaxViewers int           // concurrent viewers
	AdmitWait  time.Duration // how long a viewer over the limit waits for a slot
}

// Server serves a Hub to WebSocket viewers.
type Server struct {
	hub    *Hub
	logger *log.Logger
	slots  *semaphore.Semaphore
}

// NewServer creates a Server admitting viewers according to opts.
func NewServer(hub *Hub, logger *log.Logger, opts Options) *Server {
	return &Server{hub: hub, logger: logger, slots: semaphore.New(opts.MaxViewers, opts.AdmitWait)}
}

// Start binds addr and serves hub in the background until ctx is cancelled.
// Bind errors are returned directly. The returned function stops the
// server and waits for it to finish.
func Start(ctx context.Context, addr string, hub *Hub, logger *log.Logger, opts Options) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen(tcp, %s): %w", addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := NewServer(hub, logger, opts).Serve(ctx, ln); err != nil {
			logger.ErrorMsg("mirror: %s\n", err)
		}
	}()

	return func() {
		cancel()
		<-done
	}, nil
}

// Serve accepts viewers on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer ln.Close()

	server := &http.Server{
		Handler:           s,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.logger.InfoMsg("Mirror listening on ws://%s\n", ln.Addr())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		_ = ln.Close()
		err := <-errCh
		if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
			return nil
		}
		return fmt.Errorf("serving after cancellation: %w", err)

	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http.Server.Serve(): %w", err)
	}
}

// ServeHTTP upgrades the request and streams frames until the viewer
// disconnects or the request context ends.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := s.slots.Acquire(r.Context()); err != nil {
		s.logger.VerboseMsg("Rejecting mirror viewer %s: %s\n", r.RemoteAddr, err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	defer s.slots.Release()

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.ErrorMsg("websocket.Accept(): %s\n", err)
		return
	}
	defer c.CloseNow()

	s.logger.VerboseMsg("Mirror viewer connected from %s\n", r.RemoteAddr)
	if err := s.stream(r.Context(), c); err != nil {
		s.logger.VerboseMsg("Mirror viewer %s: %s\n", r.RemoteAddr, err)
		return
	}
	_ = c.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) stream(ctx context.Context, c *websocket.Conn) error {
	// Viewers are read-only; CloseRead handles their control frames and
	// cancels ctx once they go away.
	ctx = c.CloseRead(ctx)

	msgs, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-msgs:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c, msg)
			cancel()
			if err != nil {
				return fmt.Errorf("wsjson.Write(): %w", err)
			}
		}
	}
}
