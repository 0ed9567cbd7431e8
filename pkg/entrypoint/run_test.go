package entrypoint

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jterm/mocks"
	"jterm/pkg/config"
	"jterm/pkg/host"
	"jterm/pkg/keys"
	"jterm/pkg/layout"
	"jterm/pkg/pty"
	"jterm/pkg/screen"
	"jterm/pkg/session"
)

// testConfig returns a config whose back end and terminal are mocks.
func testConfig(t *testing.T, backend *mocks.MockBackend, term *mocks.MockTerminal) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Deps = &config.Dependencies{
		Stdin:  func() io.Reader { return strings.NewReader("") },
		Stdout: func() io.Writer { return io.Discard },
		NewBackend: func(config.Backend, io.Reader, io.Writer) (host.Backend, error) {
			return backend, nil
		},
		NewTerminal: func(*config.Config) (session.Terminal, error) {
			return term, nil
		},
	}
	return cfg
}

func newMocks(t *testing.T) (*mocks.MockBackend, *mocks.MockTerminal) {
	t.Helper()
	term, err := mocks.NewMockTerminal()
	if err != nil {
		t.Fatalf("NewMockTerminal() error = %v", err)
	}
	// 80x48 pixels is a 10x6 grid at scale 1
	return mocks.NewMockBackend(80, 48), term
}

// runAsync starts Run and returns a channel receiving its result.
func runAsync(ctx context.Context, cfg *config.Config) <-chan error {
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
		return nil
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func lastText(b *mocks.MockBackend) []string {
	p, ok := b.Last()
	if !ok {
		return nil
	}
	out := make([]string, len(p.Frame.Rows))
	for i, row := range p.Frame.Rows {
		out[i] = screen.Text(row)
	}
	return out
}

func TestRun_ShellExit(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	if err := term.ShellWrite("hello\r\n"); err != nil {
		t.Fatalf("ShellWrite() error = %v", err)
	}
	term.Exit()

	err := waitDone(t, runAsync(context.Background(), testConfig(t, backend, term)))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil on shell exit", err)
	}

	if got := lastText(backend); len(got) == 0 || got[0] != "hello" {
		t.Errorf("last frame = %q, want first row hello", got)
	}
	if inited, finied := backend.Lifecycle(); !inited || !finied {
		t.Errorf("Lifecycle() = %v, %v; want true, true", inited, finied)
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed")
	}
	if got, want := term.Sizes(), []pty.TerminalSize{{Rows: 6, Cols: 10}}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("Sizes() = %v, want %v", got, want)
	}
}

func TestRun_QuitKey(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	done := runAsync(context.Background(), testConfig(t, backend, term))

	backend.Send(host.Event{Type: host.EventKey, Key: keys.Event{Key: keys.KeyRune, Rune: 'l'}})
	backend.Send(host.Event{Type: host.EventKey, Key: keys.Event{Key: keys.KeyRune, Rune: 's'}})
	backend.Send(host.Event{Type: host.EventKey, Key: keys.Event{Key: keys.KeyEnter}})
	backend.Send(host.Event{Type: host.EventKey, Key: keys.Event{Key: keys.KeyEscape}})

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := term.Input(); got != "ls\n" {
		t.Errorf("Input() = %q, want %q", got, "ls\n")
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed")
	}
}

func TestRun_BackendQuit(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	done := runAsync(context.Background(), testConfig(t, backend, term))
	backend.Send(host.Event{Type: host.EventQuit})

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(ctx, testConfig(t, backend, term))

	waitFor(t, "first frame", func() bool { _, ok := backend.Last(); return ok })
	cancel()

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed")
	}
}

func TestRun_ResizeAndZoom(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	done := runAsync(context.Background(), testConfig(t, backend, term))

	backend.Send(host.Event{Type: host.EventResize, Width: 160, Height: 48})
	backend.Send(host.Event{Type: host.EventResize, Width: 160, Height: 48})
	// ctrl + '=' zooms in one step: 160/10 x 48/10
	backend.Send(host.Event{Type: host.EventKey, Key: keys.Event{Key: keys.KeyRune, Rune: '=', Mod: keys.ModCtrl}})

	want := []pty.TerminalSize{
		{Rows: 6, Cols: 10},
		{Rows: 6, Cols: 20},
		{Rows: 4, Cols: 16},
	}
	waitFor(t, "resizes", func() bool { return len(term.Sizes()) >= len(want) })

	backend.Send(host.Event{Type: host.EventQuit})
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := term.Sizes()
	if len(got) != len(want) {
		t.Fatalf("Sizes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sizes()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if strings.Contains(term.Input(), "=") {
		t.Errorf("zoom key was forwarded: %q", term.Input())
	}
}

func TestRun_ScrollCyclesFont(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	done := runAsync(context.Background(), testConfig(t, backend, term))

	backend.Send(host.Event{Type: host.EventScroll, Scroll: -1})
	waitFor(t, "font change", func() bool {
		p, ok := backend.Last()
		return ok && p.Font == layout.FontOric.Next(-1)
	})

	backend.Send(host.Event{Type: host.EventQuit})
	if err := waitDone(t, done); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestRun_ResizeFailure(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	done := runAsync(context.Background(), testConfig(t, backend, term))

	waitFor(t, "first frame", func() bool { _, ok := backend.Last(); return ok })
	term.FailResize(errors.New("ioctl failed"))
	backend.Send(host.Event{Type: host.EventResize, Width: 400, Height: 400})

	err := waitDone(t, done)
	if err == nil || !strings.Contains(err.Error(), "ioctl failed") {
		t.Fatalf("Run() error = %v, want resize failure", err)
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed after fatal error")
	}
}

func TestRun_InitFailure(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	defer term.Close()
	backend.FailInit(errors.New("no display"))

	err := waitDone(t, runAsync(context.Background(), testConfig(t, backend, term)))
	if err == nil || !strings.Contains(err.Error(), "no display") {
		t.Fatalf("Run() error = %v, want init failure", err)
	}
}

func TestRun_TerminalFailure(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	defer term.Close()
	cfg := testConfig(t, backend, term)
	cfg.Deps.NewTerminal = func(*config.Config) (session.Terminal, error) {
		return nil, errors.New("openpt failed")
	}

	err := waitDone(t, runAsync(context.Background(), cfg))
	if err == nil || !strings.Contains(err.Error(), "openpt failed") {
		t.Fatalf("Run() error = %v, want terminal failure", err)
	}
	if _, finied := backend.Lifecycle(); !finied {
		t.Error("backend was not finalized")
	}
}

func TestRun_TranscriptAndLog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	backend, term := newMocks(t)
	cfg := testConfig(t, backend, term)
	cfg.Transcript = filepath.Join(dir, "transcript.txt")
	cfg.LogFile = filepath.Join(dir, "jterm.log")
	cfg.Verbose = true

	if err := term.ShellWrite("$ echo hi\r\nhi\r\n"); err != nil {
		t.Fatalf("ShellWrite() error = %v", err)
	}
	term.Exit()

	if err := waitDone(t, runAsync(context.Background(), cfg)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	transcript, err := os.ReadFile(cfg.Transcript)
	if err != nil {
		t.Fatalf("reading transcript: %v", err)
	}
	if got, want := string(transcript), "$ echo hi\r\nhi\r\n"; got != want {
		t.Errorf("transcript = %q, want %q", got, want)
	}

	logData, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(logData), "Shell exited") {
		t.Errorf("log = %q, want shell exit message", logData)
	}
}

func TestRun_BadTranscriptPath(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	cfg := testConfig(t, backend, term)
	cfg.Transcript = filepath.Join(t.TempDir(), "missing", "transcript.txt")

	if err := waitDone(t, runAsync(context.Background(), cfg)); err == nil {
		t.Fatal("Run() with bad transcript path succeeded")
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed")
	}
}

func TestRun_BadMirrorAddress(t *testing.T) {
	t.Parallel()

	backend, term := newMocks(t)
	cfg := testConfig(t, backend, term)
	cfg.Mirror = "bad-address"

	if err := waitDone(t, runAsync(context.Background(), cfg)); err == nil {
		t.Fatal("Run() with bad mirror address succeeded")
	}
	if !term.IsClosed() {
		t.Error("terminal was not closed")
	}
}

func TestPresenter_SkipsUnchangedFrames(t *testing.T) {
	t.Parallel()

	backend := mocks.NewMockBackend(80, 48)
	p := &presenter{backend: backend}

	b := screen.New(pty.TerminalSize{Rows: 2, Cols: 4})
	p.present(b.Frame(), layout.FontOric)
	p.present(b.Frame(), layout.FontOric)
	if got := len(backend.Presented()); got != 1 {
		t.Fatalf("presented %d frames for identical input, want 1", got)
	}

	p.present(b.Frame(), layout.FontKC854)
	b.Write([]byte("x"))
	p.present(b.Frame(), layout.FontKC854)
	if got := len(backend.Presented()); got != 3 {
		t.Errorf("presented %d frames, want 3", got)
	}
}
