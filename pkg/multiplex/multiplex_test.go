package multiplex

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"
)

func pipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return r, w
}

func TestPollAndDrain_Timeout(t *testing.T) {
	t.Parallel()

	r, _ := pipe(t)
	var dst bytes.Buffer

	start := time.Now()
	n, err := PollAndDrain(r, &dst, 20*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("PollAndDrain() error = %v", err)
	}
	if n != 0 || dst.Len() != 0 {
		t.Errorf("PollAndDrain() forwarded %d bytes, want 0", n)
	}
	if elapsed > time.Second {
		t.Errorf("PollAndDrain() blocked for %v, want about 20ms", elapsed)
	}
}

func TestPollAndDrain_Forwards(t *testing.T) {
	t.Parallel()

	r, w := pipe(t)
	var dst bytes.Buffer

	if _, err := w.Write([]byte("hello\r\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	n, err := PollAndDrain(r, &dst, time.Second)
	if err != nil {
		t.Fatalf("PollAndDrain() error = %v", err)
	}
	if n != 7 || dst.String() != "hello\r\n" {
		t.Errorf("PollAndDrain() = %d, %q; want 7, %q", n, dst.String(), "hello\r\n")
	}
}

func TestPollAndDrain_BoundedRead(t *testing.T) {
	t.Parallel()

	r, w := pipe(t)
	var dst bytes.Buffer

	payload := bytes.Repeat([]byte("x"), ReadSize*2+10)
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	total := 0
	for total < len(payload) {
		n, err := PollAndDrain(r, &dst, time.Second)
		if err != nil {
			t.Fatalf("PollAndDrain() error = %v", err)
		}
		if n > ReadSize {
			t.Fatalf("PollAndDrain() forwarded %d bytes, want at most %d", n, ReadSize)
		}
		total += n
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Error("forwarded bytes differ from written bytes")
	}
}

func TestPollAndDrain_Closed(t *testing.T) {
	t.Parallel()

	r, w := pipe(t)
	w.Close()

	var dst bytes.Buffer
	_, err := PollAndDrain(r, &dst, time.Second)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("PollAndDrain() error = %v, want ErrClosed", err)
	}
	if dst.Len() != 0 {
		t.Error("PollAndDrain() wrote to dst after close")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("nope") }

func TestPollAndDrain_SinkError(t *testing.T) {
	t.Parallel()

	r, w := pipe(t)
	w.Write([]byte("x"))

	_, err := PollAndDrain(r, failingWriter{}, time.Second)
	if err == nil || errors.Is(err, ErrClosed) {
		t.Errorf("PollAndDrain() error = %v, want forwarding error", err)
	}
}

func TestTimeoutMillis(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want int
	}{
		{-time.Second, 0},
		{0, 0},
		{time.Microsecond, 1},
		{10 * time.Millisecond, 10},
		{1500 * time.Microsecond, 1},
	}

	for _, tc := range tests {
		if got := timeoutMillis(tc.in); got != tc.want {
			t.Errorf("timeoutMillis(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
