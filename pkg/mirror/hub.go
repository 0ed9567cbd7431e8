// Package mirror streams the screen to read-only viewers over WebSocket.
// The host loop publishes every frame it presents to a Hub; each connected
// viewer receives the latest frame as a JSON message. Slow viewers skip
// intermediate frames instead of holding up the host loop.
package mirror

import (
	"sync"

	"jterm/pkg/host"
	"jterm/pkg/layout"
	"jterm/pkg/screen"
)

// Message is the wire form of one frame.
type Message struct {
	Seq       uint64   `json:"seq"`
	Cols      int      `json:"cols"`
	Rows      int      `json:"rows"`
	Lines     []string `json:"lines"`
	CursorCol int      `json:"cursor_col"`
	CursorRow int      `json:"cursor_row"`
	Font      string   `json:"font"`
}

// NewMessage converts a frame into its wire form.
func NewMessage(frame screen.Frame, font layout.Font) Message {
	lines := make([]string, len(frame.Rows))
	for i, row := range frame.Rows {
		lines[i] = host.Line(row)
	}
	return Message{
		Cols:      frame.Size.Cols,
		Rows:      frame.Size.Rows,
		Lines:     lines,
		CursorCol: frame.Cursor.Col,
		CursorRow: frame.Cursor.Row,
		Font:      font.String(),
	}
}

// Hub fans frames out to subscribers. It never blocks the publisher.
type Hub struct {
	mu     sync.Mutex
	seq    uint64
	latest *Message
	subs   map[chan Message]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Message]struct{})}
}

// Publish records frame as the latest one and offers it to every
// subscriber, replacing any message the subscriber has not read yet.
func (h *Hub) Publish(frame screen.Frame, font layout.Font) {
	msg := NewMessage(frame, font)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.seq++
	msg.Seq = h.seq
	h.latest = &msg
	for ch := range h.subs {
		offer(ch, msg)
	}
}

// Subscribe registers a new subscriber. The latest frame, if any, is
// delivered immediately. The returned function unsubscribes; it is safe
// to call more than once.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	ch := make(chan Message, 1)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	if h.latest != nil {
		offer(ch, *h.latest)
	}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
		})
	}
}

// Latest returns the most recently published message.
func (h *Hub) Latest() (Message, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.latest == nil {
		return Message{}, false
	}
	return *h.latest, true
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer replaces a pending message in ch with msg. Callers hold h.mu, so
// ch has no other writer.
func offer(ch chan Message, msg Message) {
	select {
	case <-ch:
	default:
	}
	ch <- msg
}
