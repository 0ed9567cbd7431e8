package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Watch connects to a mirror at url and renders every frame it receives
// to w. With once set, Watch returns after the first frame and renders it
// as plain lines; otherwise each frame repaints the terminal.
func Watch(ctx context.Context, url string, w io.Writer, once bool) error {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("websocket.Dial(%s): %w", url, err)
	}
	defer c.CloseNow()

	for {
		var msg Message
		if err := wsjson.Read(ctx, c, &msg); err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				if once {
					return ErrNoFrame
				}
				return nil
			}
			return fmt.Errorf("wsjson.Read(): %w", err)
		}

		if once {
			_, err = io.WriteString(w, Plain(msg))
			if err != nil {
				return fmt.Errorf("writing frame: %w", err)
			}
			return c.Close(websocket.StatusNormalClosure, "")
		}
		if _, err := io.WriteString(w, Repaint(msg)); err != nil {
			return fmt.Errorf("writing frame: %w", err)
		}
	}
}

// Plain renders msg as newline-terminated text lines.
func Plain(msg Message) string {
	var sb strings.Builder
	for _, line := range msg.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Repaint renders msg as an ANSI sequence that clears the terminal, draws
// the lines and places the cursor.
func Repaint(msg Message) string {
	var sb strings.Builder
	sb.WriteString("\x1b[H\x1b[2J")
	sb.WriteString(strings.Join(msg.Lines, "\r\n"))
	fmt.Fprintf(&sb, "\x1b[%d;%dH", msg.CursorRow+1, msg.CursorCol+1)
	return sb.String()
}

// ErrNoFrame is returned by a one-shot Watch that ends before the first
// frame arrives.
var ErrNoFrame = errors.New("mirror closed without a frame")
