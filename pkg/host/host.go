// Package host defines the contract between the terminal core and a
// presentation back end: the back end reports its surface size and input
// events, the core hands it frames to draw.
package host

import (
	"unicode/utf8"

	"jterm/pkg/keys"
	"jterm/pkg/layout"
	"jterm/pkg/screen"
)

// EventType discriminates Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventScroll
	EventQuit
)

// Event is one input event from the back end.
type Event struct {
	Type EventType

	Key keys.Event // EventKey

	Width  int // EventResize, surface pixels
	Height int

	Scroll int // EventScroll, positive is wheel up
}

// Backend is a presentation back end. Init and Fini bracket its use;
// Present is called from the host loop only.
type Backend interface {
	Init() error
	Fini()

	// SurfaceSize returns the drawable area in pixels.
	SurfaceSize() (width, height int)

	// Events delivers input. The channel is never closed; EventQuit
	// announces that the back end can no longer deliver input.
	Events() <-chan Event

	Present(frame screen.Frame, font layout.Font)
}

// Glyph maps a grid cell to the rune to draw. Empty cells and control
// bytes are not drawn.
func Glyph(c byte) (rune, bool) {
	switch {
	case c < 0x20 || c == 0x7f:
		return 0, false
	case c >= 0x80:
		return utf8.RuneError, true
	}
	return rune(c), true
}

// Line renders a row for text back ends: undrawn cells become spaces and
// trailing blanks are dropped.
func Line(row []byte) string {
	out := make([]rune, 0, len(row))
	end := 0
	for _, c := range row {
		r, ok := Glyph(c)
		if !ok {
			r = ' '
		} else if r != ' ' {
			end = len(out) + 1
		}
		out = append(out, r)
	}
	return string(out[:end])
}
