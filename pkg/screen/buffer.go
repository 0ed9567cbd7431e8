// Package screen implements the character grid a terminal session draws
// into: cursor placement, automatic line wrap, scroll-up eviction and
// backspace handling, fed one byte at a time from the shell's output.
package screen

import (
	"jterm/pkg/pty"
)

// Control bytes interpreted by the buffer.
const (
	bs  = 0x08
	lf  = '\n'
	cr  = '\r'
	esc = 0x1b
	del = 0x7f
)

// Cursor is a position in the grid.
type Cursor struct {
	Col int
	Row int
}

// Buffer is a fixed-size character grid with a cursor. A zero cell is empty.
// Buffer is not safe for concurrent use.
type Buffer struct {
	grid   *grid
	cursor Cursor

	// justWrapped is set when the last printable byte filled the final
	// column, so that an immediately following line feed is absorbed.
	justWrapped bool

	escape EscapeHandler
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithEscapeHandler installs the strategy invoked on ESC.
func WithEscapeHandler(h EscapeHandler) Option {
	return func(b *Buffer) {
		if h != nil {
			b.escape = h
		}
	}
}

// New creates an empty buffer of the given size. Dimensions below one are
// raised to one.
func New(size pty.TerminalSize, opts ...Option) *Buffer {
	b := &Buffer{
		grid:   newGrid(size),
		escape: NopEscape{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Size returns the grid dimensions.
func (b *Buffer) Size() pty.TerminalSize {
	return pty.TerminalSize{Rows: b.grid.rows, Cols: b.grid.cols}
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Cursor {
	return b.cursor
}

// JustWrapped reports whether the last byte caused an automatic wrap.
func (b *Buffer) JustWrapped() bool {
	return b.justWrapped
}

// Cell returns the byte stored at (row, col).
func (b *Buffer) Cell(row, col int) byte {
	return b.grid.at(row, col)
}

// Row returns a copy of row i.
func (b *Buffer) Row(i int) []byte {
	out := make([]byte, b.grid.cols)
	copy(out, b.grid.row(i))
	return out
}

// Resize reallocates the grid when size differs from the current one.
// The new grid is empty and the cursor returns home. It reports whether
// anything changed.
func (b *Buffer) Resize(size pty.TerminalSize) bool {
	size = normalize(size)
	if size == b.Size() {
		return false
	}
	b.grid = newGrid(size)
	b.cursor = Cursor{}
	b.justWrapped = false
	return true
}

// Write feeds p through the state machine byte by byte. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch c {
		case cr:
			b.cursor.Col = 0
		case lf:
			if b.justWrapped {
				b.justWrapped = false
			} else {
				b.cursor.Row++
			}
		case bs, del:
			b.backspace()
		case esc:
			if n := b.escape.HandleEscape(b, p[i+1:]); n > 0 {
				i += min(n, len(p)-i-1)
			}
		default:
			b.put(c)
		}
		b.evict()
	}
	return len(p), nil
}

// put stores c under the cursor and advances, wrapping at the last column.
func (b *Buffer) put(c byte) {
	b.grid.set(b.cursor.Row, b.cursor.Col, c)
	b.cursor.Col++
	if b.cursor.Col >= b.grid.cols {
		b.cursor.Col = 0
		b.cursor.Row++
		b.justWrapped = true
	} else {
		b.justWrapped = false
	}
}

// backspace moves left one column and clears that cell. At column 0 it does nothing.
func (b *Buffer) backspace() {
	if b.cursor.Col == 0 {
		return
	}
	b.cursor.Col--
	b.grid.set(b.cursor.Row, b.cursor.Col, 0)
	b.justWrapped = false
}

// evict scrolls the grid up one row when the cursor has moved below it.
func (b *Buffer) evict() {
	if b.cursor.Row < b.grid.rows {
		return
	}
	b.grid.scrollUp()
	b.cursor.Row = b.grid.rows - 1
}

// MoveTo places the cursor, clamped to the grid. It exists for escape
// handlers; the byte stream itself never addresses the cursor.
func (b *Buffer) MoveTo(c Cursor) {
	b.cursor = Cursor{
		Col: clamp(c.Col, 0, b.grid.cols-1),
		Row: clamp(c.Row, 0, b.grid.rows-1),
	}
	b.justWrapped = false
}

// Clear empties the grid and homes the cursor.
func (b *Buffer) Clear() {
	b.grid.clear()
	b.cursor = Cursor{}
	b.justWrapped = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
