package screen

import "jterm/pkg/pty"

// Frame is what a presentation back end draws: rows 0 through the cursor
// row, and the cursor. Rows below the cursor are always empty and omitted.
type Frame struct {
	Size   pty.TerminalSize
	Rows   [][]byte
	Cursor Cursor
}

// Frame snapshots the visible part of the buffer. The result shares no
// memory with b.
func (b *Buffer) Frame() Frame {
	rows := make([][]byte, b.cursor.Row+1)
	for i := range rows {
		rows[i] = b.Row(i)
	}
	return Frame{
		Size:   b.Size(),
		Rows:   rows,
		Cursor: b.cursor,
	}
}

// Text renders row as a string, stopping at trailing empty cells and
// showing interior empty cells as spaces.
func Text(row []byte) string {
	end := len(row)
	for end > 0 && row[end-1] == 0 {
		end--
	}
	out := make([]byte, end)
	for i, c := range row[:end] {
		if c == 0 {
			c = ' '
		}
		out[i] = c
	}
	return string(out)
}

// Equal reports whether two frames would draw identically.
func (f Frame) Equal(o Frame) bool {
	if f.Size != o.Size || f.Cursor != o.Cursor || len(f.Rows) != len(o.Rows) {
		return false
	}
	for i := range f.Rows {
		if string(f.Rows[i]) != string(o.Rows[i]) {
			return false
		}
	}
	return true
}
