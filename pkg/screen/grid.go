package screen

import (
	"fmt"

	"jterm/pkg/pty"
)

// grid is a row-major cols×rows byte matrix. Every access is bounds
// checked; an out-of-range index is a programming error and panics.
type grid struct {
	cols  int
	rows  int
	cells []byte
}

func normalize(size pty.TerminalSize) pty.TerminalSize {
	if size.Cols < 1 {
		size.Cols = 1
	}
	if size.Rows < 1 {
		size.Rows = 1
	}
	return size
}

func newGrid(size pty.TerminalSize) *grid {
	size = normalize(size)
	return &grid{
		cols:  size.Cols,
		rows:  size.Rows,
		cells: make([]byte, size.Cols*size.Rows),
	}
}

func (g *grid) index(row, col int) int {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("screen: cell (%d,%d) outside %dx%d grid", row, col, g.cols, g.rows))
	}
	return row*g.cols + col
}

func (g *grid) at(row, col int) byte {
	return g.cells[g.index(row, col)]
}

func (g *grid) set(row, col int, c byte) {
	g.cells[g.index(row, col)] = c
}

func (g *grid) row(i int) []byte {
	start := g.index(i, 0)
	return g.cells[start : start+g.cols]
}

// scrollUp discards row 0, shifts the rest up and empties the last row.
func (g *grid) scrollUp() {
	copy(g.cells, g.cells[g.cols:])
	clear(g.row(g.rows - 1))
}

func (g *grid) clear() {
	clear(g.cells)
}
