package screen

// EscapeHandler interprets the bytes following an ESC. It receives the rest
// of the current chunk and returns how many of those bytes it consumed;
// consumed bytes are not fed to the grid. The ESC byte itself is never
// stored.
type EscapeHandler interface {
	HandleEscape(b *Buffer, rest []byte) int
}

// EscapeFunc adapts a function to EscapeHandler.
type EscapeFunc func(b *Buffer, rest []byte) int

// HandleEscape calls f.
func (f EscapeFunc) HandleEscape(b *Buffer, rest []byte) int {
	return f(b, rest)
}

// NopEscape recognizes no sequences. The shell runs with TERM=dumb, so
// sequences are rare and passed through as ordinary bytes.
type NopEscape struct{}

// HandleEscape consumes nothing.
func (NopEscape) HandleEscape(*Buffer, []byte) int {
	return 0
}
