package keys

import "unicode/utf8"

// Decode splits raw bytes read from a host terminal in raw mode into
// events. A lone ESC at the end of the chunk is the Escape key; ESC [ or
// ESC O followed by A-D are arrow keys; other escape sequences are
// skipped. C0 codes become control-modified letters, except the ones that
// name Enter, Tab and Backspace.
func Decode(p []byte) []Event {
	var out []Event
	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case c == 0x1b:
			ev, n := decodeEscape(p[i:])
			if ev.Key != KeyNone {
				out = append(out, ev)
			}
			i += n
		case c == '\r' || c == '\n':
			out = append(out, Event{Key: KeyEnter})
			i++
		case c == '\t':
			out = append(out, Event{Key: KeyTab})
			i++
		case c == 0x08 || c == 0x7f:
			out = append(out, Event{Key: KeyBackspace})
			i++
		case c >= 0x01 && c <= 0x1a:
			out = append(out, Event{Key: KeyRune, Rune: rune('a' + c - 1), Mod: ModCtrl})
			i++
		case c == 0x1f:
			// what most terminals send for control-minus
			out = append(out, Event{Key: KeyRune, Rune: '-', Mod: ModCtrl})
			i++
		case c < 0x20:
			i++
		default:
			r, n := utf8.DecodeRune(p[i:])
			if r != utf8.RuneError || n > 1 {
				out = append(out, Event{Key: KeyRune, Rune: r})
			}
			i += n
		}
	}
	return out
}

// decodeEscape consumes one escape sequence starting at p[0] == ESC.
func decodeEscape(p []byte) (Event, int) {
	if len(p) == 1 {
		return Event{Key: KeyEscape}, 1
	}

	switch p[1] {
	case '[', 'O':
		if len(p) < 3 {
			return Event{}, 2
		}
		switch p[2] {
		case 'A':
			return Event{Key: KeyUp}, 3
		case 'B':
			return Event{Key: KeyDown}, 3
		case 'C':
			return Event{Key: KeyRight}, 3
		case 'D':
			return Event{Key: KeyLeft}, 3
		}
		// skip parameters up to the final byte
		n := 2
		for n < len(p) && (p[n] < 0x40 || p[n] > 0x7e) {
			n++
		}
		if n < len(p) {
			n++
		}
		return Event{}, n
	case 0x1b:
		// double ESC: the first one stands alone
		return Event{Key: KeyEscape}, 1
	}

	// ESC followed by a character is alt-modified input
	r, n := utf8.DecodeRune(p[1:])
	return Event{Key: KeyRune, Rune: r, Mod: ModAlt}, 1 + n
}
