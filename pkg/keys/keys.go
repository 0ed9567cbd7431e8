// Package keys translates host keyboard events into the bytes a shell
// expects on its terminal, and separates out the combinations the host
// handles itself (quit, zoom).
package keys

import (
	"unicode/utf8"
)

// Key identifies a non-character key. Character input uses KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
)

// Mod is a modifier bitmask.
type Mod int

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
)

// Event is one host keyboard event.
type Event struct {
	Key  Key
	Rune rune // set when Key is KeyRune
	Mod  Mod
}

// Action is what the host does with an event.
type Action struct {
	Bytes []byte // written to the PTY master when non-empty
	Quit  bool   // host shutdown requested
	Zoom  int    // scale steps to apply locally; never forwarded
}

// Forward reports whether the action carries bytes for the shell.
func (a Action) Forward() bool {
	return len(a.Bytes) > 0
}

var (
	csiUp    = []byte{0x1b, '[', 'A'}
	csiDown  = []byte{0x1b, '[', 'B'}
	csiRight = []byte{0x1b, '[', 'C'}
	csiLeft  = []byte{0x1b, '[', 'D'}
)

// Encode maps ev to an Action. Unrecognized events yield the zero Action.
func Encode(ev Event) Action {
	switch ev.Key {
	case KeyEscape:
		return Action{Quit: true}
	case KeyEnter:
		return bytesOf('\n')
	case KeyTab:
		return bytesOf('\t')
	case KeyBackspace:
		return bytesOf('\b')
	case KeyUp:
		return Action{Bytes: clone(csiUp)}
	case KeyDown:
		return Action{Bytes: clone(csiDown)}
	case KeyRight:
		return Action{Bytes: clone(csiRight)}
	case KeyLeft:
		return Action{Bytes: clone(csiLeft)}
	case KeyRune:
		a := encodeRune(ev)
		// alt sends the key prefixed with ESC, the way xterm's metaSendsEscape does
		if ev.Mod&ModAlt != 0 && a.Forward() {
			a.Bytes = append([]byte{0x1b}, a.Bytes...)
		}
		return a
	}
	return Action{}
}

func encodeRune(ev Event) Action {
	if ev.Mod&ModCtrl != 0 {
		return encodeCtrl(ev.Rune)
	}
	if !utf8.ValidRune(ev.Rune) {
		return Action{}
	}
	return Action{Bytes: utf8.AppendRune(nil, ev.Rune)}
}

// encodeCtrl handles control-modified characters: zoom keys stay local,
// letters become C0 codes, anything else is dropped.
func encodeCtrl(r rune) Action {
	switch {
	case r == '=' || r == '+':
		return Action{Zoom: 1}
	case r == '-':
		return Action{Zoom: -1}
	case r >= 'a' && r <= 'z':
		return bytesOf(byte(r-'a') + 1)
	case r >= 'A' && r <= 'Z':
		return bytesOf(byte(r) - 0x40)
	}
	return Action{}
}

func bytesOf(b ...byte) Action {
	return Action{Bytes: b}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
