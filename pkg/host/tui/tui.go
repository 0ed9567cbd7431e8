// Package tui presents the terminal grid full-screen inside the host
// terminal using tcell, and turns tcell key, mouse and resize events into
// host events.
package tui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"jterm/pkg/host"
	"jterm/pkg/keys"
	"jterm/pkg/layout"
	"jterm/pkg/screen"
)

// Screen implements host.Backend on a tcell.Screen.
type Screen struct {
	screen tcell.Screen
	events chan host.Event
	quit   chan struct{}
	wg     sync.WaitGroup
}

// New creates a back end on the host terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell.NewScreen(): %w", err)
	}
	return NewWithScreen(s), nil
}

// NewWithScreen wraps an existing, uninitialized tcell screen.
func NewWithScreen(s tcell.Screen) *Screen {
	return &Screen{
		screen: s,
		events: make(chan host.Event, 64),
		quit:   make(chan struct{}),
	}
}

func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("screen.Init(): %w", err)
	}
	s.screen.EnableMouse()
	s.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)

	s.wg.Add(1)
	go s.pump()
	return nil
}

func (s *Screen) Fini() {
	close(s.quit)
	s.screen.Fini()
	s.wg.Wait()
}

// pump forwards tcell events until the screen is finalized.
func (s *Screen) pump() {
	defer s.wg.Done()

	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}

		out, ok := convertEvent(ev)
		if !ok {
			continue
		}

		select {
		case s.events <- out:
		case <-s.quit:
			return
		}
	}
}

func (s *Screen) SurfaceSize() (int, int) {
	w, h := s.screen.Size()
	return layout.SurfaceFor(w, h)
}

func (s *Screen) Events() <-chan host.Event {
	return s.events
}

// Present draws the frame at the top-left corner; cells beyond the host
// terminal are clipped.
func (s *Screen) Present(frame screen.Frame, font layout.Font) {
	s.screen.Clear()

	style := fontStyle(font)
	for r, row := range frame.Rows {
		for c, cell := range row {
			g, ok := host.Glyph(cell)
			if !ok {
				continue
			}
			s.screen.SetContent(c, r, g, nil, style)
		}
	}

	s.screen.ShowCursor(frame.Cursor.Col, frame.Cursor.Row)
	s.screen.Show()
}

// fontStyle gives each font variant a distinct look, since a character
// cell terminal cannot switch typefaces.
func fontStyle(f layout.Font) tcell.Style {
	switch f {
	case layout.FontKC854:
		return tcell.StyleDefault.Bold(true)
	case layout.FontZ1013:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	}
	return tcell.StyleDefault
}

// convertEvent converts tcell events to host events.
func convertEvent(ev tcell.Event) (host.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k, ok := convertKey(e)
		if !ok {
			return host.Event{}, false
		}
		return host.Event{Type: host.EventKey, Key: k}, true

	case *tcell.EventMouse:
		buttons := e.Buttons()
		switch {
		case buttons&tcell.WheelUp != 0:
			return host.Event{Type: host.EventScroll, Scroll: 1}, true
		case buttons&tcell.WheelDown != 0:
			return host.Event{Type: host.EventScroll, Scroll: -1}, true
		}
		return host.Event{}, false

	case *tcell.EventResize:
		w, h := e.Size()
		pw, ph := layout.SurfaceFor(w, h)
		return host.Event{Type: host.EventResize, Width: pw, Height: ph}, true
	}

	return host.Event{}, false
}

// convertKey converts a tcell key event. Control letters arrive either as
// KeyCtrlA..KeyCtrlZ or as runes with ModCtrl depending on the terminal;
// both end up as control-modified runes.
func convertKey(e *tcell.EventKey) (keys.Event, bool) {
	mod := convertMod(e.Modifiers())

	switch k := e.Key(); {
	case k == tcell.KeyRune:
		return keys.Event{Key: keys.KeyRune, Rune: e.Rune(), Mod: mod}, true
	case k == tcell.KeyEnter:
		return keys.Event{Key: keys.KeyEnter, Mod: mod}, true
	case k == tcell.KeyTab:
		return keys.Event{Key: keys.KeyTab, Mod: mod}, true
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return keys.Event{Key: keys.KeyBackspace, Mod: mod}, true
	case k == tcell.KeyEscape:
		return keys.Event{Key: keys.KeyEscape, Mod: mod}, true
	case k == tcell.KeyUp:
		return keys.Event{Key: keys.KeyUp, Mod: mod}, true
	case k == tcell.KeyDown:
		return keys.Event{Key: keys.KeyDown, Mod: mod}, true
	case k == tcell.KeyRight:
		return keys.Event{Key: keys.KeyRight, Mod: mod}, true
	case k == tcell.KeyLeft:
		return keys.Event{Key: keys.KeyLeft, Mod: mod}, true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return keys.Event{Key: keys.KeyRune, Rune: 'a' + rune(k-tcell.KeyCtrlA), Mod: mod | keys.ModCtrl}, true
	case k == tcell.KeyCtrlUnderscore:
		return keys.Event{Key: keys.KeyRune, Rune: '-', Mod: mod | keys.ModCtrl}, true
	}

	return keys.Event{}, false
}

func convertMod(m tcell.ModMask) keys.Mod {
	var out keys.Mod
	if m&tcell.ModShift != 0 {
		out |= keys.ModShift
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		out |= keys.ModAlt
	}
	if m&tcell.ModCtrl != 0 {
		out |= keys.ModCtrl
	}
	return out
}
