package mocks

import (
	"sync"

	"jterm/pkg/host"
	"jterm/pkg/layout"
	"jterm/pkg/screen"
)

// Presented is one frame handed to a MockBackend.
type Presented struct {
	Frame screen.Frame
	Font  layout.Font
}

// MockBackend is a scripted presentation back end. Tests push events with
// Send and inspect presented frames.
type MockBackend struct {
	Width  int
	Height int

	events chan host.Event

	mu        sync.Mutex
	presented []Presented
	inited    bool
	finied    bool
	initErr   error
	onPresent func(Presented)
}

// NewMockBackend creates a back end with a width×height pixel surface.
func NewMockBackend(width, height int) *MockBackend {
	return &MockBackend{
		Width:  width,
		Height: height,
		events: make(chan host.Event, 64),
	}
}

// FailInit makes Init return err.
func (m *MockBackend) FailInit(err error) {
	m.initErr = err
}

// OnPresent registers a callback run for every presented frame, from the
// host loop goroutine.
func (m *MockBackend) OnPresent(f func(Presented)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPresent = f
}

// Send queues an input event.
func (m *MockBackend) Send(ev host.Event) {
	m.events <- ev
}

func (m *MockBackend) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return m.initErr
	}
	m.inited = true
	return nil
}

func (m *MockBackend) Fini() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finied = true
}

func (m *MockBackend) SurfaceSize() (int, int) {
	return m.Width, m.Height
}

func (m *MockBackend) Events() <-chan host.Event {
	return m.events
}

func (m *MockBackend) Present(frame screen.Frame, font layout.Font) {
	m.mu.Lock()
	p := Presented{Frame: frame, Font: font}
	m.presented = append(m.presented, p)
	cb := m.onPresent
	m.mu.Unlock()

	if cb != nil {
		cb(p)
	}
}

// Presented returns all frames presented so far.
func (m *MockBackend) Presented() []Presented {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Presented(nil), m.presented...)
}

// Last returns the most recent frame, if any.
func (m *MockBackend) Last() (Presented, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.presented) == 0 {
		return Presented{}, false
	}
	return m.presented[len(m.presented)-1], true
}

// Lifecycle reports whether Init and Fini ran.
func (m *MockBackend) Lifecycle() (inited, finied bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inited, m.finied
}
