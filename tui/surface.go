package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"grammar_enhancer/overlay"
)

type mountMsg struct{ overlay overlay.Overlay }

type unmountMsg struct{ id string }

// Surface is the overlay.Document backed by a running bubbletea program.
// Messages are forwarded in order by a single pump goroutine so Mount and
// Unmount may be called from inside Update without deadlocking.
type Surface struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func NewSurface() *Surface {
	return &Surface{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

// Attach starts forwarding to p. Messages sent before Attach are buffered.
func (s *Surface) Attach(p *tea.Program) {
	go func() {
		for {
			select {
			case msg := <-s.ch:
				p.Send(msg)
			case <-s.done:
				return
			}
		}
	}()
}

func (s *Surface) Mount(o overlay.Overlay) {
	s.send(mountMsg{overlay: o})
}

func (s *Surface) Unmount(id string) {
	s.send(unmountMsg{id: id})
}

func (s *Surface) send(msg tea.Msg) {
	select {
	case s.ch <- msg:
	case <-s.done:
	}
}

// Close stops the pump; later Mount/Unmount calls are dropped.
func (s *Surface) Close() {
	s.once.Do(func() { close(s.done) })
}
