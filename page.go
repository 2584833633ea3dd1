package main

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"grammar_enhancer/bridge"
	"grammar_enhancer/clipboard"
	"grammar_enhancer/coordinator"
	"grammar_enhancer/overlay"
	"grammar_enhancer/selection"
	"grammar_enhancer/trigger"
	"grammar_enhancer/tui"
)

// page is the terminal document. It hosts one frame per selection source;
// all frames draw their overlays on the same surface.
type page struct {
	surface  *tui.Surface
	overlays *overlay.Manager
	frames   []*coordinator.Coordinator
}

func (a *app) newPage(ch bridge.Channel, srcs ...selection.Source) (*page, error) {
	if len(srcs) == 0 {
		return nil, errors.New("page needs at least one selection source")
	}
	surface := tui.NewSurface()
	p := &page{
		surface: surface,
		overlays: overlay.NewManager(surface,
			overlay.WithToastDuration(a.cfg.ToastDuration()),
			overlay.WithLogger(a.logger.Named("overlay")),
		),
	}
	// With several frames every broadcast reaches all of them; only the
	// frame holding a selection answers.
	frame := coordinator.Frame{Embedded: len(srcs) > 1, MultiFrameHost: len(srcs) > 1}
	for _, src := range srcs {
		coord, err := coordinator.New(coordinator.Options{
			Channel:   ch,
			Selection: src,
			Overlays:  p.overlays,
			Clipboard: clipboard.System{},
			Fallback:  clipboard.OSC52{},
			Frame:     frame,
			Debounce:  a.cfg.Debounce(),
			Logger:    a.logger.Named("coordinator"),
		})
		if err != nil {
			p.Close()
			return nil, err
		}
		p.frames = append(p.frames, coord)
	}
	return p, nil
}

// register adds every frame to d and returns the function that removes them.
func (p *page) register(d *trigger.Dispatcher) func() {
	unregister := make([]func(), 0, len(p.frames))
	for _, f := range p.frames {
		unregister = append(unregister, d.Register(f))
	}
	return func() {
		for _, u := range unregister {
			u()
		}
	}
}

// program builds the terminal UI with the surface attached; it is not started.
func (p *page) program(cfg tui.Config) *tea.Program {
	prog := tea.NewProgram(tui.New(p.overlays, cfg), tea.WithAltScreen())
	p.surface.Attach(prog)
	return prog
}

// run blocks until the terminal UI exits.
func (p *page) run(cfg tui.Config) error {
	_, err := p.program(cfg).Run()
	return err
}

func (p *page) Close() {
	for _, f := range p.frames {
		f.Close()
	}
	p.overlays.Close()
	p.surface.Close()
}
