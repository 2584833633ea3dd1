// Package tui renders the page: the review modal and toasts drawn over a
// small status screen.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"grammar_enhancer/overlay"
)

// Actions resolves a review; overlay.Manager implements it.
type Actions interface {
	Accept(id string) bool
	Cancel(id string) bool
}

type Config struct {
	Title string
	// Status is shown under the title, e.g. where triggers are accepted.
	Status string
	// OnShortcut runs when the keyboard command is pressed. Nil disables it.
	OnShortcut func()
	// ExitWhenIdle quits once every overlay has been shown and dismissed.
	ExitWhenIdle bool
}

const idleGrace = 150 * time.Millisecond

type idleCheckMsg struct{}

type Model struct {
	cfg     Config
	actions Actions

	review   *overlay.Overlay
	viewport viewport.Model
	toasts   []overlay.Overlay
	seen     bool

	width  int
	height int
}

func New(actions Actions, cfg Config) Model {
	if cfg.Title == "" {
		cfg.Title = "Grammar and Clarity Enhancer"
	}
	return Model{
		cfg:      cfg,
		actions:  actions,
		viewport: viewport.New(60, 10),
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// HasReview reports whether the review modal is shown.
func (m Model) HasReview() bool {
	return m.review != nil
}

// Toasts returns the visible toasts, oldest first.
func (m Model) Toasts() []overlay.Overlay {
	return m.toasts
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeViewport()
		return m, nil

	case mountMsg:
		m.seen = true
		o := msg.overlay
		switch o.Kind {
		case overlay.KindReview:
			m.review = &o
			m.resizeViewport()
			m.viewport.GotoTop()
		case overlay.KindToast:
			m.toasts = append(m.toasts, o)
		}
		return m, nil

	case unmountMsg:
		if m.review != nil && m.review.ID == msg.id {
			m.review = nil
		}
		for i, t := range m.toasts {
			if t.ID == msg.id {
				m.toasts = append(m.toasts[:i:i], m.toasts[i+1:]...)
				break
			}
		}
		return m, m.idleCheck()

	case idleCheckMsg:
		if m.cfg.ExitWhenIdle && m.seen && m.idle() {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.review != nil {
		id := m.review.ID
		switch {
		case key.Matches(msg, keys.Accept):
			return m, func() tea.Msg { m.actions.Accept(id); return nil }
		case key.Matches(msg, keys.Cancel):
			return m, func() tea.Msg { m.actions.Cancel(id); return nil }
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Shortcut):
		if m.cfg.OnShortcut != nil {
			fn := m.cfg.OnShortcut
			return m, func() tea.Msg { fn(); return nil }
		}
	}
	return m, nil
}

func (m Model) idle() bool {
	return m.review == nil && len(m.toasts) == 0
}

// idleCheck waits a moment before quitting: accepting a review unmounts it
// just before the outcome toast is mounted.
func (m Model) idleCheck() tea.Cmd {
	if !m.cfg.ExitWhenIdle || !m.idle() {
		return nil
	}
	return tea.Tick(idleGrace, func(time.Time) tea.Msg { return idleCheckMsg{} })
}

func (m *Model) resizeViewport() {
	w := m.modalWidth() - 6
	if w < 20 {
		w = 20
	}
	h := m.height - 12
	if h < 3 {
		h = 3
	}
	m.viewport.Width = w
	m.viewport.Height = h
	if m.review != nil {
		m.viewport.SetContent(lipgloss.NewStyle().Width(w).Render(renderDiff(m.review.Review.Segments)))
	}
}

func (m Model) modalWidth() int {
	w := m.width - 4
	if w > 100 {
		w = 100
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (m Model) View() string {
	var page strings.Builder
	page.WriteString(headerStyle.Render(m.cfg.Title))
	page.WriteString("\n")
	if m.cfg.Status != "" {
		page.WriteString(m.cfg.Status)
		page.WriteString("\n")
	}
	help := "q quit"
	if m.cfg.OnShortcut != nil {
		help = "ctrl+g improve selection • " + help
	}
	page.WriteString(helpStyle.Render(help))

	body := page.String()
	if m.review != nil {
		body = lipgloss.Place(m.width, m.height-len(m.toasts)-1, lipgloss.Center, lipgloss.Center, m.reviewView())
	}
	if len(m.toasts) == 0 {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.toastsView())
}

func (m Model) reviewView() string {
	title := titleStyle.Render("Grammar and Clarity Improvement")
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render("Cancel (esc)"), " ", activeButtonStyle.Render("Accept (enter)"))
	buttons = lipgloss.PlaceHorizontal(m.modalWidth()-6, lipgloss.Right, buttons)
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), "", buttons)
	return modalStyle.Width(m.modalWidth()).Render(content)
}

func (m Model) toastsView() string {
	lines := make([]string, 0, len(m.toasts))
	for _, t := range m.toasts {
		bg := successBg
		if t.Toast.Tone == overlay.ToneError {
			bg = errorBg
		}
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastStyle.Background(bg).Render(t.Toast.Message)))
	}
	return strings.Join(lines, "\n")
}
