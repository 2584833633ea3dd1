package tui

import "github.com/charmbracelet/lipgloss"

var (
	textColor   = lipgloss.Color("#24292e")
	addedBg     = lipgloss.Color("#abf2bc")
	removedBg   = lipgloss.Color("#ffc0bd")
	successBg   = lipgloss.Color("#4CAF50")
	errorBg     = lipgloss.Color("#f44336")
	accentColor = lipgloss.Color("#4f46e5")

	addedStyle   = lipgloss.NewStyle().Background(addedBg).Foreground(textColor)
	removedStyle = lipgloss.NewStyle().Background(removedBg).Foreground(textColor).Strikethrough(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	buttonStyle       = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("#e5e7eb")).Foreground(textColor)
	activeButtonStyle = lipgloss.NewStyle().Padding(0, 2).Background(accentColor).Foreground(lipgloss.Color("#ffffff"))

	toastStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#ffffff"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)
