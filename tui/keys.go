package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept    key.Binding
	Cancel    key.Binding
	Shortcut  key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Accept:    key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter/a", "accept")),
	Cancel:    key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc/c", "cancel")),
	Shortcut:  key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "improve selection")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
}
