package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Stop    key.Binding
	Back    key.Binding
	Forward key.Binding
	VolUp   key.Binding
	VolDown key.Binding
	Variant key.Binding
	Suspend key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "play/pause"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-5s"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+5s"),
		),
		VolUp: key.NewBinding(
			key.WithKeys("+", "=", "up", "k"),
			key.WithHelp("+", "volume up"),
		),
		VolDown: key.NewBinding(
			key.WithKeys("-", "down", "j"),
			key.WithHelp("-", "volume down"),
		),
		Variant: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "switch view"),
		),
		Suspend: key.NewBinding(
			key.WithKeys("ctrl+z"),
			key.WithHelp("ctrl+z", "suspend"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Back, k.Forward, k.VolUp, k.Variant, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Back, k.Forward},
		{k.VolUp, k.VolDown, k.Variant},
		{k.Suspend, k.Help, k.Quit},
	}
}
