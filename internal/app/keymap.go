package app

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the bindings shown in the footer help.
type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Select     key.Binding
	PlayPause  key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	OpenFolder key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play file"),
		),
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "seek -5s"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "seek +5s"),
		),
		OpenFolder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp satisfies help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.PlayPause, k.OpenFolder, k.Help, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.OpenFolder},
		{k.PlayPause, k.SeekBack, k.SeekFwd},
		{k.Help, k.Quit},
	}
}
