package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Add     key.Binding
	Status  key.Binding
	Move    key.Binding
	Delete  key.Binding
	Archive key.Binding
	Save    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev sprint")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next sprint")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev story")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next story")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add story")),
		Status:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		Move:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to next sprint")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete story")),
		Archive: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "archive sprint")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save now")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Status, k.Move, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Add, k.Status, k.Move, k.Delete, k.Archive},
		{k.Save, k.Help, k.Quit},
	}
}
