package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Open      key.Binding
	Collapse  key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	CloseTab  key.Binding
	Save      key.Binding
	Focus     key.Binding
	Blur      key.Binding
	QuickOpen key.Binding
	Preview   key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:      key.NewBinding(key.WithKeys("enter", " ", "l", "right"), key.WithHelp("enter", "open/toggle")),
		Collapse:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "collapse")),
		NextTab:   key.NewBinding(key.WithKeys("]", "alt+]"), key.WithHelp("]", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("[", "alt+["), key.WithHelp("[", "prev tab")),
		CloseTab:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close tab")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "editor")),
		Blur:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "tree")),
		QuickOpen: key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "quick open")),
		Preview:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "preview")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Focus, k.QuickOpen, k.Save, k.CloseTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Collapse},
		{k.NextTab, k.PrevTab, k.CloseTab, k.Save},
		{k.Focus, k.Blur, k.QuickOpen, k.Preview},
		{k.Reload, k.Help, k.Quit},
	}
}
