package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings handled before keys reach the editor
type keyMap struct {
	Execute  key.Binding
	Focus    key.Binding
	Pretty   key.Binding
	Template key.Binding
	Pager    key.Binding
	Help     key.Binding
	Quit     key.Binding
	Close    key.Binding // quits, response pane only
}

func newKeyMap() keyMap {
	return keyMap{
		Execute: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "execute query"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "editor/response"),
		),
		Pretty: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pretty json"),
		),
		Template: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "select template"),
		),
		Pager: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open in pager"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Close: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q/esc", "quit (response pane)"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Execute, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Execute, k.Template, k.Pretty},
		{k.Focus, k.Pager, k.Close},
		{k.Help, k.Quit},
	}
}
