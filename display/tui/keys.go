package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap implements help.KeyMap for the footer.
type keyMap struct {
	Quit     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Overview key.Binding
	Cores    key.Binding
	Pause    key.Binding
	Help     key.Binding
}

// ShortHelp returns the bindings shown by default.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextTab, k.Pause, k.Quit}
}

// FullHelp returns the bindings shown when help is expanded.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.Overview, k.Cores},
		{k.Pause, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	NextTab:  key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next view")),
	PrevTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev view")),
	Overview: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "overview")),
	Cores:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "cores")),
	Pause:    key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Bindings returns every dashboard key binding in help order.
func Bindings() []key.Binding {
	var all []key.Binding
	for _, group := range keys.FullHelp() {
		all = append(all, group...)
	}
	return all
}
