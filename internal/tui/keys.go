package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Play    key.Binding
	Step    key.Binding
	Jump    key.Binding
	Speed   key.Binding
	Restart key.Binding
	Edit    key.Binding
	Run     key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

// newKeyMap builds the bindings. Edit is enabled only when the model can
// start runs.
func newKeyMap(editable bool) keyMap {
	k := keyMap{
		Play:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Step:    key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "step")),
		Jump:    key.NewBinding(key.WithKeys("shift+left", "shift+right"), key.WithHelp("shift+←/→", "first/last")),
		Speed:   key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "faster/slower")),
		Restart: key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "restart")),
		Edit:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit input")),
		Run:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.Edit.SetEnabled(editable)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Step, k.Jump, k.Speed, k.Restart, k.Edit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// editingHelp is shown while the input field has focus.
type editingHelp struct{ keys keyMap }

func (e editingHelp) ShortHelp() []key.Binding  { return []key.Binding{e.keys.Run, e.keys.Cancel} }
func (e editingHelp) FullHelp() [][]key.Binding { return [][]key.Binding{e.ShortHelp()} }
