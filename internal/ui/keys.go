package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines key bindings for the status and help screens.
type KeyMap struct {
	Quit       key.Binding
	ToggleHelp key.Binding
	Pause      key.Binding
	Back       key.Binding
}

// DefaultKeys returns the default key bindings for the application.
func DefaultKeys() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		ToggleHelp: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "toggle help"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause/resume"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}
}

// NewHelpModel returns a configured help model.
func NewHelpModel() help.Model {
	return help.New()
}

// stateKeyMap adapts bindings to the current screen for contextual help.
type stateKeyMap struct {
	keys   KeyMap
	screen screen
}

// ForScreen returns a contextual key map implementing help.KeyMap.
func (k KeyMap) ForScreen(s screen) help.KeyMap {
	return stateKeyMap{keys: k, screen: s}
}

// ShortHelp implements help.KeyMap for contextual help (compact).
func (s stateKeyMap) ShortHelp() []key.Binding {
	switch s.screen {
	case screenHelp:
		return []key.Binding{s.keys.Back, s.keys.Quit}
	default:
		return []key.Binding{s.keys.Pause, s.keys.ToggleHelp, s.keys.Quit}
	}
}

// FullHelp implements help.KeyMap for contextual help (expanded).
func (s stateKeyMap) FullHelp() [][]key.Binding {
	switch s.screen {
	case screenHelp:
		return [][]key.Binding{{s.keys.Back, s.keys.ToggleHelp}, {s.keys.Quit}}
	default:
		return [][]key.Binding{{s.keys.Pause}, {s.keys.ToggleHelp, s.keys.Quit}}
	}
}
