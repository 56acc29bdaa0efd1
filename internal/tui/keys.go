package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the progress display.
type KeyMap struct {
	Abort key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Abort: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// HelpText returns the one-line help shown under the progress bar.
func (k KeyMap) HelpText() string {
	return k.Abort.Help().Key + " " + k.Abort.Help().Desc
}
