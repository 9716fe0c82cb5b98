package ui

import (
	"strings"

	"todo/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		if trimmed := strings.TrimSpace(k); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultKeys
	}
	return result
}

// binding builds a key.Binding whose help label is its first key.
func binding(keys []string, desc string) key.Binding {
	label := keys[0]
	if label == " " {
		label = "space"
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// GlobalKeyMap defines keys available outside of text input.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	DarkMode key.Binding
	Export   key.Binding
	Clear    key.Binding
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:     binding(parseKeys(cfg.Quit, "q", "ctrl+c"), "quit"),
		Help:     binding(parseKeys(cfg.Help, "?"), "help"),
		DarkMode: binding(parseKeys(cfg.DarkMode, "t"), "dark/light"),
		Export:   binding(parseKeys(cfg.Export, "E"), "export"),
		Clear:    binding(parseKeys(cfg.Clear, "C"), "clear completed"),
	}
}

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     binding(parseKeys(cfg.Up, "k", "up"), "up"),
		Down:   binding(parseKeys(cfg.Down, "j", "down"), "down"),
		Top:    binding(parseKeys(cfg.Top, "g", "home"), "top"),
		Bottom: binding(parseKeys(cfg.Bottom, "G", "end"), "bottom"),
	}
}

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm:   binding(parseKeys(cfg.Confirm, "enter"), "save"),
		Cancel:    binding(parseKeys(cfg.Cancel, "esc"), "cancel"),
		NextField: binding([]string{"tab"}, "next field"),
		PrevField: binding([]string{"shift+tab"}, "previous field"),
		Cycle:     binding([]string{" ", "left", "right"}, "change priority"),
	}
}

// TaskKeyMap defines keys for the task list.
type TaskKeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	NavigationKeyMap
}

// NewTaskKeyMap creates task key bindings from config.
func NewTaskKeyMap(cfg *config.KeysConfig) TaskKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TaskKeyMap{
		Add:              binding(parseKeys(cfg.Add, "a"), "add task"),
		Toggle:           binding(parseKeys(cfg.Toggle, " ", "d"), "done/undo"),
		Edit:             binding(parseKeys(cfg.Edit, "e", "enter"), "edit"),
		Delete:           binding(parseKeys(cfg.Delete, "x"), "delete"),
		Search:           binding(parseKeys(cfg.Search, "/"), "search"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp implements help.KeyMap.
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Search}
}

// FullHelp implements help.KeyMap.
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Toggle, k.Edit, k.Delete, k.Search},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
