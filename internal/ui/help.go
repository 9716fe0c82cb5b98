package ui

import (
	"strings"

	"todo/internal/config"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	global GlobalKeyMap
	tasks  TaskKeyMap
	input  InputKeyMap
}

// NewHelpOverlay creates a help overlay listing the configured keys.
func NewHelpOverlay(styles *Styles, keys *config.KeysConfig) *HelpOverlay {
	return &HelpOverlay{
		styles: styles,
		global: NewGlobalKeyMap(keys),
		tasks:  NewTaskKeyMap(keys),
		input:  NewInputKeyMap(keys),
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetStyles switches the overlay to another palette.
func (h *HelpOverlay) SetStyles(s *Styles) { h.styles = s }

// keyLabel lists every key of a binding, as in "j / down".
func keyLabel(b key.Binding) string {
	keys := b.Keys()
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			k = "space"
		}
		labels = append(labels, k)
	}
	return strings.Join(labels, " / ")
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(16)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	line := func(k key.Binding, desc string) {
		b.WriteString(keyStyle.Render(keyLabel(k)) + descStyle.Render(desc) + "\n")
	}
	section := func(name string) {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("todo - Keyboard Shortcuts"))
	b.WriteString("\n")

	section("Tasks")
	line(h.tasks.Add, "Add task")
	line(h.tasks.Toggle, "Mark done / undo")
	line(h.tasks.Edit, "Edit text")
	line(h.tasks.Delete, "Delete task")
	line(h.tasks.Search, "Search")
	line(h.tasks.Up, "Move up")
	line(h.tasks.Down, "Move down")
	line(h.tasks.Top, "Go to top")
	line(h.tasks.Bottom, "Go to bottom")

	section("List")
	line(h.global.Clear, "Clear completed")
	line(h.global.Export, "Export to "+ExportFileName)
	line(h.global.DarkMode, "Dark / light mode")
	line(h.global.Help, "Toggle help")
	line(h.global.Quit, "Quit")

	section("Input Mode")
	line(h.input.Confirm, "Save")
	line(h.input.Cancel, "Cancel")
	line(h.input.NextField, "Next field")
	line(h.input.Cycle, "Change priority")

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}
