package ui

import (
	"todo/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all application styles for one mode (dark or light).
type Styles struct {
	Dark bool

	// Colors
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	AppStyle      lipgloss.Style
	TitleStyle    lipgloss.Style
	GreetingStyle lipgloss.Style
	NameStyle     lipgloss.Style
	DateStyle     lipgloss.Style
	StreakStyle   lipgloss.Style
	QuoteStyle    lipgloss.Style
	PaneStyle     lipgloss.Style

	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskMetaStyle       lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string
	EmptyStyle          lipgloss.Style

	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style

	ProgressFillStyle  lipgloss.Style
	ProgressEmptyStyle lipgloss.Style
	ProgressTextStyle  lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style

	StatusStyle  lipgloss.Style
	InfoStyle    lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	InputPromptStyle lipgloss.Style
	InputLabelStyle  lipgloss.Style
	InputActiveStyle lipgloss.Style
}

// NewStyles returns the dark and light styles for cfg's theme.
func NewStyles(cfg *config.Config) (dark, light *Styles) {
	return NewStylesFromTheme(&cfg.Theme, true), NewStylesFromTheme(&cfg.Theme, false)
}

// NewStylesFromTheme creates styles from a ThemeConfig for the given mode.
// Empty theme colors fall back to built-in defaults.
func NewStylesFromTheme(theme *config.ThemeConfig, dark bool) *Styles {
	s := &Styles{Dark: dark}

	s.ColorPrimary = colorOrDefault(theme.Primary, "#7C3AED")
	s.ColorAccent = colorOrDefault(theme.Accent, "#10B981")
	s.ColorMuted = colorOrDefault(theme.Muted, "#6B7280")
	s.ColorWarning = colorOrDefault(theme.Warning, "#F59E0B")

	// Fixed semantic colors
	s.ColorDanger = lipgloss.Color("#EF4444")
	s.ColorSuccess = lipgloss.Color("#10B981")

	if dark {
		s.ColorBg = colorOrDefault(theme.DarkBackground, "#1F2937")
		s.ColorBgLight = lipgloss.Color("#374151")
		s.ColorText = colorOrDefault(theme.DarkText, "#F9FAFB")
		s.ColorTextMuted = lipgloss.Color("#9CA3AF")
	} else {
		// An empty light background keeps the terminal's own.
		s.ColorBg = lipgloss.Color(theme.LightBackground)
		s.ColorBgLight = lipgloss.Color("#E5E7EB")
		s.ColorText = colorOrDefault(theme.LightText, "#111827")
		s.ColorTextMuted = lipgloss.Color("#4B5563")
	}

	s.initComponentStyles()
	return s
}

// colorOrDefault returns the lipgloss.Color from hex string, or default if empty.
func colorOrDefault(hex, defaultHex string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(defaultHex)
}

func (s *Styles) initComponentStyles() {
	s.AppStyle = lipgloss.NewStyle().Foreground(s.ColorText)
	if s.ColorBg != "" {
		s.AppStyle = s.AppStyle.Background(s.ColorBg)
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(s.ColorPrimary).
		Padding(0, 1)

	s.GreetingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorText)

	s.NameStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.ColorPrimary)

	s.DateStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.StreakStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)

	s.QuoteStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Italic(true).
		Padding(0, 1)

	s.PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(0, 1)

	s.TaskDoneStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Strikethrough(true)

	s.TaskPendingStyle = lipgloss.NewStyle().
		Foreground(s.ColorText)

	s.TaskSelectedStyle = lipgloss.NewStyle().
		Background(s.ColorBgLight).
		Foreground(s.ColorText).
		Bold(true)

	s.TaskMetaStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)

	s.TaskCheckboxDone = lipgloss.NewStyle().Foreground(s.ColorSuccess).Render("[✓]")
	s.TaskCheckboxPending = lipgloss.NewStyle().Foreground(s.ColorMuted).Render("[ ]")

	s.EmptyStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted).
		Italic(true)

	s.PriorityHighStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)
	s.PriorityMediumStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning)
	s.PriorityLowStyle = lipgloss.NewStyle().
		Foreground(s.ColorMuted)

	s.ProgressFillStyle = lipgloss.NewStyle().Foreground(s.ColorSuccess)
	s.ProgressEmptyStyle = lipgloss.NewStyle().Foreground(s.ColorBgLight)
	s.ProgressTextStyle = lipgloss.NewStyle().Foreground(s.ColorText)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)
	s.HelpKeyStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Bold(true)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.ColorSuccess).
		Italic(true)
	s.InfoStyle = lipgloss.NewStyle().
		Foreground(s.ColorAccent).
		Italic(true)
	s.WarningStyle = lipgloss.NewStyle().
		Foreground(s.ColorWarning).
		Bold(true)
	s.ErrorStyle = lipgloss.NewStyle().
		Foreground(s.ColorDanger).
		Bold(true)

	s.InputPromptStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)
	s.InputLabelStyle = lipgloss.NewStyle().
		Foreground(s.ColorTextMuted)
	s.InputActiveStyle = lipgloss.NewStyle().
		Foreground(s.ColorPrimary).
		Bold(true)
}

// PriorityStyle returns the badge style for a priority name.
func (s *Styles) PriorityStyle(p string) lipgloss.Style {
	switch p {
	case "high":
		return s.PriorityHighStyle
	case "medium":
		return s.PriorityMediumStyle
	default:
		return s.PriorityLowStyle
	}
}

// RenderHelp renders help text with key bindings using the given styles.
func (s *Styles) RenderHelp(keys ...string) string {
	var result string
	for i := 0; i+1 < len(keys); i += 2 {
		if i > 0 {
			result += "  "
		}
		result += s.HelpKeyStyle.Render("["+keys[i]+"]") + " " + s.HelpStyle.Render(keys[i+1])
	}
	return result
}
