package ui

import (
	"strings"
	"testing"

	"todo/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary:         "#FF0000",
		Accent:          "#00FF00",
		Muted:           "#0000FF",
		DarkBackground:  "#000000",
		DarkText:        "#FFFFFF",
		LightBackground: "#FAFAFA",
		LightText:       "#101010",
	}

	dark := NewStylesFromTheme(theme, true)
	if dark.ColorPrimary != lipgloss.Color("#FF0000") {
		t.Errorf("ColorPrimary = %v, want #FF0000", dark.ColorPrimary)
	}
	if dark.ColorAccent != lipgloss.Color("#00FF00") {
		t.Errorf("ColorAccent = %v, want #00FF00", dark.ColorAccent)
	}
	if dark.ColorMuted != lipgloss.Color("#0000FF") {
		t.Errorf("ColorMuted = %v, want #0000FF", dark.ColorMuted)
	}
	if dark.ColorBg != lipgloss.Color("#000000") || dark.ColorText != lipgloss.Color("#FFFFFF") {
		t.Errorf("dark bg/text = %v/%v", dark.ColorBg, dark.ColorText)
	}

	light := NewStylesFromTheme(theme, false)
	if light.ColorBg != lipgloss.Color("#FAFAFA") || light.ColorText != lipgloss.Color("#101010") {
		t.Errorf("light bg/text = %v/%v", light.ColorBg, light.ColorText)
	}
	if light.ColorPrimary != dark.ColorPrimary {
		t.Error("modes should share the accent colors")
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	dark := NewStylesFromTheme(&config.ThemeConfig{}, true)
	if dark.ColorPrimary != lipgloss.Color("#7C3AED") {
		t.Errorf("ColorPrimary = %v, want default #7C3AED", dark.ColorPrimary)
	}
	if dark.ColorBg != lipgloss.Color("#1F2937") {
		t.Errorf("dark ColorBg = %v, want #1F2937", dark.ColorBg)
	}

	light := NewStylesFromTheme(&config.ThemeConfig{}, false)
	if light.ColorBg != "" {
		t.Errorf("light ColorBg = %v, want terminal default", light.ColorBg)
	}
	if light.Dark || !dark.Dark {
		t.Error("Dark flag not set per mode")
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	dark, light := NewStyles(config.Default())
	if !dark.Dark || light.Dark {
		t.Error("NewStyles returned modes in the wrong order")
	}
}

func TestRenderHelp(t *testing.T) {
	setupTest(t)
	s := createTestStyles()

	got := s.RenderHelp("a", "add", "?", "help")
	if got != "[a] add  [?] help" {
		t.Errorf("RenderHelp() = %q", got)
	}
	if s.RenderHelp("dangling") != "" {
		t.Error("odd key list should render nothing for the unpaired key")
	}
}

func TestPriorityStyle(t *testing.T) {
	setupTest(t)
	s := createTestStyles()
	for _, p := range []string{"low", "medium", "high"} {
		if out := s.PriorityStyle(p).Render(p); !strings.Contains(out, p) {
			t.Errorf("PriorityStyle(%q) rendered %q", p, out)
		}
	}
}
