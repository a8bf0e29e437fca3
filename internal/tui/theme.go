package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colors the canvas and chrome render with.
type Theme struct {
	Background   string
	EdgeColor    string
	LabelColor   string
	DividerColor string
	AccentColor  string
}

func darkTheme() Theme {
	return Theme{
		Background:   "#101014",
		EdgeColor:    "#3a3a44",
		LabelColor:   "#9a9aa8",
		DividerColor: "#303038",
		AccentColor:  "#7aa2f7",
	}
}

func lightTheme() Theme {
	return Theme{
		Background:   "#fafafa",
		EdgeColor:    "#c8c8d0",
		LabelColor:   "#52525e",
		DividerColor: "#d8d8e0",
		AccentColor:  "#3b5bdb",
	}
}

// ThemeByName resolves a preset name, defaulting to dark.
func ThemeByName(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}

// background returns the parsed background color for blending.
func (t Theme) background() colorful.Color {
	c, err := colorful.Hex(t.Background)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// Faded blends a hex color toward the background by 1-opacity, which
// is how node decay becomes visible on a terminal without real alpha.
func (t Theme) Faded(hex string, opacity float64) string {
	if opacity >= 1 {
		return hex
	}
	if opacity < 0 {
		opacity = 0
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return t.background().BlendRgb(c, opacity).Hex()
}

func (t Theme) DividerText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.DividerColor)).Render(s)
}

func (t Theme) LabelText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.LabelColor)).Render(s)
}

func (t Theme) AccentText(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.AccentColor)).Bold(true).Render(s)
}
