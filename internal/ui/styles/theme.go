package styles

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Catppuccin Macchiato palette
var (
	// Base colors
	Base     = lipgloss.Color("#24273a")
	Mantle   = lipgloss.Color("#1e2030")
	Surface0 = lipgloss.Color("#363a4f")
	Surface1 = lipgloss.Color("#494d64")
	Surface2 = lipgloss.Color("#5b6078")
	Overlay0 = lipgloss.Color("#6e738d")
	Overlay1 = lipgloss.Color("#8087a2")
	Subtext0 = lipgloss.Color("#a5adcb")
	Text     = lipgloss.Color("#cad3f5")

	// Accent colors
	Mauve    = lipgloss.Color("#c6a0f6")
	Red      = lipgloss.Color("#ed8796")
	Peach    = lipgloss.Color("#f5a97f")
	Yellow   = lipgloss.Color("#eed49f")
	Green    = lipgloss.Color("#a6da95")
	Teal     = lipgloss.Color("#8bd5ca")
	Sapphire = lipgloss.Color("#7dc4e4")
	Blue     = lipgloss.Color("#8aadf4")
	Lavender = lipgloss.Color("#b7bdf8")
)

// StagePalette colors columns whose stage carries no color of its own,
// cycling by position
var StagePalette = []lipgloss.Color{
	Blue,
	Yellow,
	Peach,
	Mauve,
	Teal,
	Green,
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// StageColor returns the stage's own color when it is a valid hex value,
// otherwise the palette color for its position
func StageColor(color string, index int) lipgloss.Color {
	if hexColor.MatchString(color) {
		return lipgloss.Color(color)
	}
	if index < 0 {
		index = 0
	}
	return StagePalette[index%len(StagePalette)]
}
