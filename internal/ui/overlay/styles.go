package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	// Overlay is the base overlay container style
	Overlay lipgloss.Style
	// Title is the overlay title style
	Title lipgloss.Style
	// Label precedes an input field
	Label lipgloss.Style
	// Error shows validation problems
	Error lipgloss.Style
	// Category heads a group of keybindings
	Category lipgloss.Style
	MenuItem lipgloss.Style
	// MenuKey is the style for keybinding hints
	MenuKey lipgloss.Style
	// Footer is the style for overlay footer text
	Footer lipgloss.Style
}

// New creates a new Styles instance using the Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface2).
			Background(styles.Base).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(styles.Teal),

		Error: lipgloss.NewStyle().
			Foreground(styles.Red),

		Category: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		MenuItem: lipgloss.NewStyle().
			Foreground(styles.Text),

		MenuKey: lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),
	}
}
