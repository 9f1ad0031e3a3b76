package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding represents a single keybinding entry
type KeyBinding struct {
	Key         string
	Description string
}

// KeyCategory represents a category of keybindings
type KeyCategory struct {
	Name     string
	Bindings []KeyBinding
}

// Categories lists every board keybinding
var Categories = []KeyCategory{
	{
		Name: "Navigate",
		Bindings: []KeyBinding{
			{"h/l ←/→", "previous / next column"},
			{"j/k ↓/↑", "next / previous card, k on the first card selects the header"},
			{"g / G", "column header / last card"},
		},
	},
	{
		Name: "Move",
		Bindings: []KeyBinding{
			{"Space", "pick up the card under the cursor"},
			{"P", "pick up the column under the cursor"},
			{"Enter", "drop onto the highlighted card or column header"},
			{"Esc", "put it back"},
		},
	},
	{
		Name: "Board",
		Bindings: []KeyBinding{
			{"a", "add a card to this column"},
			{"A", "add a column"},
			{"r", "refetch from the server"},
			{"?", "toggle this help"},
			{"q", "quit"},
		},
	},
}

// HelpOverlay displays keybinding reference
type HelpOverlay struct {
	styles *Styles
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{styles: New()}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q", "?":
			return h, closeOverlay
		}
	}
	return h, nil
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	var b strings.Builder
	for i, cat := range Categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h.styles.Category.Render(cat.Name + ":"))
		b.WriteString("\n")
		for _, binding := range cat.Bindings {
			key := h.styles.MenuKey.Width(10).Render(binding.Key)
			b.WriteString("  " + key + " " + h.styles.MenuItem.Render(binding.Description) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Keybindings"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	return 72, 22
}
