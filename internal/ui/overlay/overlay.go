// Package overlay provides modal dialogs drawn over the board.
package overlay

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Overlay represents a modal overlay component
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// CloseOverlayMsg signals that the overlay should be closed
type CloseOverlayMsg struct{}

func closeOverlay() tea.Msg { return CloseOverlayMsg{} }

// Render draws o in a titled box centered in a width x height area
func Render(o Overlay, s *Styles, width, height int) string {
	w, _ := o.Size()
	w = min(w, max(width-4, 10))

	body := lipgloss.JoinVertical(lipgloss.Left, s.Title.Render(o.Title()), o.View())
	box := s.Overlay.Width(w).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
