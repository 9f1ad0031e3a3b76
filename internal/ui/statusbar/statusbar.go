// Package statusbar renders the bottom line of the board.
package statusbar

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/types"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode   types.Mode
	width  int
	info   string
	styles *styles.Styles
}

// New creates a new StatusBar with the given mode, width, and styles
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		styles: styles,
	}
}

// WithInfo returns a copy showing info on the right, e.g. the project
// name and pending save count
func (sb StatusBar) WithInfo(info string) StatusBar {
	sb.info = info
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	badgeStyle := sb.styles.StatusMode
	if sb.mode == types.ModeDrag {
		badgeStyle = sb.styles.StatusDrag
	}
	parts := []string{badgeStyle.Render(sb.mode.String())}

	if hints := GetHints(sb.mode); hints != "" {
		parts = append(parts, sb.styles.Separator.Render(" │ "), sb.styles.StatusHint.Render(hints))
	}
	if sb.info != "" {
		parts = append(parts, sb.styles.Separator.Render(" │ "), sb.styles.StatusInfo.Render(sb.info))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
