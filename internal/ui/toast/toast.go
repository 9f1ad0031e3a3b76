// Package toast renders transient notifications over the board.
package toast

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/types"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// maxVisible caps how many toasts are stacked at once
const maxVisible = 3

// ToastRenderer handles rendering of toast notifications
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a new ToastRenderer with the given styles
func New(styles *styles.Styles) *ToastRenderer {
	return &ToastRenderer{
		styles: styles,
	}
}

// Render renders the newest toasts stacked in the bottom-right corner.
// Returns empty string if no toasts to display.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	if len(toasts) > maxVisible {
		toasts = toasts[len(toasts)-maxVisible:]
	}

	toastWidth := min(width/3, 48)
	if toastWidth < 16 {
		toastWidth = 16
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := r.styleForLevel(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(t.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// Prune returns the toasts still visible at now
func Prune(toasts []types.Toast, now time.Time) []types.Toast {
	var active []types.Toast
	for _, t := range toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	return active
}

// styleForLevel returns the appropriate style for a toast level
func (r *ToastRenderer) styleForLevel(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
