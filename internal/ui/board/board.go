package board

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// MinColumnWidth is the narrowest a column is drawn. Boards with more
// columns than fit scroll horizontally to keep the cursor visible.
const MinColumnWidth = 26

// Render renders the visible part of the board
func Render(columns []Column, state State, s *styles.Styles, width, height int) string {
	if len(columns) == 0 {
		return s.EmptyColumn.Render("No stages in this stage set. Press A to add one.")
	}

	first, count := visibleRange(len(columns), state.Cursor.Column, width)
	columnWidth := width / count

	columnStrings := make([]string, 0, count)
	for i := first; i < first+count; i++ {
		columnStr := renderColumn(columns[i], i, state, columnWidth, height, s)
		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(columnWidth).MaxHeight(height).Render(columnStr)
		columnStrings = append(columnStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnStrings...)
}

// visibleRange returns the first visible column and how many fit in width
func visibleRange(total, cursor, width int) (first, count int) {
	count = max(1, width/MinColumnWidth)
	if count >= total {
		return 0, total
	}
	cursor = min(max(cursor, 0), total-1)
	first = cursor - count/2
	first = min(max(first, 0), total-count)
	return first, count
}
