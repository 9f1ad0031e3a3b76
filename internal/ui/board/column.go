package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// renderColumn renders a kanban column with header and task cards
func renderColumn(col Column, index int, state State, width, height int, s *styles.Styles) string {
	isActive := index == state.Cursor.Column
	header := renderHeader(col, index, isActive, state, width, s)

	cardWidth := width - 4 // Account for column padding and card border
	var cardStrings []string
	for i, card := range col.Cards {
		isCursor := isActive && i == state.Cursor.Card
		cardStrings = append(cardStrings, renderCard(card, cardState{
			cursor:   isCursor,
			dragging: state.dragging(dnd.Card(card.ID)),
			target:   isCursor && state.Dragging != nil,
			pending:  state.pending(card.ID),
		}, cardWidth, s))
	}

	content := s.EmptyColumn.Render("(empty)")
	if len(cardStrings) > 0 {
		content = strings.Join(cardStrings, "\n")
	}

	body := s.Column.Width(width).MaxHeight(max(height-1, 1)).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderHeader renders "─ Title (n) ─────" in the column's color
func renderHeader(col Column, index int, isActive bool, state State, width int, s *styles.Styles) string {
	style := s.Header(styles.StageColor(col.Stage.Color, index), isActive)
	switch {
	case state.dragging(dnd.Column(col.Stage.ID)):
		style = s.ColumnDragging
	case isActive && state.Dragging != nil && state.Cursor.OnHeader():
		style = s.ColumnDropTarget
	}

	title := col.Stage.Name
	if state.pending(col.Stage.ID) {
		title += " …"
	}
	text := fmt.Sprintf("─ %s (%d) ", title, len(col.Cards))
	if remaining := width - lipgloss.Width(text) - 1; remaining > 0 {
		text += strings.Repeat("─", remaining)
	}
	return style.MaxWidth(width).Render(text)
}
