package board

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

type cardState struct {
	cursor   bool
	dragging bool
	target   bool
	pending  bool
}

// renderCard renders a work item card
func renderCard(item domain.WorkItem, st cardState, width int, s *styles.Styles) string {
	cardStyle := s.Card
	switch {
	case st.dragging:
		cardStyle = s.CardDragging
	case st.target:
		cardStyle = s.CardDropTarget
	case st.pending:
		cardStyle = s.CardPending
	case st.cursor:
		cardStyle = s.CardActive
	}
	cardStyle = cardStyle.Width(width)

	// Cursor indicator (▶ symbol when cursor is on this card)
	cursor := ""
	if st.cursor {
		cursor = "▶ "
	}
	title := s.TaskTitle.Render(ansi.Truncate(cursor+item.Title, max(width-2, 1), "…"))

	badge := s.OrderBadge.Render("#" + strconv.Itoa(item.Order))
	meta := badge
	if st.pending {
		meta = lipgloss.JoinHorizontal(lipgloss.Left, badge, " saving…")
	} else if item.ID != "" {
		meta = lipgloss.JoinHorizontal(lipgloss.Left, badge, " ", s.TaskID.Render(ansi.Truncate(item.ID, max(width-10, 1), "…")))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, meta))
}
