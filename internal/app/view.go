package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/ui/board"
	"github.com/riordanpawley/wbsboard/internal/ui/statusbar"
	"github.com/riordanpawley/wbsboard/internal/ui/toast"
)

// View renders the current state as a string
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	bodyHeight := max(m.height-1, 1)
	var body string
	switch {
	case !m.overlayStack.IsEmpty():
		body = m.overlayStack.View(m.overlayStyles, m.width, bodyHeight)
	case m.loading && !m.loaded && m.columnsErr == nil && m.tasksErr == nil:
		body = m.renderLoading(bodyHeight)
	case m.disabled:
		body = m.renderMessage(bodyHeight, "No stage set",
			"Project "+m.backend.Project().ID+" has no task stage set, so there is no board to show.")
	case m.columnsErr != nil || m.tasksErr != nil:
		body = m.renderError(bodyHeight)
	default:
		body = m.renderBoard(bodyHeight)
	}

	if toastView := toast.New(m.styles).Render(m.toasts, m.width); toastView != "" {
		// toasts take the bottom rows of the body
		toastHeight := lipgloss.Height(toastView)
		body = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().MaxHeight(max(bodyHeight-toastHeight, 0)).Render(body),
			lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toastView),
		)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	sb := statusbar.New(m.Mode(), m.width, m.styles).WithInfo(m.statusInfo())
	return lipgloss.JoinVertical(lipgloss.Left, body, sb.Render())
}

func (m Model) renderBoard(height int) string {
	columns := m.columns()
	state := board.State{
		Cursor:    m.nav.GetPosition(columns),
		IsPending: func(id string) bool { _, ok := m.pending.Lookup(id); return ok },
	}
	if active, ok := m.session.Active(); ok {
		state.Dragging = &active
	}
	return board.Render(columns, state, m.styles, m.width, height)
}

// renderLoading renders a centered loading spinner with message
func (m Model) renderLoading(height int) string {
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		m.spinner.View(),
		m.styles.Loading.Render("Loading board..."),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderError(height int) string {
	var lines []string
	if m.columnsErr != nil {
		lines = append(lines, "Stages: "+m.columnsErr.Error())
	}
	if m.tasksErr != nil {
		lines = append(lines, "Work items: "+m.tasksErr.Error())
	}
	lines = append(lines, "", "Press r to retry or q to quit.")
	return m.renderMessage(height, "Could not load the board", strings.Join(lines, "\n"))
}

func (m Model) renderMessage(height int, title, text string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ErrorTitle.Render(title),
		"",
		m.styles.ErrorText.Width(min(m.width-4, 80)).Render(text),
	)
	return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) statusInfo() string {
	project := m.backend.Project()
	name := project.Name
	if name == "" {
		name = project.ID
	}
	parts := []string{name}
	if active, ok := m.session.Active(); ok {
		parts = append(parts, "moving "+describe(active, m.state.Board()))
	}
	if n := m.queue.Pending() + m.pending.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d saving", n))
	}
	if m.loading && m.loaded {
		parts = append(parts, "refreshing")
	}
	return strings.Join(parts, " · ")
}

func describe(item dnd.Item, b dnd.Board) string {
	switch item.Kind {
	case dnd.KindColumn:
		if i := domain.FindStage(b.Columns, item.ID); i >= 0 {
			return "column " + b.Columns[i].Name
		}
	case dnd.KindCard:
		if i := domain.FindWorkItem(b.Tasks, item.ID); i >= 0 {
			return "card " + b.Tasks[i].Title
		}
	}
	return item.String()
}
