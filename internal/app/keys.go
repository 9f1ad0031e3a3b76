package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/pending"
	"github.com/riordanpawley/wbsboard/internal/ui/overlay"
)

// handleKey processes keyboard input based on current mode
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.loaded || m.disabled || m.columnsErr != nil || m.tasksErr != nil {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			return m.refetch()
		}
		return m, nil
	}

	if m.session.Phase() == dnd.PhaseDragging {
		return m.handleDragMode(msg)
	}
	return m.handleNormalMode(msg)
}

// handleNormalMode processes keyboard input in normal mode
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	columns := m.columns()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.nav.MoveDown(columns)
	case "k", "up":
		m.nav.MoveUp(columns)
	case "h", "left":
		m.nav.MoveLeft(columns)
	case "l", "right":
		m.nav.MoveRight(columns)
	case "g":
		m.nav.GotoTop(columns)
	case "G":
		m.nav.GotoBottom(columns)

	case " ":
		target := m.nav.Target(columns)
		if target == nil || target.Kind != dnd.KindCard {
			return m, nil
		}
		return m.pickUp(*target)

	case "P":
		col, ok := m.nav.CurrentColumn(columns)
		if !ok {
			return m, nil
		}
		m.nav.GotoTop(columns)
		return m.pickUp(dnd.Column(col.Stage.ID))

	case "a":
		col, ok := m.nav.CurrentColumn(columns)
		if !ok {
			m.addToast(ToastInfo, "Add a column first")
			return m, nil
		}
		if pending.IsTemp(col.Stage.ID) {
			m.addToast(ToastWarning, "Column is still being saved")
			return m, nil
		}
		return m, m.overlayStack.Push(overlay.NewAddCardOverlay(col.Stage.ID, col.Stage.Name))

	case "A":
		return m, m.overlayStack.Push(overlay.NewAddColumnOverlay())

	case "r":
		return m.refetch()

	case "?":
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())
	}
	return m, nil
}

// handleDragMode moves the drop target, drops, or cancels
func (m Model) handleDragMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	columns := m.columns()
	active, _ := m.session.Active()
	columnDrag := active.Kind == dnd.KindColumn

	switch msg.String() {
	case "esc":
		m.session.Cancel()
		m.nav.Select(active)
	case "enter":
		return m.drop()
	case "j", "down":
		if !columnDrag {
			m.nav.MoveDown(columns)
		}
	case "k", "up":
		if !columnDrag {
			m.nav.MoveUp(columns)
		}
	case "h", "left":
		m.nav.MoveLeft(columns)
		if columnDrag {
			m.nav.GotoTop(columns)
		}
	case "l", "right":
		m.nav.MoveRight(columns)
		if columnDrag {
			m.nav.GotoTop(columns)
		}
	case "g":
		m.nav.GotoTop(columns)
	case "G":
		if !columnDrag {
			m.nav.GotoBottom(columns)
		}
	}
	return m, nil
}

// pickUp starts a drag unless the item only exists locally
func (m Model) pickUp(item dnd.Item) (tea.Model, tea.Cmd) {
	if pending.IsTemp(item.ID) {
		m.addToast(ToastWarning, "Still saving, try again in a moment")
		return m, nil
	}
	m.session.Start(item)
	return m, nil
}

// drop resolves the gesture, applies it optimistically and persists it
func (m Model) drop() (tea.Model, tea.Cmd) {
	columns := m.columns()
	over := m.nav.Target(columns)
	active, _ := m.session.Active()

	if over != nil && pending.IsTemp(over.ID) {
		m.session.Cancel()
		m.nav.Select(active)
		m.addToast(ToastWarning, "Cannot drop onto an unsaved "+over.Kind.String())
		return m, nil
	}

	move, err := m.session.End(m.state.Board(), over)
	if err != nil {
		// self-drops and unknown targets are no-ops
		if !errors.Is(err, domain.ErrInvalidDrop) {
			m.logger.Error("drop failed", "active", active, "error", err)
		}
		m.nav.Select(active)
		return m, nil
	}

	undo := m.state.Apply(move)
	m.nav.Select(move.Active)
	ticket := m.queue.Begin(move.Patch.Path())
	m.logger.Debug("move applied", "kind", move.Kind, "active", move.Active, "over", move.Over, "generation", ticket.Generation())
	return m, m.persistCmd(ticket, move, undo)
}

// addColumn appends a placeholder stage and creates it remotely
func (m Model) addColumn(msg overlay.AddColumnMsg) (tea.Model, tea.Cmd) {
	b := m.state.Board()
	c := m.pending.Track(dnd.KindColumn)
	sequence := domain.NextSequence(b.Columns)

	m.state.AppendStage(domain.Stage{
		ID:         c.TempID,
		Name:       msg.Name,
		Sequence:   sequence,
		StageSetID: m.backend.Project().StageSetID,
	})
	m.nav.Select(c.Item())
	return m, m.createColumnCmd(c, msg.Name, sequence)
}

// addCard appends a placeholder card to the end of its stage
func (m Model) addCard(msg overlay.AddCardMsg) (tea.Model, tea.Cmd) {
	b := m.state.Board()
	if domain.FindStage(b.Columns, msg.StageID) < 0 {
		m.addToast(ToastWarning, "Column no longer exists")
		return m, nil
	}
	c := m.pending.Track(dnd.KindCard)
	order := domain.NextOrder(b.Tasks, msg.StageID)

	m.state.AppendWorkItem(domain.WorkItem{
		ID:        c.TempID,
		Title:     msg.Title,
		TaskStage: domain.Ref{ID: msg.StageID},
		Order:     order,
		ProjectID: m.backend.Project().ID,
	})
	m.nav.Select(c.Item())
	return m, m.createCardCmd(c, msg.Title, msg.StageID, order)
}
