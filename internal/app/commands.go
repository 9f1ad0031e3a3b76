package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/boarddata"
	"github.com/riordanpawley/wbsboard/internal/services/mutation"
	"github.com/riordanpawley/wbsboard/internal/services/pending"
	"github.com/riordanpawley/wbsboard/internal/ui/toast"
)

// Message types for async operations

type boardLoadedMsg struct {
	snapshot boarddata.Snapshot
	err      error
	// initial is set for the first load and manual refetches; their
	// failures replace the board with an error view
	initial bool
}

type moveResultMsg struct {
	move   dnd.Move
	undo   dnd.Undo
	result mutation.Result
}

type createResultMsg struct {
	create pending.Create
	stage  domain.Stage
	item   domain.WorkItem
	err    error
}

type tickMsg time.Time

// Commands

// loadBoardCmd fetches the board
func (m Model) loadBoardCmd(initial bool) tea.Cmd {
	backend := m.backend
	timeout := m.config.API.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		snap, err := backend.Load(ctx)
		return boardLoadedMsg{snapshot: snap, err: err, initial: initial}
	}
}

// persistCmd sends the patch of an applied move once earlier mutations of
// the same entity have finished
func (m Model) persistCmd(ticket *mutation.Ticket, move dnd.Move, undo dnd.Undo) tea.Cmd {
	backend := m.backend
	timeout := m.config.API.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res := ticket.Run(ctx, func(ctx context.Context) error {
			return backend.Persist(ctx, move.Patch)
		})
		return moveResultMsg{move: move, undo: undo, result: res}
	}
}

func (m Model) createColumnCmd(c pending.Create, name string, sequence int) tea.Cmd {
	backend := m.backend
	timeout := m.config.API.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		stage, err := backend.CreateColumn(ctx, name, sequence, c.RequestID)
		return createResultMsg{create: c, stage: stage, err: err}
	}
}

func (m Model) createCardCmd(c pending.Create, title, stageID string, order int) tea.Cmd {
	backend := m.backend
	timeout := m.config.API.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		item, err := backend.CreateCard(ctx, title, stageID, order, c.RequestID)
		return createResultMsg{create: c, item: item, err: err}
	}
}

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Handlers

func (m Model) handleBoardLoaded(msg boardLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.lastRefresh = m.now()

	if msg.err != nil {
		m.logger.Warn("board load aborted", "error", msg.err)
		m.addToast(ToastError, "Loading board failed: "+msg.err.Error())
		return m, nil
	}

	snap := msg.snapshot
	m.disabled = snap.Disabled
	if err := snap.Err(); err != nil {
		if msg.initial || !m.loaded {
			m.columnsErr, m.tasksErr = snap.ColumnsErr, snap.TasksErr
			return m, nil
		}
		// keep the board on screen when a background refetch fails
		m.addToast(ToastWarning, "Refresh failed: "+err.Error())
		return m, nil
	}

	if m.busy() || m.session.Phase() == dnd.PhaseDragging {
		// local state is ahead of this snapshot; fetch again once settled
		m.needsRefetch = true
		return m, nil
	}

	m.columnsErr, m.tasksErr = nil, nil
	m.needsRefetch = false
	m.state.Replace(snap.Board())
	m.loaded = true
	return m, nil
}

func (m Model) handleMoveResult(msg moveResultMsg) (tea.Model, tea.Cmd) {
	res := msg.result
	if res.Err == nil {
		m.logger.Debug("move persisted", "kind", msg.move.Kind, "target", res.Key)
		return m, nil
	}

	m.needsRefetch = true
	if !res.Latest {
		err := fmt.Errorf("%s: %w", res.Key, domain.ErrStaleMutation)
		m.logger.Warn("superseded move failed", "error", res.Err, "stale", err)
		m.addToast(ToastWarning, "An earlier move failed; keeping the newer position")
		return m, nil
	}

	restored := msg.undo()
	m.logger.Error("move failed", "kind", msg.move.Kind, "target", res.Key, "restored", restored, "error", res.Err)
	if !restored {
		// a later move renumbered the same entities; keep it until the refetch
		m.addToast(ToastWarning, moveErrorMessage(msg.move, res.Err)+"; the board will refresh")
		return m, nil
	}
	m.addToast(ToastError, moveErrorMessage(msg.move, res.Err))
	return m, nil
}

func moveErrorMessage(move dnd.Move, err error) string {
	what := "card"
	if move.Active.Kind == dnd.KindColumn {
		what = "column"
	}
	switch {
	case errors.Is(err, domain.ErrConflict):
		return fmt.Sprintf("Could not move %s: it was changed elsewhere", what)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("Could not move %s: it no longer exists", what)
	case errors.Is(err, domain.ErrOffline):
		return fmt.Sprintf("Could not move %s: the server is unreachable", what)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Could not move %s: the server did not answer", what)
	}
	return fmt.Sprintf("Could not move %s: %v", what, err)
}

func (m Model) handleCreateResult(msg createResultMsg) (tea.Model, tea.Cmd) {
	c := msg.create
	if msg.err != nil {
		m.pending.Fail(c.TempID)
		m.state.Remove(c.Item())
		m.logger.Error("create failed", "kind", c.Kind, "request", c.RequestID, "error", msg.err)
		m.addToast(ToastError, "Could not create "+c.Kind.String()+": "+msg.err.Error())
		return m, nil
	}

	realID := msg.item.ID
	if c.Kind == dnd.KindColumn {
		realID = msg.stage.ID
	}
	if _, ok := m.pending.Resolve(c.TempID); !ok || realID == "" {
		m.needsRefetch = true
		return m, nil
	}
	m.state.Rename(c.Kind, c.TempID, realID)
	m.nav.Rename(c.TempID, realID)
	m.addToast(ToastSuccess, "Created "+c.Kind.String())
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.toasts = toast.Prune(m.toasts, m.now())
	next := tickEvery(time.Second)

	if m.loading || m.busy() || m.session.Phase() == dnd.PhaseDragging {
		return m, next
	}

	interval := m.config.Board.RefreshInterval()
	due := interval > 0 && m.now().Sub(m.lastRefresh) >= interval
	if m.needsRefetch || due {
		m.needsRefetch = false
		m.loading = true
		m.backend.Refresh()
		return m, tea.Batch(next, m.loadBoardCmd(false))
	}
	return m, next
}

// refetch is the manual refresh: it drops caches and shows the spinner
func (m Model) refetch() (tea.Model, tea.Cmd) {
	if m.busy() {
		m.addToast(ToastInfo, "Waiting for pending saves before refreshing")
		m.needsRefetch = true
		return m, nil
	}
	m.loading = true
	m.backend.Refresh()
	return m, tea.Batch(m.spinner.Tick, m.loadBoardCmd(true))
}
