// Package app contains the main application model and TEA implementation.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/wbsboard/internal/config"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/boarddata"
	"github.com/riordanpawley/wbsboard/internal/services/mutation"
	"github.com/riordanpawley/wbsboard/internal/services/navigation"
	"github.com/riordanpawley/wbsboard/internal/services/pending"
	"github.com/riordanpawley/wbsboard/internal/types"
	"github.com/riordanpawley/wbsboard/internal/ui/board"
	"github.com/riordanpawley/wbsboard/internal/ui/overlay"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// Backend loads and persists one project's board. *boarddata.Loader
// implements it.
type Backend interface {
	Project() domain.Project
	Load(ctx context.Context) (boarddata.Snapshot, error)
	Refresh()
	Persist(ctx context.Context, patch dnd.Patch) error
	CreateColumn(ctx context.Context, name string, sequence int, requestID string) (domain.Stage, error)
	CreateCard(ctx context.Context, title, stageID string, order int, requestID string) (domain.WorkItem, error)
}

// Model is the main application state
type Model struct {
	backend Backend
	queue   *mutation.Queue
	pending *pending.Registry

	// Board state and the gesture in progress
	state   *dnd.State
	session *dnd.Session
	nav     *navigation.Service

	// UI state
	overlayStack *overlay.Stack
	toasts       []Toast

	// Terminal size
	width  int
	height int

	styles        *styles.Styles
	overlayStyles *overlay.Styles
	config        *config.Config

	// Loading state
	loading      bool
	loaded       bool
	disabled     bool
	columnsErr   error
	tasksErr     error
	spinner      spinner.Model
	lastRefresh  time.Time
	needsRefetch bool

	logger *slog.Logger
	now    func() time.Time
}

// New creates a new application model
func New(cfg *config.Config, backend Backend, queue *mutation.Queue, logger *slog.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return Model{
		backend:       backend,
		queue:         queue,
		pending:       pending.NewRegistry(),
		state:         dnd.NewState(dnd.Board{}),
		session:       &dnd.Session{},
		nav:           navigation.NewService(),
		overlayStack:  overlay.NewStack(),
		styles:        styles.New(),
		overlayStyles: overlay.New(),
		config:        cfg,
		loading:       true,
		spinner:       s,
		logger:        logger,
		now:           time.Now,
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadBoardCmd(true),
		tickEvery(time.Second),
	)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.overlayStack.IsEmpty() {
			return m, m.overlayStack.Update(msg)
		}
		return m.handleKey(msg)

	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		return m, nil

	case overlay.AddCardMsg:
		return m.addCard(msg)

	case overlay.AddColumnMsg:
		return m.addColumn(msg)

	case boardLoadedMsg:
		return m.handleBoardLoaded(msg)

	case moveResultMsg:
		return m.handleMoveResult(msg)

	case createResultMsg:
		return m.handleCreateResult(msg)

	case tickMsg:
		return m.handleTick()
	}

	// Cursor blink and other overlay internals
	if !m.overlayStack.IsEmpty() {
		return m, m.overlayStack.Update(msg)
	}
	return m, nil
}

// Mode returns the interaction mode shown in the status bar
func (m Model) Mode() types.Mode {
	switch {
	case !m.overlayStack.IsEmpty():
		return types.ModeInput
	case m.session.Phase() == dnd.PhaseDragging:
		return types.ModeDrag
	default:
		return types.ModeNormal
	}
}

// Board returns the current arrangement
func (m Model) Board() dnd.Board {
	return m.state.Board()
}

// Toasts returns the notifications currently queued
func (m Model) Toasts() []Toast {
	return m.toasts
}

func (m Model) columns() []board.Column {
	return board.BuildColumns(m.state.Board())
}

// addToast adds a toast notification to the list
func (m *Model) addToast(level types.ToastLevel, message string) {
	d := m.config.Board.ToastDuration()
	if level == ToastError {
		d *= 2
	}
	m.toasts = append(m.toasts, Toast{
		Level:   level,
		Message: message,
		Expires: m.now().Add(d),
	})
}

// busy reports whether local state is ahead of the server
func (m Model) busy() bool {
	return m.queue.Pending() > 0 || m.pending.Len() > 0
}
