package dnd

import "github.com/riordanpawley/wbsboard/internal/domain"

// Phase is the state of a drag session
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseResolved
)

func (p Phase) String() string {
	return [...]string{"idle", "dragging", "resolved"}[p]
}

// Session tracks a single gesture: Idle -> Dragging -> Resolved -> Idle.
// It holds no board state; resolution always works on the board passed to End.
type Session struct {
	phase  Phase
	active Item
}

// Phase returns the current phase
func (s *Session) Phase() Phase {
	return s.phase
}

// Active returns the picked-up item and whether a drag is in progress
func (s *Session) Active() (Item, bool) {
	return s.active, s.phase == PhaseDragging
}

// Start picks up item. Starting while already dragging replaces the
// picked-up item.
func (s *Session) Start(item Item) {
	s.phase = PhaseDragging
	s.active = item
}

// End drops the picked-up item onto over and returns to Idle. Ending
// without an active drag, or on an invalid target, returns ErrInvalidDrop.
func (s *Session) End(board Board, over *Item) (Move, error) {
	if s.phase != PhaseDragging {
		return Move{}, domain.ErrInvalidDrop
	}
	s.phase = PhaseResolved
	move, err := Resolve(board, s.active, over)
	s.Cancel()
	return move, err
}

// Cancel abandons the gesture
func (s *Session) Cancel() {
	s.phase = PhaseIdle
	s.active = Item{}
}
