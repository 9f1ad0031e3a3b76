package dnd

import (
	"strings"

	"github.com/riordanpawley/wbsboard/internal/domain"
)

// Undo reverts an optimistic move. It is all or nothing: when a later
// move changed any entity this one touched, nothing is restored and Undo
// reports false, since the current board is the newer consistent
// arrangement and reverting part of a renumbering would duplicate
// sequence or order values.
type Undo func() bool

// State owns the board while it is mounted. Moves replace the arrays
// wholesale; every entity a move changes is stamped with the move's
// generation so an Undo can tell whether a later move got there first.
//
// State is not safe for concurrent use. The TUI mutates it from its
// update loop only.
type State struct {
	board      Board
	generation uint64
	stamps     map[string]uint64
	// renamed maps a temporary entity key to the key it was confirmed as
	renamed map[string]string
}

// NewState creates a state holding board
func NewState(board Board) *State {
	return &State{
		board:   board.Clone(),
		stamps:  make(map[string]uint64),
		renamed: make(map[string]string),
	}
}

// Board returns a copy of the current arrangement
func (s *State) Board() Board {
	return s.board.Clone()
}

// Replace installs a freshly fetched board, discarding all stamps
func (s *State) Replace(board Board) {
	s.board = board.Clone()
	s.stamps = make(map[string]uint64)
	s.renamed = make(map[string]string)
}

// Apply installs move.Next and returns the Undo for it
func (s *State) Apply(move Move) Undo {
	s.generation++
	gen := s.generation

	touched := changedEntities(move.Prev, move.Next)
	for _, key := range touched {
		s.stamps[key] = gen
	}
	s.board = move.Next.Clone()

	prev := move.Prev.Clone()
	return func() bool {
		var own []string
		for _, key := range touched {
			cur := s.current(key)
			if !s.exists(cur) {
				continue
			}
			if s.stamps[cur] != gen {
				return false
			}
			own = append(own, key)
		}
		if len(own) == 0 {
			return false
		}

		next := s.board.Clone()
		for _, key := range own {
			s.restore(&next, key, prev)
			delete(s.stamps, s.current(key))
		}
		next.Columns = domain.SortStages(next.Columns)
		s.board = next
		return true
	}
}

// AppendStage adds a locally created column
func (s *State) AppendStage(stage domain.Stage) {
	s.board.Columns = append(s.board.Clone().Columns, stage)
}

// AppendWorkItem adds a locally created card
func (s *State) AppendWorkItem(item domain.WorkItem) {
	s.board.Tasks = append(s.board.Clone().Tasks, item)
}

// Rename rewrites a temporary id to the id the server assigned, including
// stage references held by cards. Pending undos follow the rename.
func (s *State) Rename(kind Kind, from, to string) {
	next := s.board.Clone()
	switch kind {
	case KindColumn:
		if i := domain.FindStage(next.Columns, from); i >= 0 {
			next.Columns[i].ID = to
		}
		for i := range next.Tasks {
			if next.Tasks[i].StageID() == from {
				next.Tasks[i].TaskStage.ID = to
			}
		}
	case KindCard:
		if i := domain.FindWorkItem(next.Tasks, from); i >= 0 {
			next.Tasks[i].ID = to
		}
	}
	s.board = next

	oldKey, newKey := Item{Kind: kind, ID: from}.key(), Item{Kind: kind, ID: to}.key()
	s.renamed[oldKey] = newKey
	if gen, ok := s.stamps[oldKey]; ok {
		s.stamps[newKey] = gen
		delete(s.stamps, oldKey)
	}
}

// Remove drops an entity, used when an optimistic create fails
func (s *State) Remove(item Item) {
	next := s.board.Clone()
	switch item.Kind {
	case KindColumn:
		if i := domain.FindStage(next.Columns, item.ID); i >= 0 {
			next.Columns = append(next.Columns[:i], next.Columns[i+1:]...)
		}
	case KindCard:
		if i := domain.FindWorkItem(next.Tasks, item.ID); i >= 0 {
			next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)
		}
	}
	s.board = next
	delete(s.stamps, item.key())
}

// current follows renames from a key recorded before confirmation
func (s *State) current(key string) string {
	for {
		next, ok := s.renamed[key]
		if !ok {
			return key
		}
		key = next
	}
}

// currentID is current for a bare id of the given kind
func (s *State) currentID(kind Kind, id string) string {
	key := s.current(Item{Kind: kind, ID: id}.key())
	return strings.TrimPrefix(key, kind.String()+":")
}

func (s *State) exists(key string) bool {
	for _, col := range s.board.Columns {
		if Column(col.ID).key() == key {
			return true
		}
	}
	for _, task := range s.board.Tasks {
		if Card(task.ID).key() == key {
			return true
		}
	}
	return false
}

// restore writes the ordering fields key had in prev into next. Identity
// and content fields keep their current values.
func (s *State) restore(next *Board, key string, prev Board) {
	for _, col := range prev.Columns {
		if Column(col.ID).key() != key {
			continue
		}
		if j := domain.FindStage(next.Columns, s.currentID(KindColumn, col.ID)); j >= 0 {
			next.Columns[j].Sequence = col.Sequence
		}
		return
	}
	for _, task := range prev.Tasks {
		if Card(task.ID).key() != key {
			continue
		}
		if j := domain.FindWorkItem(next.Tasks, s.currentID(KindCard, task.ID)); j >= 0 {
			next.Tasks[j].Order = task.Order
			next.Tasks[j].TaskStage = domain.Ref{ID: s.currentID(KindColumn, task.StageID())}
		}
		return
	}
}

// changedEntities lists the keys of columns and cards whose ordering
// fields differ between prev and next
func changedEntities(prev, next Board) []string {
	var keys []string
	for _, col := range next.Columns {
		i := domain.FindStage(prev.Columns, col.ID)
		if i < 0 || prev.Columns[i].Sequence != col.Sequence {
			keys = append(keys, Column(col.ID).key())
		}
	}
	for _, task := range next.Tasks {
		i := domain.FindWorkItem(prev.Tasks, task.ID)
		if i < 0 || prev.Tasks[i].Order != task.Order || prev.Tasks[i].StageID() != task.StageID() {
			keys = append(keys, Card(task.ID).key())
		}
	}
	return keys
}
