package dnd

import (
	"fmt"

	"github.com/riordanpawley/wbsboard/internal/domain"
)

// MoveKind classifies a resolved drop
type MoveKind int

const (
	// ColumnReorder moves a column to another column's position and
	// renumbers every sequence.
	ColumnReorder MoveKind = iota
	// CardAppend moves a card onto another column's surface, at its end.
	CardAppend
	// CardReorder moves a card within its own column and renumbers the column.
	CardReorder
	// CardInsert moves a card onto a card in another column, shifting the
	// cards at or below the drop point down by one.
	CardInsert
)

func (k MoveKind) String() string {
	return [...]string{"column-reorder", "card-append", "card-reorder", "card-insert"}[k]
}

// Board is the in-memory composition of a project's stages and work items
type Board struct {
	Columns []domain.Stage
	Tasks   []domain.WorkItem
}

// Clone returns a board that shares no backing arrays with b
func (b Board) Clone() Board {
	return Board{
		Columns: append([]domain.Stage(nil), b.Columns...),
		Tasks:   append([]domain.WorkItem(nil), b.Tasks...),
	}
}

// Patch is the minimal change to persist for a move. Exactly one of Stage
// and WorkItem is set.
type Patch struct {
	Target   Item
	Stage    *domain.StagePatch
	WorkItem *domain.WorkItemPatch
}

// Path returns the REST path the patch is sent to
func (p Patch) Path() string {
	if p.Target.Kind == KindColumn {
		return "/taskStages/" + p.Target.ID
	}
	return "/wbsItems/" + p.Target.ID
}

// Move is a resolved drop: the arrangement before and after, plus the
// patch that persists it
type Move struct {
	Kind   MoveKind
	Active Item
	Over   Item
	Prev   Board
	Next   Board
	Patch  Patch
}

// ArrayMove returns a copy of s with the element at from moved to index to.
// The relative order of every other element is kept.
func ArrayMove[T any](s []T, from, to int) []T {
	result := make([]T, 0, len(s))
	result = append(result, s[:from]...)
	result = append(result, s[from+1:]...)

	moved := s[from]
	result = append(result, moved)
	copy(result[to+1:], result[to:len(result)-1])
	result[to] = moved
	return result
}

// Resolve classifies dropping active onto over and computes the resulting
// move. A nil over, a drop onto itself, or any combination that does not
// describe a move yields ErrInvalidDrop; callers treat that as a no-op.
// The input board is never modified.
func Resolve(board Board, active Item, over *Item) (Move, error) {
	if over == nil || *over == active {
		return Move{}, domain.ErrInvalidDrop
	}

	switch {
	case active.Kind == KindColumn && over.Kind == KindColumn:
		return resolveColumn(board, active, *over)
	case active.Kind == KindCard && over.Kind == KindColumn:
		return resolveCardOnColumn(board, active, *over)
	case active.Kind == KindCard && over.Kind == KindCard:
		return resolveCardOnCard(board, active, *over)
	}
	return Move{}, fmt.Errorf("%w: %s onto %s", domain.ErrInvalidDrop, active, over)
}

func resolveColumn(board Board, active, over Item) (Move, error) {
	columns := domain.SortStages(board.Columns)
	from := domain.FindStage(columns, active.ID)
	to := domain.FindStage(columns, over.ID)
	if from < 0 || to < 0 {
		return Move{}, fmt.Errorf("%w: unknown column", domain.ErrInvalidDrop)
	}

	next := board.Clone()
	next.Columns = ArrayMove(columns, from, to)
	for i := range next.Columns {
		next.Columns[i].Sequence = i
	}

	return Move{
		Kind:   ColumnReorder,
		Active: active,
		Over:   over,
		Prev:   board.Clone(),
		Next:   next,
		Patch: Patch{
			Target: active,
			Stage:  &domain.StagePatch{Sequence: domain.IntPtr(to)},
		},
	}, nil
}

func resolveCardOnColumn(board Board, active, over Item) (Move, error) {
	idx := domain.FindWorkItem(board.Tasks, active.ID)
	if idx < 0 || domain.FindStage(board.Columns, over.ID) < 0 {
		return Move{}, fmt.Errorf("%w: unknown card or column", domain.ErrInvalidDrop)
	}
	if board.Tasks[idx].StageID() == over.ID {
		return Move{}, fmt.Errorf("%w: card already in column", domain.ErrInvalidDrop)
	}

	next := board.Clone()
	next.Tasks[idx].TaskStage = domain.Ref{ID: over.ID}
	next.Tasks[idx].Order = domain.NextOrder(board.Tasks, over.ID)

	return Move{
		Kind:   CardAppend,
		Active: active,
		Over:   over,
		Prev:   board.Clone(),
		Next:   next,
		Patch: Patch{
			Target:   active,
			WorkItem: &domain.WorkItemPatch{TaskStage: domain.RefOf(over.ID)},
		},
	}, nil
}

func resolveCardOnCard(board Board, active, over Item) (Move, error) {
	activeIdx := domain.FindWorkItem(board.Tasks, active.ID)
	overIdx := domain.FindWorkItem(board.Tasks, over.ID)
	if activeIdx < 0 || overIdx < 0 {
		return Move{}, fmt.Errorf("%w: unknown card", domain.ErrInvalidDrop)
	}

	source := board.Tasks[activeIdx].StageID()
	target := board.Tasks[overIdx].StageID()
	if source == target {
		return reorderWithinColumn(board, active, over, source)
	}
	return insertIntoColumn(board, active, over, activeIdx, overIdx, target)
}

func reorderWithinColumn(board Board, active, over Item, stageID string) (Move, error) {
	column := domain.ItemsInStage(board.Tasks, stageID)
	from := domain.FindWorkItem(column, active.ID)
	to := domain.FindWorkItem(column, over.ID)

	column = ArrayMove(column, from, to)
	orders := make(map[string]int, len(column))
	for i := range column {
		orders[column[i].ID] = i
	}

	next := board.Clone()
	for i := range next.Tasks {
		if order, ok := orders[next.Tasks[i].ID]; ok {
			next.Tasks[i].Order = order
		}
	}

	return Move{
		Kind:   CardReorder,
		Active: active,
		Over:   over,
		Prev:   board.Clone(),
		Next:   next,
		Patch: Patch{
			Target:   active,
			WorkItem: &domain.WorkItemPatch{Order: domain.IntPtr(to)},
		},
	}, nil
}

func insertIntoColumn(board Board, active, over Item, activeIdx, overIdx int, stageID string) (Move, error) {
	insertAt := board.Tasks[overIdx].Order

	next := board.Clone()
	for i := range next.Tasks {
		if i != activeIdx && next.Tasks[i].StageID() == stageID && next.Tasks[i].Order >= insertAt {
			next.Tasks[i].Order++
		}
	}
	next.Tasks[activeIdx].TaskStage = domain.Ref{ID: stageID}
	next.Tasks[activeIdx].Order = insertAt

	return Move{
		Kind:   CardInsert,
		Active: active,
		Over:   over,
		Prev:   board.Clone(),
		Next:   next,
		Patch: Patch{
			Target: active,
			WorkItem: &domain.WorkItemPatch{
				TaskStage: domain.RefOf(stageID),
				Order:     domain.IntPtr(insertAt),
			},
		},
	}, nil
}
