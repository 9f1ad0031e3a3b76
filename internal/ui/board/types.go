// Package board renders the stage columns and work-item cards.
package board

import (
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
)

// Column is a stage with its cards, both in display order
type Column struct {
	Stage domain.Stage
	Cards []domain.WorkItem
}

// BuildColumns arranges a board for display: stages by Sequence, each
// stage's cards by Order. Cards whose stage is not on the board are not
// shown.
func BuildColumns(b dnd.Board) []Column {
	stages := domain.SortStages(b.Columns)
	columns := make([]Column, 0, len(stages))
	for _, stage := range stages {
		columns = append(columns, Column{
			Stage: stage,
			Cards: domain.ItemsInStage(b.Tasks, stage.ID),
		})
	}
	return columns
}

// Position is a cursor location. Card is -1 when the cursor is on the
// column header.
type Position struct {
	Column int
	Card   int
}

// OnHeader reports whether the position is a column header
func (p Position) OnHeader() bool {
	return p.Card < 0
}

// State is everything besides the columns that affects rendering
type State struct {
	Cursor Position
	// Dragging is the picked-up item, if any
	Dragging *dnd.Item
	// IsPending reports whether an id is still awaiting server confirmation
	IsPending func(id string) bool
}

func (s State) pending(id string) bool {
	return s.IsPending != nil && s.IsPending(id)
}

func (s State) dragging(item dnd.Item) bool {
	return s.Dragging != nil && *s.Dragging == item
}
