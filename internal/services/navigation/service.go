// Package navigation provides cursor and navigation state management
package navigation

import (
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/ui/board"
)

// Cursor tracks the selection by id so it follows a card or column across
// moves and refetches. An empty CardID means the column header.
type Cursor struct {
	ColumnID string
	CardID   string
	// Fallback positions are used when the ids are no longer on the board
	FallbackColumn int
	FallbackCard   int
}

// FindPosition computes where the cursor is in columns
func (c *Cursor) FindPosition(columns []board.Column) board.Position {
	if len(columns) == 0 {
		return board.Position{Column: 0, Card: -1}
	}

	if c.CardID != "" {
		for colIdx, col := range columns {
			for cardIdx, card := range col.Cards {
				if card.ID == c.CardID {
					return board.Position{Column: colIdx, Card: cardIdx}
				}
			}
		}
	}

	colIdx := -1
	for i, col := range columns {
		if col.Stage.ID == c.ColumnID {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		colIdx = clamp(c.FallbackColumn, 0, len(columns)-1)
	}
	if c.CardID == "" {
		return board.Position{Column: colIdx, Card: -1}
	}

	// card gone (moved away by a refetch or removed), stay near its old slot
	cards := columns[colIdx].Cards
	if len(cards) == 0 {
		return board.Position{Column: colIdx, Card: -1}
	}
	return board.Position{Column: colIdx, Card: clamp(c.FallbackCard, 0, len(cards)-1)}
}

// set points the cursor at pos and records ids and fallbacks
func (c *Cursor) set(columns []board.Column, pos board.Position) {
	c.FallbackColumn = pos.Column
	c.FallbackCard = pos.Card
	c.ColumnID = ""
	c.CardID = ""
	if pos.Column < 0 || pos.Column >= len(columns) {
		return
	}
	col := columns[pos.Column]
	c.ColumnID = col.Stage.ID
	if pos.Card >= 0 && pos.Card < len(col.Cards) {
		c.CardID = col.Cards[pos.Card].ID
	}
}

// MoveVertical moves within a column. Moving up from the first card
// reaches the header.
func (c *Cursor) MoveVertical(columns []board.Column, delta int) {
	if len(columns) == 0 {
		return
	}
	pos := c.FindPosition(columns)
	pos.Card = clamp(pos.Card+delta, -1, len(columns[pos.Column].Cards)-1)
	c.set(columns, pos)
}

// MoveHorizontal moves to an adjacent column, keeping the row where the
// target column is long enough
func (c *Cursor) MoveHorizontal(columns []board.Column, delta int) {
	if len(columns) == 0 {
		return
	}
	pos := c.FindPosition(columns)
	pos.Column = clamp(pos.Column+delta, 0, len(columns)-1)
	pos.Card = min(pos.Card, len(columns[pos.Column].Cards)-1)
	c.set(columns, pos)
}

// JumpToColumn moves to a specific column's header
func (c *Cursor) JumpToColumn(columns []board.Column, colIdx int) {
	if len(columns) == 0 {
		return
	}
	c.set(columns, board.Position{Column: clamp(colIdx, 0, len(columns)-1), Card: -1})
}

// JumpToEnd moves to the last card of the current column
func (c *Cursor) JumpToEnd(columns []board.Column) {
	if len(columns) == 0 {
		return
	}
	pos := c.FindPosition(columns)
	pos.Card = len(columns[pos.Column].Cards) - 1
	c.set(columns, pos)
}

// Service manages navigation state
type Service struct {
	cursor Cursor
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		cursor: Cursor{},
	}
}

// GetCursor returns the current cursor (for read access)
func (s *Service) GetCursor() *Cursor {
	return &s.cursor
}

// GetPosition returns the computed position of the cursor in the given columns
func (s *Service) GetPosition(columns []board.Column) board.Position {
	return s.cursor.FindPosition(columns)
}

// Target returns the item under the cursor: the card, or the column when
// the cursor is on a header. Returns nil on an empty board.
func (s *Service) Target(columns []board.Column) *dnd.Item {
	if len(columns) == 0 {
		return nil
	}
	pos := s.cursor.FindPosition(columns)
	col := columns[pos.Column]
	if pos.OnHeader() {
		item := dnd.Column(col.Stage.ID)
		return &item
	}
	item := dnd.Card(col.Cards[pos.Card].ID)
	return &item
}

// CurrentColumn returns the column under the cursor
func (s *Service) CurrentColumn(columns []board.Column) (board.Column, bool) {
	if len(columns) == 0 {
		return board.Column{}, false
	}
	return columns[s.cursor.FindPosition(columns).Column], true
}

// Select points the cursor at item
func (s *Service) Select(item dnd.Item) {
	switch item.Kind {
	case dnd.KindColumn:
		s.cursor.ColumnID = item.ID
		s.cursor.CardID = ""
	case dnd.KindCard:
		s.cursor.CardID = item.ID
	}
}

// Rename keeps the cursor on an entity whose id changed
func (s *Service) Rename(from, to string) {
	if s.cursor.ColumnID == from {
		s.cursor.ColumnID = to
	}
	if s.cursor.CardID == from {
		s.cursor.CardID = to
	}
}

// MoveDown moves cursor down in current column
func (s *Service) MoveDown(columns []board.Column) {
	s.cursor.MoveVertical(columns, 1)
}

// MoveUp moves cursor up in current column
func (s *Service) MoveUp(columns []board.Column) {
	s.cursor.MoveVertical(columns, -1)
}

// MoveLeft moves cursor to left column
func (s *Service) MoveLeft(columns []board.Column) {
	s.cursor.MoveHorizontal(columns, -1)
}

// MoveRight moves cursor to right column
func (s *Service) MoveRight(columns []board.Column) {
	s.cursor.MoveHorizontal(columns, 1)
}

// GotoTop moves cursor to the column header
func (s *Service) GotoTop(columns []board.Column) {
	pos := s.cursor.FindPosition(columns)
	s.cursor.JumpToColumn(columns, pos.Column)
}

// GotoBottom moves cursor to last card in column
func (s *Service) GotoBottom(columns []board.Column) {
	s.cursor.JumpToEnd(columns)
}

// GotoFirstColumn moves cursor to first column
func (s *Service) GotoFirstColumn(columns []board.Column) {
	s.cursor.JumpToColumn(columns, 0)
}

// GotoLastColumn moves cursor to last column
func (s *Service) GotoLastColumn(columns []board.Column) {
	s.cursor.JumpToColumn(columns, len(columns)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
