// Package dnd resolves pick-up/drop gestures on a board into optimistic
// reorderings of stages and work items.
//
// A gesture is identified by what was picked up (an Item) and what it was
// dropped on. Resolve is a pure function of the board and that pair: it
// classifies the drop, computes the next arrangement, and returns the
// minimal patch to persist. State applies a Move optimistically and hands
// back an Undo that the persistence error path must call.
package dnd

import "fmt"

// Kind tells columns and cards apart at pick-up time
type Kind int

const (
	KindColumn Kind = iota
	KindCard
)

func (k Kind) String() string {
	switch k {
	case KindColumn:
		return "column"
	case KindCard:
		return "card"
	default:
		return "unknown"
	}
}

// Item is a draggable or droppable board element
type Item struct {
	Kind Kind
	ID   string
}

// Column returns the Item for a stage column
func Column(id string) Item {
	return Item{Kind: KindColumn, ID: id}
}

// Card returns the Item for a work-item card
func Card(id string) Item {
	return Item{Kind: KindCard, ID: id}
}

func (i Item) String() string {
	return fmt.Sprintf("%s:%s", i.Kind, i.ID)
}

// key identifies the entity behind an item across both lists
func (i Item) key() string {
	return i.String()
}
