package dnd

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_ApplyAndUndo(t *testing.T) {
	state := NewState(sampleBoard())

	move, err := Resolve(state.Board(), Card("t1"), ptr(Card("d1")))
	require.NoError(t, err)

	undo := state.Apply(move)
	assert.Equal(t, "doing", state.Board().Tasks[0].StageID())

	assert.True(t, undo())
	if diff := cmp.Diff(sampleBoard(), state.Board()); diff != "" {
		t.Errorf("undo did not restore the board (-want +got):\n%s", diff)
	}

	assert.False(t, undo(), "second undo is a no-op")
}

func TestState_UndoColumnReorder(t *testing.T) {
	state := NewState(sampleBoard())

	move, err := Resolve(state.Board(), Column("todo"), ptr(Column("done")))
	require.NoError(t, err)
	undo := state.Apply(move)

	require.True(t, undo())
	if diff := cmp.Diff(sampleBoard().Columns, state.Board().Columns); diff != "" {
		t.Errorf("columns not restored (-want +got):\n%s", diff)
	}
}

func TestState_UndoKeepsNewerMoves(t *testing.T) {
	state := NewState(sampleBoard())

	// first gesture: t1 into doing
	first, err := Resolve(state.Board(), Card("t1"), ptr(Column("doing")))
	require.NoError(t, err)
	undoFirst := state.Apply(first)

	// second gesture moves t1 again before the first PATCH resolved
	second, err := Resolve(state.Board(), Card("t1"), ptr(Column("done")))
	require.NoError(t, err)
	state.Apply(second)

	// the first PATCH fails late: t1 keeps the newer placement
	assert.False(t, undoFirst())
	board := state.Board()
	i := domain.FindWorkItem(board.Tasks, "t1")
	assert.Equal(t, "done", board.Tasks[i].StageID())
	assert.Equal(t, 0, board.Tasks[i].Order)
}

func TestState_UndoOnlyOwnEntities(t *testing.T) {
	state := NewState(sampleBoard())

	first, err := Resolve(state.Board(), Card("d2"), ptr(Column("done")))
	require.NoError(t, err)
	undoFirst := state.Apply(first)

	second, err := Resolve(state.Board(), Card("t3"), ptr(Card("t1")))
	require.NoError(t, err)
	state.Apply(second)

	require.True(t, undoFirst())

	board := state.Board()
	assert.Equal(t, "doing", board.Tasks[domain.FindWorkItem(board.Tasks, "d2")].StageID())
	assert.Equal(t, map[string]int{"t3": 0, "t1": 1, "t2": 2}, orders(board, "todo"))
}

func TestState_ReplaceDropsStamps(t *testing.T) {
	state := NewState(sampleBoard())

	move, err := Resolve(state.Board(), Card("t1"), ptr(Column("done")))
	require.NoError(t, err)
	undo := state.Apply(move)

	fresh := move.Next.Clone()
	state.Replace(fresh)

	assert.False(t, undo(), "a refetched board is authoritative")
	if diff := cmp.Diff(fresh, state.Board()); diff != "" {
		t.Errorf("board changed after stale undo (-want +got):\n%s", diff)
	}
}

func TestState_RenameAndRemove(t *testing.T) {
	state := NewState(sampleBoard())

	state.AppendStage(domain.Stage{ID: "tmp-col", Name: "QA", Sequence: 3})
	state.AppendWorkItem(domain.WorkItem{ID: "tmp-card", Title: "Smoke test", TaskStage: domain.Ref{ID: "tmp-col"}})

	state.Rename(KindColumn, "tmp-col", "s-99")
	board := state.Board()
	assert.GreaterOrEqual(t, domain.FindStage(board.Columns, "s-99"), 0)
	assert.Equal(t, "s-99", board.Tasks[domain.FindWorkItem(board.Tasks, "tmp-card")].StageID())

	state.Rename(KindCard, "tmp-card", "w-42")
	assert.GreaterOrEqual(t, domain.FindWorkItem(state.Board().Tasks, "w-42"), 0)

	state.Remove(Card("w-42"))
	state.Remove(Column("s-99"))
	if diff := cmp.Diff(sampleBoard(), state.Board()); diff != "" {
		t.Errorf("board mismatch after remove (-want +got):\n%s", diff)
	}
}

func TestState_BoardIsACopy(t *testing.T) {
	state := NewState(sampleBoard())

	b := state.Board()
	b.Tasks[0].Order = 99
	b.Columns[0].Name = "mutated"

	assert.Equal(t, 0, state.Board().Tasks[0].Order)
	assert.Equal(t, "todo", state.Board().Columns[0].Name)
}

func assertDense(t *testing.T, values map[string]int) {
	t.Helper()
	seen := map[int]string{}
	for id, v := range values {
		if other, dup := seen[v]; dup {
			t.Errorf("%s and %s share position %d", id, other, v)
		}
		seen[v] = id
	}
}

func sequences(b Board) map[string]int {
	out := map[string]int{}
	for _, c := range b.Columns {
		out[c.ID] = c.Sequence
	}
	return out
}

func TestState_UndoIsAllOrNothingAfterOverlappingRenumber(t *testing.T) {
	tests := []struct {
		name          string
		first, second [2]Item
		positions     func(Board) map[string]int
		want          map[string]int
	}{
		{
			name:      "columns",
			first:     [2]Item{Column("todo"), Column("done")},
			second:    [2]Item{Column("done"), Column("doing")},
			positions: sequences,
			want:      map[string]int{"done": 0, "doing": 1, "todo": 2},
		},
		{
			name:      "cards in one column",
			first:     [2]Item{Card("t1"), Card("t3")},
			second:    [2]Item{Card("t3"), Card("t2")},
			positions: func(b Board) map[string]int { return orders(b, "todo") },
			want:      map[string]int{"t3": 0, "t2": 1, "t1": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState(sampleBoard())

			first, err := Resolve(state.Board(), tt.first[0], ptr(tt.first[1]))
			require.NoError(t, err)
			undoFirst := state.Apply(first)

			second, err := Resolve(state.Board(), tt.second[0], ptr(tt.second[1]))
			require.NoError(t, err)
			state.Apply(second)
			before := state.Board()

			assert.False(t, undoFirst(), "a later move renumbered part of this one")
			if diff := cmp.Diff(before, state.Board()); diff != "" {
				t.Errorf("partial undo changed the board (-want +got):\n%s", diff)
			}
			got := tt.positions(state.Board())
			assert.Equal(t, tt.want, got)
			assertDense(t, got)
		})
	}
}

func TestState_UndoFollowsConfirmedIDs(t *testing.T) {
	state := NewState(sampleBoard())
	state.AppendWorkItem(domain.WorkItem{ID: "tmp-card", Title: "Smoke test", TaskStage: domain.Ref{ID: "doing"}, Order: 2})

	// inserting t1 at the top of doing shifts the placeholder too
	move, err := Resolve(state.Board(), Card("t1"), ptr(Card("d1")))
	require.NoError(t, err)
	undo := state.Apply(move)
	require.Equal(t, 3, orders(state.Board(), "doing")["tmp-card"])

	state.Rename(KindCard, "tmp-card", "w-42")

	require.True(t, undo())
	board := state.Board()
	assert.Equal(t, map[string]int{"d1": 0, "d2": 1, "w-42": 2}, orders(board, "doing"))
	assert.Equal(t, map[string]int{"t1": 0, "t2": 1, "t3": 2}, orders(board, "todo"))
	assert.Equal(t, -1, domain.FindWorkItem(board.Tasks, "tmp-card"))
}

func TestState_UndoSkipsRemovedPlaceholders(t *testing.T) {
	state := NewState(sampleBoard())
	state.AppendWorkItem(domain.WorkItem{ID: "tmp-card", TaskStage: domain.Ref{ID: "doing"}, Order: 2})

	move, err := Resolve(state.Board(), Card("t1"), ptr(Card("d1")))
	require.NoError(t, err)
	undo := state.Apply(move)

	state.Remove(Card("tmp-card"))

	require.True(t, undo())
	if diff := cmp.Diff(sampleBoard(), state.Board()); diff != "" {
		t.Errorf("board mismatch (-want +got):\n%s", diff)
	}
}
