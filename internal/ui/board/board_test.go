package board

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBoard() dnd.Board {
	return dnd.Board{
		Columns: []domain.Stage{
			{ID: "s-2", Name: "Doing", Sequence: 1},
			{ID: "s-1", Name: "Todo", Sequence: 0, Color: "#ff8800"},
			{ID: "s-3", Name: "Done", Sequence: 2},
		},
		Tasks: []domain.WorkItem{
			{ID: "w-2", Title: "Wire API", TaskStage: domain.Ref{ID: "s-1"}, Order: 1},
			{ID: "w-1", Title: "Draft scope", TaskStage: domain.Ref{ID: "s-1"}, Order: 0},
			{ID: "w-3", Title: "Review", TaskStage: domain.Ref{ID: "s-2"}, Order: 0},
			{ID: "w-9", Title: "Orphan", TaskStage: domain.Ref{ID: "gone"}, Order: 0},
		},
	}
}

func TestBuildColumns(t *testing.T) {
	columns := BuildColumns(sampleBoard())

	require.Len(t, columns, 3)
	assert.Equal(t, []string{"Todo", "Doing", "Done"}, []string{columns[0].Stage.Name, columns[1].Stage.Name, columns[2].Stage.Name})
	require.Len(t, columns[0].Cards, 2)
	assert.Equal(t, "w-1", columns[0].Cards[0].ID)
	assert.Equal(t, "w-2", columns[0].Cards[1].ID)
	assert.Empty(t, columns[2].Cards)
}

func TestRender(t *testing.T) {
	s := styles.New()
	columns := BuildColumns(sampleBoard())

	tests := []struct {
		name        string
		state       State
		width       int
		contains    []string
		notContains []string
	}{
		{
			name:     "all columns fit",
			state:    State{Cursor: Position{Column: 0, Card: 0}},
			width:    120,
			contains: []string{"Todo (2)", "Doing (1)", "Done (0)", "▶ Draft scope", "Wire API", "(empty)", "#0"},
		},
		{
			name:     "cursor on header",
			state:    State{Cursor: Position{Column: 1, Card: -1}},
			width:    120,
			contains: []string{"Review"},
			notContains: []string{
				"▶",
			},
		},
		{
			name:        "narrow terminal scrolls to cursor",
			state:       State{Cursor: Position{Column: 2, Card: -1}},
			width:       2 * MinColumnWidth,
			contains:    []string{"Doing", "Done"},
			notContains: []string{"Todo"},
		},
		{
			name: "pending card",
			state: State{
				Cursor:    Position{Column: 1, Card: -1},
				IsPending: func(id string) bool { return id == "w-2" },
			},
			width:    120,
			contains: []string{"saving…"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(Render(columns, tt.state, s, tt.width, 30))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestRender_Empty(t *testing.T) {
	got := ansi.Strip(Render(nil, State{}, styles.New(), 80, 20))
	assert.Contains(t, got, "Press A to add one")
}

func TestRender_DraggingDiffers(t *testing.T) {
	s := styles.New()
	columns := BuildColumns(sampleBoard())
	active := dnd.Card("w-1")

	idle := Render(columns, State{Cursor: Position{Column: 1, Card: 0}}, s, 120, 30)
	dragging := Render(columns, State{Cursor: Position{Column: 1, Card: 0}, Dragging: &active}, s, 120, 30)

	assert.NotEmpty(t, ansi.Strip(idle))
	assert.Contains(t, ansi.Strip(dragging), "Draft scope")
	// border glyphs change for the picked-up card and the drop target
	assert.NotEqual(t, ansi.Strip(idle), ansi.Strip(dragging))
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name                 string
		total, cursor, width int
		wantFirst, wantCount int
	}{
		{"everything fits", 3, 2, 200, 0, 3},
		{"cursor at start", 10, 0, 3 * MinColumnWidth, 0, 3},
		{"cursor centered", 10, 5, 3 * MinColumnWidth, 4, 3},
		{"cursor at end", 10, 9, 3 * MinColumnWidth, 7, 3},
		{"tiny width shows one", 4, 2, 10, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, count := visibleRange(tt.total, tt.cursor, tt.width)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestRenderCard_TruncatesTitle(t *testing.T) {
	item := domain.WorkItem{ID: "w-1", Title: strings.Repeat("long ", 20), Order: 3}

	got := ansi.Strip(renderCard(item, cardState{}, 24, styles.New()))

	assert.Contains(t, got, "…")
	assert.Contains(t, got, "#3")
	// width covers content and padding; the border adds two cells
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 26)
	}
}
