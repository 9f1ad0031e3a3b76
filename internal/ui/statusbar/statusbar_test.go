package statusbar

import (
	"testing"

	"github.com/riordanpawley/wbsboard/internal/types"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestStatusBar_Render(t *testing.T) {
	tests := []struct {
		name     string
		mode     types.Mode
		contains []string
	}{
		{
			name:     "normal",
			mode:     types.ModeNormal,
			contains: []string{"NORMAL", "Space: pick card", "P: pick column"},
		},
		{
			name:     "drag",
			mode:     types.ModeDrag,
			contains: []string{"MOVE", "Enter: drop", "Esc: cancel"},
		},
		{
			name:     "input",
			mode:     types.ModeInput,
			contains: []string{"INPUT", "Enter: confirm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New(tt.mode, 200, styles.New()).Render()
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
		})
	}
}

func TestStatusBar_WithInfo(t *testing.T) {
	sb := New(types.ModeNormal, 200, styles.New())

	assert.NotContains(t, sb.Render(), "Website")
	assert.Contains(t, sb.WithInfo("Website · 2 saving").Render(), "Website · 2 saving")
}

func TestGetHints_UnknownMode(t *testing.T) {
	assert.Equal(t, "", GetHints(types.Mode(99)))
	assert.Equal(t, "UNKNOWN", types.Mode(99).String())
}
