package toast

import (
	"strings"
	"testing"
	"time"

	"github.com/riordanpawley/wbsboard/internal/types"
	"github.com/riordanpawley/wbsboard/internal/ui/styles"
	"github.com/stretchr/testify/assert"
)

func TestToastRenderer_Render_Empty(t *testing.T) {
	renderer := New(styles.New())

	assert.Equal(t, "", renderer.Render(nil, 80), "Empty toast list should return empty string")
}

func TestToastRenderer_Render_Levels(t *testing.T) {
	renderer := New(styles.New())

	tests := []struct {
		name  string
		level types.ToastLevel
	}{
		{"Info", types.ToastInfo},
		{"Success", types.ToastSuccess},
		{"Warning", types.ToastWarning},
		{"Error", types.ToastError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := renderer.Render([]types.Toast{{
				Level:   tt.level,
				Message: "Move failed " + tt.name,
				Expires: time.Now().Add(5 * time.Second),
			}}, 120)

			assert.Contains(t, result, "Move failed "+tt.name)
		})
	}
}

func TestToastRenderer_Render_KeepsNewest(t *testing.T) {
	renderer := New(styles.New())

	var toasts []types.Toast
	for _, msg := range []string{"one", "two", "three", "four"} {
		toasts = append(toasts, types.Toast{Message: msg})
	}

	result := renderer.Render(toasts, 120)

	assert.NotContains(t, result, "one")
	assert.Contains(t, result, "four")
	assert.Greater(t, len(strings.Split(result, "\n")), 1, "toasts stack vertically")
}

func TestPrune(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	toasts := []types.Toast{
		{Message: "old", Expires: now.Add(-time.Second)},
		{Message: "edge", Expires: now},
		{Message: "fresh", Expires: now.Add(time.Second)},
	}

	got := Prune(toasts, now)

	assert.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Message)
	assert.Nil(t, Prune(nil, now))
}
