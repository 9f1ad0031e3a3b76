package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkItem_UnmarshalNestedRefs(t *testing.T) {
	data := `{"id":"w-1","title":"Draft WBS","taskStage":{"id":"s-2"},"order":3,"project":{"id":"p-9"}}`

	var w WorkItem
	require.NoError(t, json.Unmarshal([]byte(data), &w))

	assert.Equal(t, "w-1", w.ID)
	assert.Equal(t, "s-2", w.StageID())
	assert.Equal(t, 3, w.Order)
	assert.Equal(t, "p-9", w.ProjectID)
}

func TestWorkItem_MarshalStripsEmptyRefs(t *testing.T) {
	out, err := json.Marshal(WorkItem{Title: "New card", TaskStage: Ref{ID: "s-1"}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"title":"New card","taskStage":{"id":"s-1"},"order":0}`, string(out))
}

func TestStage_RoundTripStageSet(t *testing.T) {
	var s Stage
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s-1","name":"Todo","sequence":2,"taskStageSet":{"id":"set-1"}}`), &s))
	assert.Equal(t, "set-1", s.StageSetID)
	assert.Equal(t, 2, s.Sequence)

	out, err := json.Marshal(Stage{Name: "Review", Sequence: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Review","sequence":4}`, string(out))
}

func TestPatches_MinimalPayload(t *testing.T) {
	tests := []struct {
		name  string
		patch any
		want  string
	}{
		{name: "move column", patch: StagePatch{Sequence: IntPtr(2)}, want: `{"sequence":2}`},
		{name: "cross column", patch: WorkItemPatch{TaskStage: RefOf("s-3")}, want: `{"taskStage":{"id":"s-3"}}`},
		{name: "same column", patch: WorkItemPatch{Order: IntPtr(0)}, want: `{"order":0}`},
		{name: "cross column with position", patch: WorkItemPatch{TaskStage: RefOf("s-3"), Order: IntPtr(1)}, want: `{"taskStage":{"id":"s-3"},"order":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.patch)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestWorkItemPatch_IsEmpty(t *testing.T) {
	assert.True(t, WorkItemPatch{}.IsEmpty())
	assert.False(t, WorkItemPatch{Order: IntPtr(0)}.IsEmpty())
	assert.False(t, WorkItemPatch{TaskStage: RefOf("b")}.IsEmpty())
}
