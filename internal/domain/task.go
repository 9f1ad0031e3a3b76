package domain

import (
	"encoding/json"
	"time"
)

// WorkItem is a board card: a work-breakdown item living in exactly one stage
type WorkItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TaskStage Ref       `json:"taskStage"`
	Order     int       `json:"order"`
	ProjectID string    `json:"-"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// StageID returns the id of the stage the item sits in
func (w WorkItem) StageID() string {
	return w.TaskStage.ID
}

type workItemWire struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title,omitempty"`
	TaskStage *Ref       `json:"taskStage,omitempty"`
	Order     int        `json:"order"`
	Project   *Ref       `json:"project,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// MarshalJSON nests the project reference and drops empty fields
func (w WorkItem) MarshalJSON() ([]byte, error) {
	wire := workItemWire{
		ID:        w.ID,
		Title:     w.Title,
		TaskStage: RefOf(w.TaskStage.ID),
		Order:     w.Order,
		Project:   RefOf(w.ProjectID),
	}
	if !w.UpdatedAt.IsZero() {
		wire.UpdatedAt = &w.UpdatedAt
	}
	return json.Marshal(wire)
}

// UnmarshalJSON un-nests the project and stage references
func (w *WorkItem) UnmarshalJSON(data []byte) error {
	var wire workItemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*w = WorkItem{ID: wire.ID, Title: wire.Title, Order: wire.Order}
	if wire.TaskStage != nil {
		w.TaskStage = *wire.TaskStage
	}
	if wire.Project != nil {
		w.ProjectID = wire.Project.ID
	}
	if wire.UpdatedAt != nil {
		w.UpdatedAt = *wire.UpdatedAt
	}
	return nil
}

// MarshalJSON nests the stage-set reference and drops empty fields
func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(stageWire{
		ID:       s.ID,
		Name:     s.Name,
		Sequence: s.Sequence,
		Color:    s.Color,
		StageSet: RefOf(s.StageSetID),
	})
}

// UnmarshalJSON un-nests the stage-set reference
func (s *Stage) UnmarshalJSON(data []byte) error {
	var wire stageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*s = Stage{ID: wire.ID, Name: wire.Name, Sequence: wire.Sequence, Color: wire.Color}
	if wire.StageSet != nil {
		s.StageSetID = wire.StageSet.ID
	}
	return nil
}

// StagePatch is the minimal body of PATCH /taskStages/{id}
type StagePatch struct {
	Sequence *int `json:"sequence,omitempty"`
}

// WorkItemPatch is the minimal body of PATCH /wbsItems/{id}.
// Only the fields a move changed are set.
type WorkItemPatch struct {
	TaskStage *Ref `json:"taskStage,omitempty"`
	Order     *int `json:"order,omitempty"`
}

// IsEmpty reports whether the patch would change nothing
func (p WorkItemPatch) IsEmpty() bool {
	return p.TaskStage == nil && p.Order == nil
}

// IntPtr is a small helper for building patches
func IntPtr(v int) *int {
	return &v
}
