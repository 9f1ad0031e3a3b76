// Package domain contains core business types for the wbsboard application.
package domain

// Ref is a foreign-key reference as the ERP API nests it: {"id": "..."}
type Ref struct {
	ID string `json:"id"`
}

// RefOf returns a reference to id, or nil when id is empty so that
// omitempty drops it from payloads.
func RefOf(id string) *Ref {
	if id == "" {
		return nil
	}
	return &Ref{ID: id}
}

// Project scopes a board: its work items and the stage set they move through
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	StageSetID string `json:"taskStageSetId,omitempty"`
}

// HasStageSet reports whether the project can be loaded as a board
func (p Project) HasStageSet() bool {
	return p.StageSetID != ""
}

// Stage is a board column: a named phase of the project's workflow
type Stage struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Sequence   int    `json:"sequence"`
	Color      string `json:"color,omitempty"`
	StageSetID string `json:"-"`
}

// stageWire is the nested shape used on the wire
type stageWire struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Sequence int    `json:"sequence"`
	Color    string `json:"color,omitempty"`
	StageSet *Ref   `json:"taskStageSet,omitempty"`
}
