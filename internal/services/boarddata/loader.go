// Package boarddata loads a project's board and persists moves and
// creations through the repository.
package boarddata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/query"
	"golang.org/x/sync/errgroup"
)

// Repository is the remote data source for boards. *api.Client implements it.
type Repository interface {
	ListStages(ctx context.Context, stageSetID string) ([]domain.Stage, error)
	ListWorkItems(ctx context.Context, projectID string) ([]domain.WorkItem, error)
	PatchStage(ctx context.Context, id string, patch domain.StagePatch) (domain.Stage, error)
	PatchWorkItem(ctx context.Context, id string, patch domain.WorkItemPatch) (domain.WorkItem, error)
	CreateStage(ctx context.Context, stage domain.Stage, requestID string) (domain.Stage, error)
	CreateWorkItem(ctx context.Context, item domain.WorkItem, requestID string) (domain.WorkItem, error)
}

// Snapshot is one load of a board. Each half carries its own error so the
// caller can tell which request failed.
type Snapshot struct {
	Columns    []domain.Stage
	Tasks      []domain.WorkItem
	ColumnsErr error
	TasksErr   error
	// Disabled is set when the project has no stage set; nothing was fetched
	Disabled bool
}

// Err returns the first fetch error, if any
func (s Snapshot) Err() error {
	if s.ColumnsErr != nil {
		return s.ColumnsErr
	}
	return s.TasksErr
}

// Board returns the snapshot as an unsorted board
func (s Snapshot) Board() dnd.Board {
	return dnd.Board{Columns: s.Columns, Tasks: s.Tasks}
}

// Loader reads and writes one project's board
type Loader struct {
	project domain.Project
	repo    Repository
	cache   *query.Cache
	logger  *slog.Logger
}

// NewLoader creates a loader for project. cache may be nil.
func NewLoader(project domain.Project, repo Repository, cache *query.Cache, logger *slog.Logger) *Loader {
	if cache == nil {
		cache = query.NewCache(0)
	}
	return &Loader{
		project: project,
		repo:    repo,
		cache:   cache,
		logger:  logger,
	}
}

// Project returns the project the loader serves
func (l *Loader) Project() domain.Project {
	return l.project
}

func stagesKey(stageSetID string) string { return "taskStages/" + stageSetID + "/" }
func itemsKey(projectID string) string   { return "wbsItems/" + projectID + "/" }

// Load fetches stages and work items concurrently. A failure of one request
// does not cancel the other; both errors are reported in the snapshot. The
// returned error is only set when ctx ended.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	if !l.project.HasStageSet() {
		l.logger.Debug("board disabled, project has no stage set", "project", l.project.ID)
		return Snapshot{Disabled: true}, nil
	}

	var snap Snapshot
	// a plain group: one failed fetch must not cancel the other
	var g errgroup.Group

	g.Go(func() error {
		snap.Columns, snap.ColumnsErr = query.Get(ctx, l.cache, stagesKey(l.project.StageSetID),
			func(ctx context.Context) ([]domain.Stage, error) {
				return l.repo.ListStages(ctx, l.project.StageSetID)
			})
		return ctx.Err()
	})
	g.Go(func() error {
		snap.Tasks, snap.TasksErr = query.Get(ctx, l.cache, itemsKey(l.project.ID),
			func(ctx context.Context) ([]domain.WorkItem, error) {
				return l.repo.ListWorkItems(ctx, l.project.ID)
			})
		return ctx.Err()
	})
	// fetch failures stay in the snapshot; only the end of ctx fails Load
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	if err := snap.Err(); err != nil {
		l.logger.Error("failed to load board", "project", l.project.ID, "error", err)
	}
	l.logger.Debug("board loaded", "columns", len(snap.Columns), "tasks", len(snap.Tasks))
	return snap, nil
}

// Refresh drops cached lists so the next Load hits the server
func (l *Loader) Refresh() {
	l.cache.Invalidate(stagesKey(l.project.StageSetID))
	l.cache.Invalidate(itemsKey(l.project.ID))
}

// MoveColumnAPI persists a column's new sequence
func (l *Loader) MoveColumnAPI(ctx context.Context, stageID string, sequence int) error {
	if _, err := l.repo.PatchStage(ctx, stageID, domain.StagePatch{Sequence: domain.IntPtr(sequence)}); err != nil {
		l.logger.Error("failed to move column", "stage", stageID, "error", err)
		return fmt.Errorf("move column %s: %w", stageID, err)
	}
	l.cache.Invalidate(stagesKey(l.project.StageSetID))
	return nil
}

// MoveCardAPI persists a card's new stage and/or order
func (l *Loader) MoveCardAPI(ctx context.Context, itemID string, patch domain.WorkItemPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if _, err := l.repo.PatchWorkItem(ctx, itemID, patch); err != nil {
		l.logger.Error("failed to move card", "item", itemID, "error", err)
		return fmt.Errorf("move card %s: %w", itemID, err)
	}
	l.cache.Invalidate(itemsKey(l.project.ID))
	return nil
}

// Persist sends the patch of a resolved move
func (l *Loader) Persist(ctx context.Context, patch dnd.Patch) error {
	switch {
	case patch.Stage != nil && patch.Stage.Sequence != nil:
		return l.MoveColumnAPI(ctx, patch.Target.ID, *patch.Stage.Sequence)
	case patch.WorkItem != nil:
		return l.MoveCardAPI(ctx, patch.Target.ID, *patch.WorkItem)
	}
	return nil
}

// CreateColumn creates a stage in the project's stage set
func (l *Loader) CreateColumn(ctx context.Context, name string, sequence int, requestID string) (domain.Stage, error) {
	stage := domain.Stage{Name: name, Sequence: sequence, StageSetID: l.project.StageSetID}
	created, err := l.repo.CreateStage(ctx, stage, requestID)
	if err != nil {
		l.logger.Error("failed to create column", "name", name, "error", err)
		return domain.Stage{}, fmt.Errorf("create column %q: %w", name, err)
	}
	l.cache.Invalidate(stagesKey(l.project.StageSetID))
	return created, nil
}

// CreateCard creates a work item at the end of stageID
func (l *Loader) CreateCard(ctx context.Context, title, stageID string, order int, requestID string) (domain.WorkItem, error) {
	item := domain.WorkItem{
		Title:     title,
		TaskStage: domain.Ref{ID: stageID},
		Order:     order,
		ProjectID: l.project.ID,
	}
	created, err := l.repo.CreateWorkItem(ctx, item, requestID)
	if err != nil {
		l.logger.Error("failed to create card", "title", title, "error", err)
		return domain.WorkItem{}, fmt.Errorf("create card %q: %w", title, err)
	}
	l.cache.Invalidate(itemsKey(l.project.ID))
	return created, nil
}
