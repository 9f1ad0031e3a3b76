package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/riordanpawley/wbsboard/internal/config"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/api"
	"github.com/riordanpawley/wbsboard/internal/services/boarddata"
	"github.com/riordanpawley/wbsboard/internal/services/query"
)

// Dependencies holds all the services needed for CLI commands
type Dependencies struct {
	Config *config.Config
	Client *api.Client
	Cache  *query.Cache
	Logger *slog.Logger
}

// NewDependencies creates a new Dependencies instance with all required services
func NewDependencies(cfg *config.Config, logger *slog.Logger) *Dependencies {
	doer := &api.TimeoutDoer{Client: &http.Client{}, Timeout: cfg.API.Timeout()}
	client := api.NewClient(doer, api.Options{
		BaseURL:  cfg.API.BaseURL,
		Token:    cfg.API.Token,
		Tenant:   cfg.API.Tenant,
		MaxTries: uint(cfg.API.RetryAttempts),
	}, logger)

	return &Dependencies{
		Config: cfg,
		Client: client,
		Cache:  query.NewCache(cfg.Board.CacheTTL()),
		Logger: logger,
	}
}

// Loader returns a board loader for project backed by the shared cache
func (d *Dependencies) Loader(project domain.Project) *boarddata.Loader {
	return boarddata.NewLoader(project, d.Client, d.Cache, d.Logger)
}

// StagesCommand prints the stages of a stage set in sequence order
func StagesCommand(ctx context.Context, deps *Dependencies, w io.Writer, stageSetID string) error {
	deps.Logger.Info("listing stages", "stageSet", stageSetID)

	stages, err := deps.Client.ListStages(ctx, stageSetID)
	if err != nil {
		return fmt.Errorf("failed to list stages: %w", err)
	}
	stages = domain.SortStages(stages)

	if len(stages) == 0 {
		fmt.Fprintln(w, "No stages")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tNAME\tCOLOR")
	for _, s := range stages {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Sequence, s.ID, s.Name, s.Color)
	}
	return tw.Flush()
}

// ItemsCommand prints a project's work items grouped by stage and order
func ItemsCommand(ctx context.Context, deps *Dependencies, w io.Writer, projectID string) error {
	deps.Logger.Info("listing work items", "project", projectID)

	items, err := deps.Client.ListWorkItems(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to list work items: %w", err)
	}
	items = domain.SortWorkItems(items)
	slices.SortStableFunc(items, func(a, b domain.WorkItem) int {
		return strings.Compare(a.StageID(), b.StageID())
	})

	if len(items) == 0 {
		fmt.Fprintln(w, "No work items")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tORDER\tID\tTITLE")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", item.StageID(), item.Order, item.ID, truncate(item.Title, 60))
	}
	return tw.Flush()
}

// MoveCommand loads the board, resolves dropping active onto over and
// persists the resulting patch. A drop that does not describe a move
// prints a notice and succeeds.
func MoveCommand(ctx context.Context, deps *Dependencies, w io.Writer, project domain.Project, active, over dnd.Item) error {
	deps.Logger.Info("moving", "active", active, "over", over, "project", project.ID)

	loader := deps.Loader(project)
	snapshot, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	if snapshot.Disabled {
		return fmt.Errorf("project %s has no stage set", project.ID)
	}
	if err := snapshot.Err(); err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	move, err := dnd.Resolve(snapshot.Board(), active, &over)
	if errors.Is(err, domain.ErrInvalidDrop) {
		fmt.Fprintf(w, "Nothing to do: %v\n", err)
		return nil
	}
	if err != nil {
		return err
	}

	body, err := patchBody(move.Patch)
	if err != nil {
		return err
	}
	if err := loader.Persist(ctx, move.Patch); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: PATCH %s %s\n", move.Kind, move.Patch.Path(), body)
	return nil
}

func patchBody(p dnd.Patch) (string, error) {
	var v any = p.WorkItem
	if p.Stage != nil {
		v = p.Stage
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode patch: %w", err)
	}
	return string(data), nil
}

// ProjectsCommand prints the bookmarked boards
func ProjectsCommand(w io.Writer, reg *config.ProjectsRegistry) error {
	if len(reg.Projects) == 0 {
		fmt.Fprintln(w, "No projects (use 'wbsboard projects add')")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tNAME\tPROJECT\tSTAGE SET")
	for _, p := range reg.Projects {
		mark := ""
		if p.Name == reg.DefaultProject {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", mark, p.Name, p.ProjectID, p.StageSetID)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
