// Package cli wires configuration, logging and services into the wbsboard
// command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/wbsboard/internal/app"
	"github.com/riordanpawley/wbsboard/internal/config"
	"github.com/riordanpawley/wbsboard/internal/core/dnd"
	"github.com/riordanpawley/wbsboard/internal/domain"
	"github.com/riordanpawley/wbsboard/internal/services/mutation"
	"github.com/spf13/cobra"
)

// ErrNoProject is returned when neither flags nor the registry name a board
var ErrNoProject = errors.New("no project given: pass --project or bookmark one with 'wbsboard projects add'")

type options struct {
	configPath string
	apiURL     string
	logLevel   string

	board    string
	project  string
	stageSet string
}

// Execute runs the command tree with os.Args
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the wbsboard command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "wbsboard",
		Short: "Kanban board for ERP project stages and work items",
		Long: `wbsboard shows a project's task stages as columns and its work items as
cards. Columns and cards can be moved with the keyboard; every move is
applied immediately and saved to the ERP API in the background.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is ./.wbsboard.{json,yaml})")
	flags.StringVar(&opts.apiURL, "api-url", "", "ERP API base URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newBoardCommand(opts),
		newStagesCommand(opts),
		newItemsCommand(opts),
		newMoveColumnCommand(opts),
		newMoveCardCommand(opts),
		newProjectsCommand(),
		newConfigCommand(opts),
	)
	return root
}

// projectFlags registers the flags that pick a board
func projectFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.project, "project", "", "project id")
	cmd.Flags().StringVar(&opts.stageSet, "stage-set", "", "task stage set id")
	cmd.Flags().StringVarP(&opts.board, "board", "b", "", "bookmarked project name")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(opts.apiURL, "/")
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// newLogger creates a text logger on w at the named level
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// setup loads config and builds dependencies logging to w
func setup(opts *options, w io.Writer) (*Dependencies, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(w, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return NewDependencies(cfg, logger), nil
}

// resolveProject picks the board from explicit flags, a bookmark name, or
// the default bookmark, in that order
func resolveProject(opts *options) (domain.Project, error) {
	if opts.project != "" {
		return domain.Project{ID: opts.project, StageSetID: opts.stageSet}, nil
	}

	reg, err := config.LoadProjectsRegistry()
	if err != nil {
		return domain.Project{}, fmt.Errorf("failed to load projects: %w", err)
	}

	var p *config.Project
	if opts.board != "" {
		if p, err = reg.Get(opts.board); err != nil {
			return domain.Project{}, fmt.Errorf("%s: %w", opts.board, err)
		}
	} else if p = reg.GetDefault(); p == nil {
		return domain.Project{}, ErrNoProject
	}

	project := p.Domain()
	if opts.stageSet != "" {
		project.StageSetID = opts.stageSet
	}
	return project, nil
}

func newBoardCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(opts)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// stdout is the screen; log to a file or nowhere
			var logOut io.Writer = io.Discard
			if cfg.Log.File != "" {
				f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			logger, err := newLogger(logOut, cfg.Log.Level)
			if err != nil {
				return err
			}

			return runBoard(cmd.Context(), NewDependencies(cfg, logger), project)
		},
	}
	projectFlags(cmd, opts)
	return cmd
}

// runBoard runs the TUI until the user quits, then gives in-flight saves
// up to one request timeout to finish
func runBoard(ctx context.Context, deps *Dependencies, project domain.Project) error {
	queue := mutation.NewQueue(deps.Logger)
	model := app.New(deps.Config, deps.Loader(project), queue, deps.Logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()

	done := make(chan struct{})
	go func() {
		queue.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(deps.Config.API.Timeout()):
		deps.Logger.Warn("exiting with saves in flight", "pending", queue.Pending())
	}

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newStagesCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List the stages of a stage set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.stageSet == "" {
				project, err := resolveProject(opts)
				if err != nil {
					return err
				}
				if !project.HasStageSet() {
					return fmt.Errorf("project %s has no stage set", project.ID)
				}
				opts.stageSet = project.StageSetID
			}
			deps, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return StagesCommand(cmd.Context(), deps, cmd.OutOrStdout(), opts.stageSet)
		},
	}
	projectFlags(cmd, opts)
	return cmd
}

func newItemsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "List a project's work items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(opts)
			if err != nil {
				return err
			}
			deps, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return ItemsCommand(cmd.Context(), deps, cmd.OutOrStdout(), project.ID)
		},
	}
	projectFlags(cmd, opts)
	return cmd
}

func newMoveColumnCommand(opts *options) *cobra.Command {
	var column, onto string
	cmd := &cobra.Command{
		Use:   "move-column",
		Short: "Move a column to another column's position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(opts)
			if err != nil {
				return err
			}
			deps, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return MoveCommand(cmd.Context(), deps, cmd.OutOrStdout(), project, dnd.Column(column), dnd.Column(onto))
		},
	}
	projectFlags(cmd, opts)
	cmd.Flags().StringVar(&column, "column", "", "stage id to move")
	cmd.Flags().StringVar(&onto, "onto", "", "stage id whose position it takes")
	_ = cmd.MarkFlagRequired("column")
	_ = cmd.MarkFlagRequired("onto")
	return cmd
}

func newMoveCardCommand(opts *options) *cobra.Command {
	var (
		card, onto string
		ontoColumn bool
	)
	cmd := &cobra.Command{
		Use:   "move-card",
		Short: "Move a card onto another card or a column",
		Long: `Move a card onto another card, taking its place, or with --onto-column
onto a column's empty surface, appending it at the end.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := resolveProject(opts)
			if err != nil {
				return err
			}
			deps, err := setup(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			over := dnd.Card(onto)
			if ontoColumn {
				over = dnd.Column(onto)
			}
			return MoveCommand(cmd.Context(), deps, cmd.OutOrStdout(), project, dnd.Card(card), over)
		},
	}
	projectFlags(cmd, opts)
	cmd.Flags().StringVar(&card, "card", "", "work item id to move")
	cmd.Flags().StringVar(&onto, "onto", "", "work item (or stage, with --onto-column) id to drop on")
	cmd.Flags().BoolVar(&ontoColumn, "onto-column", false, "treat --onto as a stage id")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("onto")
	return cmd
}

func newProjectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List bookmarked boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := config.LoadProjectsRegistry()
			if err != nil {
				return fmt.Errorf("failed to load projects: %w", err)
			}
			return ProjectsCommand(cmd.OutOrStdout(), reg)
		},
	}

	var projectID, stageSetID string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Bookmark a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateRegistry(func(reg *config.ProjectsRegistry) error {
				return reg.Add(args[0], projectID, stageSetID)
			})
		},
	}
	add.Flags().StringVar(&projectID, "project", "", "project id")
	add.Flags().StringVar(&stageSetID, "stage-set", "", "task stage set id")
	_ = add.MarkFlagRequired("project")

	remove := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateRegistry(func(reg *config.ProjectsRegistry) error {
				return reg.Remove(args[0])
			})
		},
	}

	def := &cobra.Command{
		Use:   "default NAME",
		Short: "Open this board when no project is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateRegistry(func(reg *config.ProjectsRegistry) error {
				return reg.SetDefault(args[0])
			})
		},
	}

	cmd.AddCommand(add, remove, def)
	return cmd
}

func updateRegistry(fn func(*config.ProjectsRegistry) error) error {
	reg, err := config.LoadProjectsRegistry()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if err := fn(reg); err != nil {
		return err
	}
	return config.SaveProjectsRegistry(reg)
}

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write the effective configuration to a file",
		Long: `Write the configuration in effect (defaults, file, environment and flags)
to PATH, .wbsboard.json by default. The API token is never written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".wbsboard.json"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
