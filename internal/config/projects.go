package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/riordanpawley/wbsboard/internal/domain"
)

// ProjectsRegistry holds the boards the user has bookmarked
type ProjectsRegistry struct {
	Projects       []Project `json:"projects"`
	DefaultProject string    `json:"defaultProject"`
}

// Project is a bookmarked board: a short name for a project and its stage set
type Project struct {
	Name       string `json:"name"`
	ProjectID  string `json:"projectId"`
	StageSetID string `json:"stageSetId"`
}

// Domain returns the project reference the board loader works with
func (p Project) Domain() domain.Project {
	return domain.Project{ID: p.ProjectID, Name: p.Name, StageSetID: p.StageSetID}
}

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrDuplicateProject = errors.New("project already exists")
	ErrEmptyName        = errors.New("project name cannot be empty")
	ErrEmptyProjectID   = errors.New("project id cannot be empty")
)

// registryPath returns where bookmarks are stored. Overridden in tests.
var registryPath = func() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wbsboard", "projects.json"), nil
}

// LoadProjectsRegistry reads the bookmarks. A missing file is an empty
// registry.
func LoadProjectsRegistry() (*ProjectsRegistry, error) {
	path, err := registryPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ProjectsRegistry{Projects: []Project{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var reg ProjectsRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &reg, nil
}

// SaveProjectsRegistry writes the bookmarks through a temp file so a crash
// never leaves a truncated registry behind
func SaveProjectsRegistry(reg *ProjectsRegistry) error {
	path, err := registryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (r *ProjectsRegistry) index(name string) int {
	return slices.IndexFunc(r.Projects, func(p Project) bool { return p.Name == name })
}

// Add bookmarks a board. The stage set may be empty; such a board loads
// nothing until one is set. The first bookmark becomes the default.
func (r *ProjectsRegistry) Add(name, projectID, stageSetID string) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return ErrEmptyName
	case projectID == "":
		return ErrEmptyProjectID
	case r.index(name) >= 0:
		return fmt.Errorf("%s: %w", name, ErrDuplicateProject)
	}

	r.Projects = append(r.Projects, Project{Name: name, ProjectID: projectID, StageSetID: stageSetID})
	if len(r.Projects) == 1 {
		r.DefaultProject = name
	}
	return nil
}

// Remove deletes a bookmark. Removing the default hands it to the first
// remaining bookmark.
func (r *ProjectsRegistry) Remove(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	i := r.index(name)
	if i < 0 {
		return ErrProjectNotFound
	}
	r.Projects = slices.Delete(r.Projects, i, i+1)

	if r.DefaultProject == name {
		r.DefaultProject = ""
		if len(r.Projects) > 0 {
			r.DefaultProject = r.Projects[0].Name
		}
	}
	return nil
}

// SetDefault picks the board opened when no project is given
func (r *ProjectsRegistry) SetDefault(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if r.index(name) < 0 {
		return ErrProjectNotFound
	}
	r.DefaultProject = name
	return nil
}

// Get returns a copy of the named bookmark
func (r *ProjectsRegistry) Get(name string) (*Project, error) {
	i := r.index(name)
	if i < 0 {
		return nil, ErrProjectNotFound
	}
	p := r.Projects[i]
	return &p, nil
}

// GetDefault returns the default bookmark, or nil if none is set
func (r *ProjectsRegistry) GetDefault() *Project {
	if r.DefaultProject == "" {
		return nil
	}
	p, _ := r.Get(r.DefaultProject)
	return p
}
