package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/gosimple/slug"
	"github.com/kelseyhightower/envconfig"

	"github.com/ferrotask/ferrotask/internal/globby"
	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// WorkspaceFileName and ProjectFileName are the config filenames load.go
// looks for, at the workspace root and within each discovered project
// directory respectively.
const (
	WorkspaceFileName = "workspace.yml"
	ProjectFileName   = "project.yml"
)

// Workspace is a fully loaded workspace: its root directory and every
// project discovered under it, each already converted into the engine's
// internal/project and internal/task types.
type Workspace struct {
	Root     turbopath.AbsoluteSystemPath
	Config   WorkspaceConfig
	Projects map[string]*project.Project
	Tasks    map[string]map[string]*task.Task
}

// LoadWorkspace reads workspaceRoot/workspace.yml, resolves the project
// directories or globs it declares, and loads each discovered project's
// project.yml in turn. The returned error is a *multierror.Error
// accumulating every project-level failure, so a single bad project.yml
// does not hide problems in the rest of the workspace.
func LoadWorkspace(root turbopath.AbsoluteSystemPath) (*Workspace, error) {
	wsConfig, err := readWorkspaceConfig(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", WorkspaceFileName, err)
	}
	if err := envconfig.Process(EnvPrefix, &wsConfig.VCS); err != nil {
		return nil, fmt.Errorf("invalid environment variable: %w", err)
	}

	dirs, err := resolveProjectDirs(root, wsConfig.Projects)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{
		Root:     root,
		Config:   *wsConfig,
		Projects: make(map[string]*project.Project, len(dirs)),
		Tasks:    make(map[string]map[string]*task.Task, len(dirs)),
	}

	var errs []error
	for _, dir := range dirs {
		proj, tasks, err := loadProject(root, dir, *wsConfig)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", dir, err))
			continue
		}
		if _, dup := ws.Projects[proj.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate project id %q", dir, proj.ID))
			continue
		}
		ws.Projects[proj.ID] = proj
		ws.Tasks[proj.ID] = tasks
	}

	if len(errs) > 0 {
		return ws, joinErrors(errs)
	}
	return ws, nil
}

func readWorkspaceConfig(root turbopath.AbsoluteSystemPath) (*WorkspaceConfig, error) {
	path := root.Join(turbopath.RelativeSystemPath(WorkspaceFileName))
	b, err := path.ReadFile()
	if err != nil {
		return nil, err
	}
	var cfg WorkspaceConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveProjectDirs expands the workspace's declared project entries
// (literal directories or globs) into a sorted, de-duplicated list of
// workspace-relative directories that contain a project.yml.
func resolveProjectDirs(root turbopath.AbsoluteSystemPath, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string

	for _, pattern := range patterns {
		if !isGlobPattern(pattern) {
			if hasProjectFile(root, pattern) && !seen[pattern] {
				seen[pattern] = true
				out = append(out, pattern)
			}
			continue
		}

		matches, err := globby.Glob(context.Background(), root.Join(turbopath.RelativeSystemPath(pattern)).ToString())
		if err != nil {
			return nil, fmt.Errorf("project pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, err := turbopath.AbsoluteSystemPath(m).RelativeTo(root)
			if err != nil {
				continue
			}
			relStr := filepath.ToSlash(rel.ToString())
			if hasProjectFile(root, relStr) && !seen[relStr] {
				seen[relStr] = true
				out = append(out, relStr)
			}
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasProjectFile(root turbopath.AbsoluteSystemPath, dir string) bool {
	return root.Join(turbopath.RelativeSystemPath(filepath.Join(dir, ProjectFileName))).FileExists()
}

func loadProject(root turbopath.AbsoluteSystemPath, dir string, ws WorkspaceConfig) (*project.Project, map[string]*task.Task, error) {
	projectRoot := root.Join(turbopath.RelativeSystemPath(dir))
	b, err := projectRoot.Join(turbopath.RelativeSystemPath(ProjectFileName)).ReadFile()
	if err != nil {
		return nil, nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, nil, err
	}

	id := cfg.ID
	if id == "" {
		id = slug.Make(filepath.Base(dir))
	}

	source := turbopath.AnchoredUnixPath(filepath.ToSlash(dir))

	proj := &project.Project{
		ID:        id,
		Source:    source,
		Root:      projectRoot,
		Alias:     cfg.Alias,
		Language:  cfg.Language,
		Stack:     cfg.Stack,
		Type:      cfg.Type,
		DependsOn: cfg.DependsOn,
	}

	if cfg.Metadata != nil {
		proj.Metadata = &project.Metadata{
			Name:        cfg.Metadata.Name,
			Description: cfg.Metadata.Description,
			Channel:     cfg.Metadata.Channel,
			Owner:       cfg.Metadata.Owner,
			Maintainers: cfg.Metadata.Maintainers,
			Custom:      decodeCustomMetadata(cfg.Metadata.Custom),
		}
	}

	merged := mergeFileGroups(ws.FileGroups, cfg.FileGroups)
	proj.FileGroups = make(map[string]*project.FileGroup, len(merged))
	for name, fgCfg := range merged {
		proj.FileGroups[name] = buildFileGroup(fgCfg, source)
	}

	tasks := make(map[string]*task.Task, len(cfg.Tasks))
	for name, taskCfg := range cfg.Tasks {
		t, err := buildTask(id, name, taskCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("task %q: %w", name, err)
		}
		tasks[name] = t
	}

	return proj, tasks, nil
}

func buildTask(projectID, taskName string, cfg TaskConfig) (*task.Task, error) {
	args, err := parseArgs(cfg.Args)
	if err != nil {
		return nil, err
	}

	inputs := make([]task.InputPath, len(cfg.Inputs))
	for i, raw := range cfg.Inputs {
		inputs[i] = classifyInput(raw)
	}

	outputs := make([]task.OutputPath, len(cfg.Outputs))
	for i, raw := range cfg.Outputs {
		out, err := classifyOutput(raw)
		if err != nil {
			return nil, err
		}
		outputs[i] = out
	}

	return &task.Task{
		Target:  task.Target{ProjectID: projectID, TaskID: taskName},
		Command: cfg.Command,
		Script:  cfg.Script,
		Args:    args,
		Env:     cfg.Env,
		Inputs:  inputs,
		Outputs: outputs,
		Options: task.Options{
			RunFromWorkspaceRoot: cfg.Options.RunFromWorkspaceRoot,
			AllowFailure:         cfg.Options.AllowFailure,
		},
		Platform: cfg.Platform,
		Type:     cfg.Type,
	}, nil
}

// taskTargetString renders "project#task" without constructing a
// task.Target, for use in validation error messages.
func taskTargetString(projectID, taskID string) string {
	return strings.Join([]string{projectID, taskID}, task.TargetDelimiter)
}
