// Package config loads workspace and project configuration from YAML files
// on disk into the engine's read-only internal/project and internal/task
// types, applies environment-variable overrides, and validates the result.
package config

// WorkspaceConfig is the root workspace.yml document. It declares where
// projects live and the file groups and VCS defaults every project inherits
// unless it overrides them.
type WorkspaceConfig struct {
	// Projects lists project directories or globs, relative to the
	// workspace root, e.g. "apps/*" or "packages/core".
	Projects []string `yaml:"projects"`

	// FileGroups are merged into each project's own file groups, with the
	// project's own declarations taking precedence on name collision.
	FileGroups map[string]FileGroupConfig `yaml:"fileGroups"`

	VCS VCSConfig `yaml:"vcs"`
}

// VCSConfig names the version control defaults used for change detection
// diagnostics; the expansion engine itself never reads this.
type VCSConfig struct {
	Manager       string `yaml:"manager" envconfig:"vcs_manager"`
	DefaultBranch string `yaml:"defaultBranch" envconfig:"vcs_default_branch"`
}

// FileGroupConfig is the raw, pre-parsed form of a project.FileGroup: every
// entry is still the string a user wrote in YAML, not yet classified into a
// turbopath.AnchoredUnixPath.
type FileGroupConfig struct {
	Files []string `yaml:"files"`
	Globs []string `yaml:"globs"`
	Env   []string `yaml:"env"`
}

// ProjectConfig is a single project's project.yml document.
type ProjectConfig struct {
	// ID is optional; when omitted it is derived by slugifying the
	// project's directory name.
	ID string `yaml:"id"`

	Alias    string `yaml:"alias"`
	Language string `yaml:"language"`
	Stack    string `yaml:"stack"`
	Type     string `yaml:"type"`

	Metadata *MetadataConfig `yaml:"metadata"`

	FileGroups map[string]FileGroupConfig `yaml:"fileGroups"`

	Tasks map[string]TaskConfig `yaml:"tasks"`

	// DependsOn names other projects, by id, this project depends on.
	// Consumed only by the `graph` command's ordering, never by the
	// expansion engine.
	DependsOn []string `yaml:"dependsOn"`
}

// MetadataConfig is the raw form of project.Metadata. Custom holds whatever
// scalar-valued keys a project declares beyond the well-known fields; YAML
// gives us these as interface{} values, so they are coerced to strings at
// load time (decodeCustomMetadata in parse.go) rather than carried as-is.
type MetadataConfig struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Channel     string                 `yaml:"channel"`
	Owner       string                 `yaml:"owner"`
	Maintainers []string               `yaml:"maintainers"`
	Custom      map[string]interface{} `yaml:"custom"`
}

// TaskOptionsConfig is the raw form of task.Options.
type TaskOptionsConfig struct {
	RunFromWorkspaceRoot bool `yaml:"runFromWorkspaceRoot"`
	AllowFailure         bool `yaml:"allowFailure"`
}

// TaskConfig is a single task's declaration within a project.yml. Args may
// be written as a YAML sequence (used verbatim) or a single shell-style
// string (split via task.ParseArgs at load time, see parse.go). Inputs and
// Outputs are raw strings in the grammar decoded by classifyInput/
// classifyOutput in parse.go.
type TaskConfig struct {
	Command string            `yaml:"command"`
	Script  string            `yaml:"script"`
	Args    interface{}       `yaml:"args"`
	Env     map[string]string `yaml:"env"`

	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`

	Options TaskOptionsConfig `yaml:"options"`

	Platform string `yaml:"platform"`
	Type     string `yaml:"type"`
}
