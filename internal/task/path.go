package task

import "github.com/ferrotask/ferrotask/internal/turbopath"

// InputKind discriminates the tagged variants an InputPath may hold.
type InputKind int

const (
	InputProjectFile InputKind = iota
	InputWorkspaceFile
	InputProjectGlob
	InputWorkspaceGlob
	InputEnvVar
	InputEnvVarGlob
	InputTokenFunc
	InputTokenVar
)

// InputPath is exactly one of: ProjectFile(rel), WorkspaceFile(rel),
// ProjectGlob(rel), WorkspaceGlob(rel), EnvVar(name), EnvVarGlob(pattern),
// TokenFunc(literal), TokenVar(literal).
type InputPath struct {
	Kind  InputKind
	Value string
}

// ToWorkspaceRelative converts a ProjectXxx(rel) into project_source.join(rel)
// and a WorkspaceXxx(rel) into rel unchanged. It reports ok=false for
// variants that are not plain paths (EnvVar, EnvVarGlob, TokenFunc, TokenVar).
func (p InputPath) ToWorkspaceRelative(projectSource turbopath.AnchoredUnixPath) (turbopath.AnchoredUnixPath, bool) {
	switch p.Kind {
	case InputProjectFile, InputProjectGlob:
		return projectSource.Join(turbopath.RelativeUnixPath(p.Value)), true
	case InputWorkspaceFile, InputWorkspaceGlob:
		return turbopath.AnchoredUnixPath(p.Value), true
	default:
		return "", false
	}
}

// IsGlob reports whether this variant is declared as a glob rather than a
// discrete file.
func (p InputPath) IsGlob() bool {
	return p.Kind == InputProjectGlob || p.Kind == InputWorkspaceGlob
}

// OutputKind discriminates the tagged variants an OutputPath may hold.
// Outputs omit the env-var variants InputPath carries, since env vars are
// never build outputs.
type OutputKind int

const (
	OutputProjectFile OutputKind = iota
	OutputWorkspaceFile
	OutputProjectGlob
	OutputWorkspaceGlob
	OutputTokenFunc
	OutputTokenVar
)

// OutputPath is exactly one of: ProjectFile(rel), WorkspaceFile(rel),
// ProjectGlob(rel), WorkspaceGlob(rel), TokenFunc(literal), TokenVar(literal).
type OutputPath struct {
	Kind  OutputKind
	Value string
}

// ToWorkspaceRelative mirrors InputPath.ToWorkspaceRelative; it reports
// ok=false for TokenFunc and TokenVar, which are not plain paths.
func (p OutputPath) ToWorkspaceRelative(projectSource turbopath.AnchoredUnixPath) (turbopath.AnchoredUnixPath, bool) {
	switch p.Kind {
	case OutputProjectFile, OutputProjectGlob:
		return projectSource.Join(turbopath.RelativeUnixPath(p.Value)), true
	case OutputWorkspaceFile, OutputWorkspaceGlob:
		return turbopath.AnchoredUnixPath(p.Value), true
	default:
		return "", false
	}
}

// IsGlob distinguishes glob from file variants.
func (p OutputPath) IsGlob() bool {
	return p.Kind == OutputProjectGlob || p.Kind == OutputWorkspaceGlob
}
