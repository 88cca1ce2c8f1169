// Package project describes the read-only project graph inputs consumed by
// the token expansion engine: a Project, its declared metadata, and its
// named FileGroups.
package project

import (
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// Metadata is the optional, free-form project metadata record. Fields that
// were not declared in project configuration are left at their zero value,
// so an undeclared field and a field declared as an empty string read the
// same; token expansion treats both as an absent value.
type Metadata struct {
	Name        string
	Description string
	Channel     string
	Owner       string
	Maintainers []string
	Custom      map[string]string
}

// Project is the read-only project description the engine expands tokens
// against. It is borrowed for the lifetime of an expand.Engine.
type Project struct {
	// ID is the project's stable identifier, used as the "$project" variable.
	ID string

	// Source is the project's directory, relative to the workspace root.
	Source turbopath.AnchoredUnixPath

	// Root is the project's directory as an absolute path.
	Root turbopath.AbsoluteSystemPath

	// Alias is an optional secondary identifier (e.g. a package.json name).
	Alias string

	Language string
	Stack    string
	Type     string

	// Metadata is nil when the project declared no metadata block.
	Metadata *Metadata

	FileGroups map[string]*FileGroup

	// DependsOn names other projects (by ID) this project declares an
	// ordering dependency on. The expansion engine never reads this; it
	// exists for the `graph` command's project-level ordering.
	DependsOn []string
}

// FileGroup looks up a named file group, reporting whether it exists.
func (p *Project) FileGroup(name string) (*FileGroup, bool) {
	fg, ok := p.FileGroups[name]
	return fg, ok
}
