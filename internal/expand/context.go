package expand

import "github.com/ferrotask/ferrotask/internal/turbopath"

// VCSInfo carries the source-control facts $vcsBranch/$vcsRepository/
// $vcsRevision resolve to. Callers that have no VCS context may leave
// these empty; unresolved variables simply render as empty strings.
type VCSInfo struct {
	Branch     string
	Repository string
	Revision   string
}

// ExpansionContext is the workspace-level state shared across every task
// expanded in a single run: the workspace root, the process working
// directory, and VCS metadata.
type ExpansionContext struct {
	WorkspaceRoot turbopath.AbsoluteSystemPath
	WorkingDir    turbopath.AbsoluteSystemPath
	VCS           VCSInfo
}
