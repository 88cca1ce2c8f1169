package expand

import (
	"time"

	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// fixedClock is a deterministic Clock seam for tests.
type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

var testInstant = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestProject(id string, source turbopath.AnchoredUnixPath, groups map[string]*project.FileGroup) *project.Project {
	return &project.Project{
		ID:         id,
		Source:     source,
		Root:       turbopath.AbsoluteSystemPath("/ws/" + source.ToString()),
		Language:   "typescript",
		FileGroups: groups,
	}
}

func newTestContext() ExpansionContext {
	return ExpansionContext{
		WorkspaceRoot: turbopath.AbsoluteSystemPath("/ws"),
		WorkingDir:    turbopath.AbsoluteSystemPath("/ws"),
	}
}

func newTestEngine(proj *project.Project, fs afero.Fs) *Engine {
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	return NewEngine(proj, newTestContext(),
		WithFs(fs),
		WithClock(fixedClock{at: testInstant}),
		WithEnvNames(nil),
	)
}

func anchored(paths ...string) []turbopath.AnchoredUnixPath {
	out := make([]turbopath.AnchoredUnixPath, len(paths))
	for i, p := range paths {
		out[i] = turbopath.AnchoredUnixPath(p)
	}
	return out
}

func newTestTask(projectID, taskID string) *task.Task {
	return &task.Task{
		Target: task.Target{ProjectID: projectID, TaskID: taskID},
		Env:    map[string]string{},
	}
}
