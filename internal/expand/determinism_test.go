package expand

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
)

// Invariant 5: holding project, task, context, clock, and process-env
// snapshot constant, two invocations of ExpandInputs produce an equal
// ExpandedResult.
func TestExpandInputsDeterministicAcrossInvocations(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/ws/app/src", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := afero.WriteFile(fs, "/ws/app/src/a.ts", []byte("a"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	groups := map[string]*project.FileGroup{
		"g": {DeclaredFiles: anchored("app/src/a.ts")},
	}
	proj := newTestProject("app", "app", groups)
	e := newTestEngine(proj, fs)
	tk := newTestTask("app", "build")
	tk.Inputs = []task.InputPath{
		{Kind: task.InputProjectFile, Value: "src/a.ts"},
		{Kind: task.InputProjectGlob, Value: "**/*.ts"},
	}

	first, err := e.ExpandInputs(tk)
	if err != nil {
		t.Fatalf("ExpandInputs: %v", err)
	}
	second, err := e.ExpandInputs(tk)
	if err != nil {
		t.Fatalf("ExpandInputs: %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("ExpandInputs is not deterministic (-first +second):\n%s", diff)
	}
}
