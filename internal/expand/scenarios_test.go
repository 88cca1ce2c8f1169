package expand

import (
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
)

// S1 - variable substitution in command.
func TestExpandCommandVariableSubstitution(t *testing.T) {
	proj := newTestProject("app", "app", nil)
	e := newTestEngine(proj, nil)
	tk := newTestTask("app", "build")
	tk.Command = "$project:$task"

	got, err := e.ExpandCommand(tk)
	assert.NilError(t, err)
	assert.Equal(t, got, "app:build")
}

// S2 - script with file-group function.
func TestExpandScriptFileGroupFunction(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, fs.MkdirAll("/ws/app/src", 0o755))
	assert.NilError(t, afero.WriteFile(fs, "/ws/app/src/a.ts", []byte("a"), 0o644))
	assert.NilError(t, afero.WriteFile(fs, "/ws/app/src/b.ts", []byte("b"), 0o644))

	groups := map[string]*project.FileGroup{
		"g": {DeclaredFiles: anchored("app/src/a.ts", "app/src/b.ts")},
	}
	proj := newTestProject("app", "app", groups)
	e := newTestEngine(proj, fs)
	tk := newTestTask("app", "build")
	tk.Script = "tsc @files(g)"

	got, _, err := e.ExpandScript(tk)
	assert.NilError(t, err)
	assert.Equal(t, got, "tsc ./src/a.ts ./src/b.ts")
}

// S3 - args emit multiple.
func TestExpandArgsEmitMultiple(t *testing.T) {
	groups := map[string]*project.FileGroup{
		"g": {DeclaredGlobs: anchored("**/*.js", "**/*.map")},
	}
	proj := newTestProject("lib", "lib", groups)
	e := newTestEngine(proj, nil)
	tk := newTestTask("lib", "build")
	tk.Args = []string{"--out", "@globs(g)"}

	got, _, err := e.ExpandArgs(tk)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"--out", "lib/**/*.js", "lib/**/*.map"})
}

// S4 - env comma join with task-relative rendering.
func TestExpandEnvCommaJoin(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, fs.MkdirAll("/ws/app/src", 0o755))
	assert.NilError(t, afero.WriteFile(fs, "/ws/app/src/a.ts", []byte("a"), 0o644))
	assert.NilError(t, afero.WriteFile(fs, "/ws/app/src/b.ts", []byte("b"), 0o644))

	groups := map[string]*project.FileGroup{
		"g": {DeclaredFiles: anchored("app/src/a.ts", "app/src/b.ts")},
	}
	proj := newTestProject("app", "app", groups)
	e := newTestEngine(proj, fs)
	tk := newTestTask("app", "build")
	tk.Env = map[string]string{"FILES": "@files(g)"}

	got, _, err := e.ExpandEnv(tk)
	assert.NilError(t, err)
	assert.Equal(t, got["FILES"], "./src/a.ts,./src/b.ts")
}

// S5 - inputs directory classified as glob.
func TestExpandInputsDirectoryToGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, fs.MkdirAll("/ws/app/assets", 0o755))

	proj := newTestProject("app", "app", nil)
	e := newTestEngine(proj, fs)
	tk := newTestTask("app", "build")
	tk.Inputs = []task.InputPath{{Kind: task.InputProjectFile, Value: "assets"}}

	result, err := e.ExpandInputs(tk)
	assert.NilError(t, err)
	assert.DeepEqual(t, result.Globs, []string{"app/assets/**/*"})
	assert.Equal(t, len(result.Files), 0)
}

// S6 - @in indirection.
func TestExpandScriptInIndirection(t *testing.T) {
	proj := newTestProject("x", "crates/x", nil)
	e := newTestEngine(proj, nil)
	tk := newTestTask("x", "fmt")
	tk.Script = "rustfmt @in(0)"
	tk.Inputs = []task.InputPath{{Kind: task.InputProjectGlob, Value: "**/*.rs"}}

	got, _, err := e.ExpandScript(tk)
	assert.NilError(t, err)
	assert.Equal(t, got, "rustfmt ./**/*.rs")
}

// S7 - unknown variable left intact.
func TestExpandArgsUnknownVariableLeftIntact(t *testing.T) {
	proj := newTestProject("app", "app", nil)
	e := newTestEngine(proj, nil)
	tk := newTestTask("app", "build")
	tk.Args = []string{"--flag=$unknown"}

	got, _, err := e.ExpandArgs(tk)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"--flag=$unknown"})
}

// S8 - meta fallback: empty well-known key splices empty, custom key reads
// the custom bag.
func TestExpandScriptMetaFallback(t *testing.T) {
	proj := newTestProject("app", "app", nil)
	proj.Metadata = &project.Metadata{
		Description: "",
		Custom:      map[string]string{"customKey": "customValue"},
	}
	e := newTestEngine(proj, nil)

	tk := newTestTask("app", "build")
	tk.Script = "echo @meta(description)"
	got, _, err := e.ExpandScript(tk)
	assert.NilError(t, err)
	assert.Equal(t, got, "echo ")

	tk2 := newTestTask("app", "build")
	tk2.Script = "echo @meta(customKey)"
	got2, _, err := e.ExpandScript(tk2)
	assert.NilError(t, err)
	assert.Equal(t, got2, "echo customValue")
}

// Invariant 6: scope legality.
func TestScopeLegalityViolations(t *testing.T) {
	groups := map[string]*project.FileGroup{"g": {DeclaredEnv: []string{"NODE_ENV"}}}
	proj := newTestProject("app", "app", groups)
	e := newTestEngine(proj, nil)

	tk := newTestTask("app", "build")
	tk.Inputs = []task.InputPath{{Kind: task.InputProjectFile, Value: "a"}}
	tk.Env = map[string]string{"X": "@in(0)"}
	_, _, err := e.ExpandEnv(tk)
	assert.ErrorContains(t, err, "not allowed in env scope")

	tk2 := newTestTask("app", "build")
	tk2.Args = []string{"@envs(g)"}
	_, _, err = e.ExpandArgs(tk2)
	assert.ErrorContains(t, err, "not allowed in args scope")
}

// Invariant 2: a literal string with no @ and no $ passes through args
// unchanged.
func TestLiteralArgPassesThroughUnchanged(t *testing.T) {
	proj := newTestProject("app", "app", nil)
	e := newTestEngine(proj, nil)
	tk := newTestTask("app", "build")
	tk.Args = []string{"--verbose", "plain-value"}

	got, _, err := e.ExpandArgs(tk)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []string{"--verbose", "plain-value"})
}
