package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/cmdutil"
)

func writeRootFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "workspace.yml"), []byte(`
projects:
  - app
`), 0o644))
	assert.NilError(t, os.Mkdir(filepath.Join(dir, "app"), 0o755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "app", "project.yml"), []byte(`
id: app
tasks:
  build:
    command: echo
    args: ["hi"]
`), 0o644))
	return dir
}

func TestGetCmdRegistersAllSubcommands(t *testing.T) {
	helper := cmdutil.NewHelper("test-version")
	root := getCmd(helper)

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"expand", "validate", "init", "graph"} {
		assert.Assert(t, names[want], "missing subcommand %q", want)
	}
}

func TestValidateSubcommandLoadsWorkspace(t *testing.T) {
	dir := writeRootFixture(t)

	helper := cmdutil.NewHelper("test-version")
	root := getCmd(helper)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"--cwd", dir, "validate"})

	assert.NilError(t, root.Execute())
}

func TestExpandSubcommandPrintsExpandedCommand(t *testing.T) {
	dir := writeRootFixture(t)

	helper := cmdutil.NewHelper("test-version")
	root := getCmd(helper)
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"--cwd", dir, "expand", "app#build"})

	assert.NilError(t, root.Execute())
	assert.Assert(t, bytes.Contains(out.Bytes(), []byte("command: echo")))
}

func TestRunWithArgsReturnsExitCodeTwoOnInvalidWorkspace(t *testing.T) {
	dir := t.TempDir()
	// No workspace.yml at all: LoadWorkspace fails before config.Validate runs.
	code := RunWithArgs([]string{"--cwd", dir, "validate"}, "test-version")
	assert.Equal(t, code, 2)
}
