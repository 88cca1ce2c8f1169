package task

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/turbopath"
)

func TestTargetStringAndParse(t *testing.T) {
	target := Target{ProjectID: "app", TaskID: "build"}
	assert.Equal(t, target.String(), "app#build")

	parsed := ParseTarget("app#build")
	assert.Equal(t, parsed, target)
}

func TestInputPathToWorkspaceRelative(t *testing.T) {
	source := turbopath.AnchoredUnixPath("apps/web")

	projectFile := InputPath{Kind: InputProjectFile, Value: "src/index.ts"}
	rel, ok := projectFile.ToWorkspaceRelative(source)
	assert.Assert(t, ok)
	assert.Equal(t, rel.ToString(), "apps/web/src/index.ts")

	workspaceGlob := InputPath{Kind: InputWorkspaceGlob, Value: "packages/*/dist/**"}
	rel, ok = workspaceGlob.ToWorkspaceRelative(source)
	assert.Assert(t, ok)
	assert.Equal(t, rel.ToString(), "packages/*/dist/**")

	envVar := InputPath{Kind: InputEnvVar, Value: "NODE_ENV"}
	_, ok = envVar.ToWorkspaceRelative(source)
	assert.Assert(t, !ok)
}

func TestInputPathIsGlob(t *testing.T) {
	assert.Assert(t, InputPath{Kind: InputProjectGlob}.IsGlob())
	assert.Assert(t, InputPath{Kind: InputWorkspaceGlob}.IsGlob())
	assert.Assert(t, !InputPath{Kind: InputProjectFile}.IsGlob())
}

func TestOutputPathToWorkspaceRelative(t *testing.T) {
	source := turbopath.AnchoredUnixPath("apps/web")

	projectGlob := OutputPath{Kind: OutputProjectGlob, Value: "dist/**"}
	rel, ok := projectGlob.ToWorkspaceRelative(source)
	assert.Assert(t, ok)
	assert.Equal(t, rel.ToString(), "apps/web/dist/**")

	tokenFunc := OutputPath{Kind: OutputTokenFunc, Value: "$(hash)"}
	_, ok = tokenFunc.ToWorkspaceRelative(source)
	assert.Assert(t, !ok)
}

func TestOutputPathIsGlob(t *testing.T) {
	assert.Assert(t, OutputPath{Kind: OutputWorkspaceGlob}.IsGlob())
	assert.Assert(t, !OutputPath{Kind: OutputWorkspaceFile}.IsGlob())
}

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs(`build --flag "quoted value" 'single'`)
	assert.NilError(t, err)
	assert.DeepEqual(t, args, []string{"build", "--flag", "quoted value", "single"})
}

func TestParseArgsUnterminatedQuote(t *testing.T) {
	_, err := ParseArgs(`build "unterminated`)
	assert.Assert(t, err != nil)
}
