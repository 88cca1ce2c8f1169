package config

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/task"
)

func TestClassifyInputVariants(t *testing.T) {
	cases := []struct {
		raw  string
		want task.InputPath
	}{
		{"src/a.ts", task.InputPath{Kind: task.InputProjectFile, Value: "src/a.ts"}},
		{"src/**/*.ts", task.InputPath{Kind: task.InputProjectGlob, Value: "src/**/*.ts"}},
		{"/tsconfig.json", task.InputPath{Kind: task.InputWorkspaceFile, Value: "tsconfig.json"}},
		{"/packages/*/dist/**", task.InputPath{Kind: task.InputWorkspaceGlob, Value: "packages/*/dist/**"}},
		{"$workspaceRoot/x", task.InputPath{Kind: task.InputTokenVar, Value: "$workspaceRoot/x"}},
		{"@files(sources)", task.InputPath{Kind: task.InputTokenFunc, Value: "@files(sources)"}},
		{"env:NODE_ENV", task.InputPath{Kind: task.InputEnvVar, Value: "NODE_ENV"}},
		{"env:CI_*", task.InputPath{Kind: task.InputEnvVarGlob, Value: "CI_*"}},
	}

	for _, c := range cases {
		got := classifyInput(c.raw)
		assert.DeepEqual(t, got, c.want)
	}
}

func TestClassifyOutputRejectsEnv(t *testing.T) {
	_, err := classifyOutput("env:NODE_ENV")
	assert.ErrorContains(t, err, "not valid outputs")
}

func TestClassifyOutputVariants(t *testing.T) {
	got, err := classifyOutput("lib/**/*.js")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, task.OutputPath{Kind: task.OutputProjectGlob, Value: "lib/**/*.js"})

	got, err = classifyOutput("/dist/bundle.js")
	assert.NilError(t, err)
	assert.DeepEqual(t, got, task.OutputPath{Kind: task.OutputWorkspaceFile, Value: "dist/bundle.js"})
}

func TestParseArgsFromString(t *testing.T) {
	out, err := parseArgs("--flag 'quoted value' plain")
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []string{"--flag", "quoted value", "plain"})
}

func TestParseArgsFromSequence(t *testing.T) {
	out, err := parseArgs([]interface{}{"--flag", "value"})
	assert.NilError(t, err)
	assert.DeepEqual(t, out, []string{"--flag", "value"})
}

func TestDecodeCustomMetadataCoercesNonStrings(t *testing.T) {
	got := decodeCustomMetadata(map[string]interface{}{
		"retries": 3,
		"enabled": true,
		"name":    "build",
	})
	assert.Equal(t, got["retries"], "3")
	assert.Equal(t, got["enabled"], "true")
	assert.Equal(t, got["name"], "build")
}
