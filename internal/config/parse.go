package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

const envPrefix = "env:"

// globMetachars are the characters whose presence in a path string marks it
// as a glob rather than a discrete file.
const globMetachars = "*?["

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, globMetachars)
}

// classifyInput parses a raw inputs[] string into a tagged task.InputPath,
// per the convention: a leading '/' marks a workspace-anchored path, a
// leading '$' a token variable, a leading '@' a token function call, and a
// leading "env:" an environment variable name or wildcard pattern; anything
// else is project-relative, and is a glob iff it contains glob
// metacharacters.
func classifyInput(raw string) task.InputPath {
	switch {
	case strings.HasPrefix(raw, "/"):
		rest := strings.TrimPrefix(raw, "/")
		if isGlobPattern(rest) {
			return task.InputPath{Kind: task.InputWorkspaceGlob, Value: rest}
		}
		return task.InputPath{Kind: task.InputWorkspaceFile, Value: rest}
	case strings.HasPrefix(raw, "$"):
		return task.InputPath{Kind: task.InputTokenVar, Value: raw}
	case strings.HasPrefix(raw, "@"):
		return task.InputPath{Kind: task.InputTokenFunc, Value: raw}
	case strings.HasPrefix(raw, envPrefix):
		name := strings.TrimPrefix(raw, envPrefix)
		if strings.Contains(name, "*") {
			return task.InputPath{Kind: task.InputEnvVarGlob, Value: name}
		}
		return task.InputPath{Kind: task.InputEnvVar, Value: name}
	default:
		if isGlobPattern(raw) {
			return task.InputPath{Kind: task.InputProjectGlob, Value: raw}
		}
		return task.InputPath{Kind: task.InputProjectFile, Value: raw}
	}
}

// classifyOutput mirrors classifyInput; outputs have no env-var variants
// since a build output is never an environment variable.
func classifyOutput(raw string) (task.OutputPath, error) {
	switch {
	case strings.HasPrefix(raw, "/"):
		rest := strings.TrimPrefix(raw, "/")
		if isGlobPattern(rest) {
			return task.OutputPath{Kind: task.OutputWorkspaceGlob, Value: rest}, nil
		}
		return task.OutputPath{Kind: task.OutputWorkspaceFile, Value: rest}, nil
	case strings.HasPrefix(raw, "$"):
		return task.OutputPath{Kind: task.OutputTokenVar, Value: raw}, nil
	case strings.HasPrefix(raw, "@"):
		return task.OutputPath{Kind: task.OutputTokenFunc, Value: raw}, nil
	case strings.HasPrefix(raw, envPrefix):
		return task.OutputPath{}, fmt.Errorf("output %q: env var references are not valid outputs", raw)
	default:
		if isGlobPattern(raw) {
			return task.OutputPath{Kind: task.OutputProjectGlob, Value: raw}, nil
		}
		return task.OutputPath{Kind: task.OutputProjectFile, Value: raw}, nil
	}
}

// parseArgs normalizes a TaskConfig's Args field, which YAML may have
// decoded as either a []interface{} sequence or a single shell-like string.
func parseArgs(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		out := make([]string, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("args[%d]: expected string, got %T", i, item)
			}
			out[i] = s
		}
		return out, nil
	case []string:
		return v, nil
	case string:
		return task.ParseArgs(v)
	default:
		return nil, fmt.Errorf("args: unsupported type %T", raw)
	}
}

// buildFileGroup converts a FileGroupConfig's raw strings into the
// turbopath-typed project.FileGroup, per the storage asymmetry documented
// on project.FileGroup: declared files are workspace-anchored strings
// joined against projectSource here, while declared globs are kept as bare
// project-relative patterns.
func buildFileGroup(cfg FileGroupConfig, projectSource turbopath.AnchoredUnixPath) *project.FileGroup {
	fg := &project.FileGroup{}
	for _, f := range cfg.Files {
		fg.DeclaredFiles = append(fg.DeclaredFiles, projectSource.Join(turbopath.RelativeUnixPath(f)))
	}
	for _, g := range cfg.Globs {
		fg.DeclaredGlobs = append(fg.DeclaredGlobs, turbopath.AnchoredUnixPath(g))
	}
	fg.DeclaredEnv = append(fg.DeclaredEnv, cfg.Env...)
	return fg
}

// mergeFileGroups layers project-level file groups over the workspace
// defaults, with the project's own declaration of a given name winning
// outright (groups are not merged field-by-field, only by name).
func mergeFileGroups(workspace, project map[string]FileGroupConfig) map[string]FileGroupConfig {
	out := make(map[string]FileGroupConfig, len(workspace)+len(project))
	for k, v := range workspace {
		out[k] = v
	}
	for k, v := range project {
		out[k] = v
	}
	return out
}

// decodeCustomMetadata coerces a YAML-decoded map[string]interface{} into
// the map[string]string project.Metadata.Custom expects, via mapstructure's
// weakly-typed decoding (bools/numbers become their string form). Nested
// maps/sequences fall outside WeaklyTypedInput's coercion rules and are
// rendered with fmt.Sprint instead, since a custom metadata value is only
// ever spliced as text by @meta().
func decodeCustomMetadata(raw map[string]interface{}) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]string, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		// WeaklyTypedInput alone renders a bool as "1"/"0".
		DecodeHook: mapstructure.DecodeHookFuncKind(func(from, to reflect.Kind, data interface{}) (interface{}, error) {
			if from == reflect.Bool && to == reflect.String {
				return fmt.Sprint(data), nil
			}
			return data, nil
		}),
		Result: &out,
	})
	if err != nil {
		return out
	}
	if err := decoder.Decode(raw); err != nil {
		for k, v := range raw {
			if s, ok := v.(string); ok {
				out[k] = s
				continue
			}
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
