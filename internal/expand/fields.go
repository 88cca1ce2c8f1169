package expand

import (
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// ExpandCommand expands @token()-function and $variable references in a
// task's command string. Only a command that is *exactly* one token
// function call is treated as a function; an embedded one is left as
// literal text (after variable/env substitution) and logged at debug
// level so a misconfigured task is easier to spot.
func (e *Engine) ExpandCommand(t *task.Task) (string, error) {
	value := t.Command

	if hasTokenFunction(ScopeCommand, value) {
		res, err := e.replaceFunction(t, ScopeCommand, value, e.maxFunctionDepth)
		if err != nil {
			return "", err
		}
		if res.Token != "" && res.Value != "" {
			value = strings.Replace(value, res.Token, res.Value, 1)
		}
	} else {
		e.warnIfEmbedded(ScopeCommand, "command", value)
	}

	return e.replaceAllVariables(t, value), nil
}

// warnIfEmbedded logs a debug line when value contains a token function call
// that is not legal in scope because it is embedded in a larger string
// rather than standing alone — every scope but Script requires the
// distinct (whole-value) form.
func (e *Engine) warnIfEmbedded(scope Scope, field, value string) {
	if scope != ScopeScript && tokenFuncPattern.MatchString(value) {
		e.logger.Debug("rejected embedded token function outside distinct form", "field", field, "value", value)
	}
}

// ExpandScript expands every @token() call embedded in a task's script
// string, substituting each with its shell-quoted, task-relative-rendered
// files and globs plus its scalar value, then applies $variable and
// ${ENV} substitution to the remainder. Unlike args and inputs/outputs,
// a script embeds its paths into shell text, so they are rendered
// task-relative (§4.6) here rather than left workspace-relative.
func (e *Engine) ExpandScript(t *task.Task) (string, *ExpandedResult, error) {
	value := t.Script
	agg := &ExpandedResult{}

	for hasTokenFunction(ScopeScript, value) {
		res, err := e.replaceFunction(t, ScopeScript, value, e.maxFunctionDepth)
		if err != nil {
			return "", nil, err
		}
		agg.merge(res)

		parts := e.renderAll(t, res.Files)
		parts = append(parts, e.renderAll(t, res.Globs)...)
		if res.Value != "" {
			parts = append(parts, res.Value)
		}
		joined := joinArgs(parts)
		value = strings.Replace(value, res.Token, joined, 1)
	}

	value = e.replaceAllVariables(t, value)
	return value, agg, nil
}

// renderAll applies §4.6 task-relative rendering to each workspace-relative
// path in paths.
func (e *Engine) renderAll(t *task.Task, paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = e.resolveForTask(t, turbopath.AnchoredUnixPath(p))
	}
	return out
}

// ExpandArgs expands each element of a task's args slice independently;
// an element that is a token function call is replaced by its resolved
// files, globs, and value as separate array entries, while a plain
// element only receives $variable and ${ENV} substitution.
func (e *Engine) ExpandArgs(t *task.Task) ([]string, *ExpandedResult, error) {
	agg := &ExpandedResult{}
	var out []string

	for _, arg := range t.Args {
		if hasTokenFunction(ScopeArgs, arg) {
			res, err := e.replaceFunction(t, ScopeArgs, arg, e.maxFunctionDepth)
			if err != nil {
				return nil, nil, err
			}
			agg.merge(res)
			out = append(out, res.Files...)
			out = append(out, res.Globs...)
			if res.Value != "" {
				out = append(out, res.Value)
			}
			continue
		}
		e.warnIfEmbedded(ScopeArgs, "args", arg)
		out = append(out, e.replaceAllVariables(t, arg))
	}

	return out, agg, nil
}

// ExpandEnv expands a task's declared env map. $variable substitution
// applies to env values, but ${ENV} substitution deliberately does not:
// an env value referencing ${OTHER} would create an undefined ordering
// dependency between declared env vars. Resolved files and globs render
// task-relative (§4.6), same as expand_script.
func (e *Engine) ExpandEnv(t *task.Task) (map[string]string, *ExpandedResult, error) {
	agg := &ExpandedResult{}
	out := make(map[string]string, len(t.Env))

	for k, v := range t.Env {
		switch {
		case hasTokenFunction(ScopeEnv, v):
			res, err := e.replaceFunction(t, ScopeEnv, v, e.maxFunctionDepth)
			if err != nil {
				return nil, nil, err
			}
			agg.merge(res)
			parts := e.renderAll(t, res.Files)
			parts = append(parts, e.renderAll(t, res.Globs)...)
			if res.Value != "" {
				parts = append(parts, res.Value)
			}
			out[k] = strings.Join(parts, ",")
		case hasTokenVariable(v):
			out[k] = e.replaceVariables(t, v)
		default:
			e.warnIfEmbedded(ScopeEnv, "env", v)
			out[k] = v
		}
	}

	return out, agg, nil
}

// ExpandInputs resolves a task's declared InputPath list into concrete
// workspace-relative files, globs, and env var names. Unlike script and
// env, inputs/outputs feed dependency tracking and hashing rather than a
// shell, so results stay workspace-relative rather than task-relative
// rendered.
func (e *Engine) ExpandInputs(t *task.Task) (*ExpandedResult, error) {
	agg := &ExpandedResult{}
	dirCache := make(map[turbopath.AnchoredUnixPath]bool)

	for _, p := range t.Inputs {
		switch p.Kind {
		case task.InputEnvVar:
			agg.Env = append(agg.Env, p.Value)

		case task.InputEnvVarGlob:
			names, err := e.matchEnvGlob(p.Value)
			if err != nil {
				return nil, err
			}
			agg.Env = append(agg.Env, names...)

		case task.InputTokenFunc:
			res, err := e.replaceFunction(t, ScopeInputs, p.Value, e.maxFunctionDepth)
			if err != nil {
				return nil, err
			}
			agg.merge(res)

		case task.InputTokenVar:
			resolved := e.replaceVariable(t, p.Value)
			agg.Files = append(agg.Files, e.project.Source.Join(turbopath.RelativeUnixPath(resolved)).ToString())

		case task.InputProjectFile, task.InputWorkspaceFile:
			rel, _ := p.ToWorkspaceRelative(e.project.Source)
			resolved := e.createPathForTask(t, rel.ToString())
			isDir, cached := dirCache[resolved]
			if !cached {
				var err error
				isDir, err = e.isDirectory(resolved)
				if err != nil {
					return nil, err
				}
				dirCache[resolved] = isDir
			}
			if isDir {
				agg.Globs = append(agg.Globs, resolved.Join(turbopath.RelativeUnixPath("**/*")).ToString())
			} else {
				agg.Files = append(agg.Files, resolved.ToString())
			}

		case task.InputProjectGlob, task.InputWorkspaceGlob:
			rel, _ := p.ToWorkspaceRelative(e.project.Source)
			resolved := e.createPathForTask(t, rel.ToString())
			agg.Globs = append(agg.Globs, resolved.ToString())
		}
	}

	return agg, nil
}

// ExpandOutputs resolves a task's declared OutputPath list into concrete
// workspace-relative files and globs.
func (e *Engine) ExpandOutputs(t *task.Task) (*ExpandedResult, error) {
	agg := &ExpandedResult{}

	for _, p := range t.Outputs {
		switch p.Kind {
		case task.OutputTokenFunc:
			res, err := e.replaceFunction(t, ScopeOutputs, p.Value, e.maxFunctionDepth)
			if err != nil {
				return nil, err
			}
			agg.merge(res)

		case task.OutputTokenVar:
			resolved := e.replaceVariable(t, p.Value)
			agg.Files = append(agg.Files, e.project.Source.Join(turbopath.RelativeUnixPath(resolved)).ToString())

		default:
			rel, _ := p.ToWorkspaceRelative(e.project.Source)
			resolved := e.createPathForTask(t, rel.ToString())
			if p.IsGlob() {
				agg.Globs = append(agg.Globs, resolved.ToString())
			} else {
				agg.Files = append(agg.Files, resolved.ToString())
			}
		}
	}

	return agg, nil
}

func (e *Engine) isDirectory(path turbopath.AnchoredUnixPath) (bool, error) {
	abs := path.ToSystemPath().RestoreAnchor(e.ctx.WorkspaceRoot)
	return afero.DirExists(e.fs, abs.ToString())
}

// matchEnvGlob expands an EnvVarGlob pattern such as "CI_*" into every
// currently-visible environment variable name it matches. Only names are
// considered, never values.
func (e *Engine) matchEnvGlob(pattern string) ([]string, error) {
	re, err := regexp.Compile("^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, "[A-Z0-9_]+") + "$")
	if err != nil {
		return nil, err
	}
	var matches []string
	for name := range e.envNames {
		if re.MatchString(name) {
			matches = append(matches, name)
		}
	}
	return matches, nil
}
