package expand

import (
	"strings"

	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// createPathForTask takes a raw path string declared in task configuration
// (which may itself contain $variables and ${ENV_VAR} references) and
// returns the fully substituted workspace-relative path.
func (e *Engine) createPathForTask(t *task.Task, raw string) turbopath.AnchoredUnixPath {
	return turbopath.AnchoredUnixPath(e.replaceAllVariables(t, raw))
}

// replaceAllVariables runs the iterative $variable substitution pass
// followed by the ${ENV_VAR} substitution pass, in that order. Every
// string that ends up as a path or a command/script/arg literal goes
// through this, not just the declared command/script/args text.
func (e *Engine) replaceAllVariables(t *task.Task, value string) string {
	return e.substituteEnvVar(e.replaceVariables(t, value), t.Env)
}

// substituteEnvVar implements the environment substituter (C7): every
// ${NAME} reference is replaced with taskEnv[NAME]; a name absent from
// taskEnv is left untouched rather than substituted with an empty string.
func (e *Engine) substituteEnvVar(value string, taskEnv map[string]string) string {
	return envSubstitutePattern.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := taskEnv[name]; ok {
			return v
		}
		return match
	})
}

// resolveForTask implements §4.6 task-relative rendering: when the task
// runs from the workspace root, paths render workspace-relative; when it
// runs from the project, paths inside the project render project-relative
// and paths outside it render as a "virtual" diff path with no leading
// "./".
func (e *Engine) resolveForTask(t *task.Task, path turbopath.AnchoredUnixPath) string {
	if t.Options.RunFromWorkspaceRoot {
		return "./" + path.ToString()
	}

	src := e.project.Source.ToString()
	if src == "" || src == "." {
		return "./" + path.ToString()
	}

	if rel, ok := stripProjectPrefix(path.ToString(), src); ok {
		return "./" + rel
	}

	absPath := path.ToSystemPath().RestoreAnchor(e.ctx.WorkspaceRoot)
	rel, err := absPath.RelativeTo(e.project.Root)
	if err != nil {
		return path.ToString()
	}
	return rel.ToUnixPath().ToString()
}

// stripProjectPrefix removes a project source prefix from an
// anchored-unix path, reporting false if the path is not actually nested
// under it.
func stripProjectPrefix(p, projectSource string) (string, bool) {
	if p == projectSource {
		return "", true
	}
	prefix := projectSource + "/"
	if strings.HasPrefix(p, prefix) {
		return strings.TrimPrefix(p, prefix), true
	}
	return "", false
}
