package expand

import (
	"runtime"
	"strconv"

	"github.com/ferrotask/ferrotask/internal/task"
)

// maxVariableIterations bounds replaceVariables' fixed-point loop. A
// well-formed variable never re-introduces a $token once substituted, so
// this only guards against a pathological metadata value like "$task"
// being stored as a project name.
const maxVariableIterations = 16

// replaceVariables substitutes $variable references in value one at a
// time, first match first, repeating until no further substitution occurs.
// An unknown variable name is left untouched and ends the loop, so any
// reference after it in value is left untouched as well.
func (e *Engine) replaceVariables(t *task.Task, value string) string {
	for i := 0; i < maxVariableIterations; i++ {
		if !hasTokenVariable(value) {
			return value
		}
		next := e.replaceVariable(t, value)
		if next == value {
			return value
		}
		value = next
	}
	return value
}

// replaceVariable substitutes the first $variable reference in value and
// returns the result unchanged if the name is not recognized.
func (e *Engine) replaceVariable(t *task.Task, value string) string {
	loc := tokenVarPattern.FindStringSubmatchIndex(value)
	if loc == nil {
		return value
	}
	name := value[loc[2]:loc[3]]

	resolved, ok := e.lookupVariable(t, name)
	if !ok {
		return value
	}
	return value[:loc[0]] + resolved + value[loc[1]:]
}

func (e *Engine) lookupVariable(t *task.Task, name string) (string, bool) {
	proj := e.project
	meta := proj.Metadata

	switch name {
	case "arch":
		return runtime.GOARCH, true
	case "os":
		return runtime.GOOS, true
	case "osFamily":
		return osFamily(), true
	case "workingDir":
		return e.ctx.WorkingDir.ToString(), true
	case "workspaceRoot":
		return e.ctx.WorkspaceRoot.ToString(), true
	case "language":
		return proj.Language, true
	case "project":
		return proj.ID, true
	case "projectAlias":
		return proj.Alias, true
	case "projectChannel":
		if meta == nil {
			return "", true
		}
		return meta.Channel, true
	case "projectName":
		if meta == nil {
			return "", true
		}
		return meta.Name, true
	case "projectOwner":
		if meta == nil {
			return "", true
		}
		return meta.Owner, true
	case "projectRoot":
		return proj.Root.ToString(), true
	case "projectSource":
		return proj.Source.ToString(), true
	case "projectStack":
		return proj.Stack, true
	case "projectType":
		return proj.Type, true
	case "target":
		return t.Target.String(), true
	case "task":
		return t.Target.TaskID, true
	case "taskPlatform":
		return t.Platform, true
	case "taskType":
		return t.Type, true
	case "date":
		return e.clock.Now().Format("2006-01-02"), true
	case "datetime":
		return e.clock.Now().Format("2006-01-02_15:04:05"), true
	case "time":
		return e.clock.Now().Format("15:04:05"), true
	case "timestamp":
		return strconv.FormatInt(e.clock.Now().Unix(), 10), true
	case "vcsBranch":
		return e.ctx.VCS.Branch, true
	case "vcsRepository":
		return e.ctx.VCS.Repository, true
	case "vcsRevision":
		return e.ctx.VCS.Revision, true
	default:
		return "", false
	}
}

// osFamily mirrors Rust's std::env::consts::FAMILY: "windows" or "unix".
func osFamily() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return "unix"
}
