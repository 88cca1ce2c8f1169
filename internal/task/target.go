// Package task describes the read-only task inputs consumed by the token
// expansion engine: a Target, its InputPath/OutputPath declarations, and
// its options.
package task

import "github.com/ferrotask/ferrotask/internal/util"

// TargetDelimiter separates a project id from a task id in a Target's
// string form, reusing the teacher's package-task id convention rather
// than defining a second one.
const TargetDelimiter = util.TaskDelimiter

// Target identifies a task within a project, e.g. "app#build".
type Target struct {
	ProjectID string
	TaskID    string
}

// String renders the target as "project#task".
func (t Target) String() string {
	return util.GetTaskId(t.ProjectID, t.TaskID)
}

// ParseTarget splits a "project#task" string back into a Target.
func ParseTarget(s string) Target {
	projectID, taskID := util.GetPackageTaskFromId(s)
	return Target{ProjectID: projectID, TaskID: taskID}
}
