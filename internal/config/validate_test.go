package config

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/task"
)

func newValidateTask(projectID, taskID string) *task.Task {
	return &task.Task{Target: task.Target{ProjectID: projectID, TaskID: taskID}}
}

func TestValidateOutOfRangeInputIndex(t *testing.T) {
	tk := newValidateTask("app", "build")
	tk.Script = "tsc @in(1)"
	tk.Inputs = []task.InputPath{{Kind: task.InputProjectGlob, Value: "**/*.ts"}}

	ws := &Workspace{
		Projects: nil,
		Tasks:    map[string]map[string]*task.Task{"app": {"build": tk}},
	}

	err := Validate(ws)
	assert.ErrorContains(t, err, "@in(1) has no matching declared input")
}

func TestValidateOutOfRangeOutputIndexInArgs(t *testing.T) {
	tk := newValidateTask("app", "build")
	tk.Args = []string{"--out", "@out(2)"}
	tk.Outputs = []task.OutputPath{{Kind: task.OutputProjectGlob, Value: "lib/**"}}

	ws := &Workspace{
		Tasks: map[string]map[string]*task.Task{"app": {"build": tk}},
	}

	err := Validate(ws)
	assert.ErrorContains(t, err, "@out(2) has no matching declared output")
}

func TestValidatePassesWithInRangeIndexes(t *testing.T) {
	tk := newValidateTask("app", "build")
	tk.Script = "tsc @in(0)"
	tk.Inputs = []task.InputPath{{Kind: task.InputProjectGlob, Value: "**/*.ts"}}

	ws := &Workspace{
		Tasks: map[string]map[string]*task.Task{"app": {"build": tk}},
	}

	assert.NilError(t, Validate(ws))
}
