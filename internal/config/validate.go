package config

import (
	"fmt"
	"regexp"
	"strconv"

	mapset "github.com/deckarep/golang-set"

	"github.com/ferrotask/ferrotask/internal/task"
)

var indexRefPattern = regexp.MustCompile(`@(in|out)\(([0-9]+)\)`)

// Validate checks a loaded Workspace for configuration mistakes that are
// detectable without running the expansion engine: duplicate task targets,
// and @in(N)/@out(N) references that are out of range for their task's
// declared inputs/outputs. Errors from every project and task are
// accumulated rather than returned on the first failure.
func Validate(ws *Workspace) error {
	var errs []error

	targets := mapset.NewSet()
	for projectID, tasks := range ws.Tasks {
		for taskID, t := range tasks {
			target := taskTargetString(projectID, taskID)
			if targets.Contains(target) {
				errs = append(errs, fmt.Errorf("duplicate task target %q", target))
				continue
			}
			targets.Add(target)

			if err := validateIndexReferences(t); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", target, err))
			}
		}
	}

	return joinErrors(errs)
}

// validateIndexReferences scans command, script, args, and env for
// @in(N)/@out(N) references and reports any index beyond the task's
// declared inputs/outputs. This mirrors the bounds check the expansion
// engine performs at expand time (MissingInIndexError/MissingOutIndexError)
// but runs eagerly over every occurrence, so a typo surfaces at `validate`
// time instead of only when that particular field is expanded.
func validateIndexReferences(t *task.Task) error {
	var errs []error

	check := func(field, value string) {
		for _, m := range indexRefPattern.FindAllStringSubmatch(value, -1) {
			kind, rawIdx := m[1], m[2]
			idx, err := strconv.Atoi(rawIdx)
			if err != nil {
				continue
			}
			switch kind {
			case "in":
				if idx >= len(t.Inputs) {
					errs = append(errs, fmt.Errorf("%s: @in(%d) has no matching declared input", field, idx))
				}
			case "out":
				if idx >= len(t.Outputs) {
					errs = append(errs, fmt.Errorf("%s: @out(%d) has no matching declared output", field, idx))
				}
			}
		}
	}

	check("command", t.Command)
	check("script", t.Script)
	for i, a := range t.Args {
		check(fmt.Sprintf("args[%d]", i), a)
	}
	for k, v := range t.Env {
		check("env."+k, v)
	}

	return joinErrors(errs)
}
