package expand

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Invariant 2: a string containing no '@' and no '$' passes through
// ExpandArgs unchanged.
func TestPropertyPlainArgsPassThroughUnchanged(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	proj := newTestProject("app", "app", nil)

	properties.Property("plain args survive expansion untouched", prop.ForAll(
		func(a, b string) bool {
			e := newTestEngine(proj, nil)
			tk := newTestTask("app", "build")
			tk.Args = []string{a, b}

			got, _, err := e.ExpandArgs(tk)
			if err != nil {
				return false
			}
			return len(got) == 2 && got[0] == a && got[1] == b
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// Invariant 5: determinism. Holding the project, task, context, and clock
// constant, two invocations of ExpandCommand on the same engine produce
// equal results.
func TestPropertyExpandCommandIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	proj := newTestProject("app", "app", nil)

	properties.Property("repeated expansion of the same command is stable", prop.ForAll(
		func(suffix string) bool {
			e := newTestEngine(proj, nil)
			tk := newTestTask("app", "build")
			tk.Command = "$project:$task-" + suffix

			first, err := e.ExpandCommand(tk)
			if err != nil {
				return false
			}
			second, err := e.ExpandCommand(tk)
			if err != nil {
				return false
			}
			return first == second
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
