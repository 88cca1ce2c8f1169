// Package expand implements the token expansion engine: the subsystem that
// rewrites task command/script/args/env/inputs/outputs fields by
// substituting token functions (@files(group)) and token variables
// ($project) into concrete paths, globs, env var names, and literals.
package expand

// Scope is the field category currently being expanded. It determines
// which token functions are legal and which variables may be used.
type Scope int

const (
	ScopeCommand Scope = iota
	ScopeScript
	ScopeArgs
	ScopeEnv
	ScopeInputs
	ScopeOutputs
)

// String renders the scope the way error messages and log fields name it.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopeScript:
		return "script"
	case ScopeArgs:
		return "args"
	case ScopeEnv:
		return "env"
	case ScopeInputs:
		return "inputs"
	case ScopeOutputs:
		return "outputs"
	default:
		return "unknown"
	}
}
