package expand

import "fmt"

// UnknownTokenError is returned when a token function name does not match
// any of the known function identifiers.
type UnknownTokenError struct {
	Token string
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("unknown token function: %s", e.Token)
}

// InvalidTokenScopeError is returned when a token function is used in a
// field scope where it is not permitted.
type InvalidTokenScopeError struct {
	Target string
	Token  string
	Scope  Scope
}

func (e *InvalidTokenScopeError) Error() string {
	return fmt.Sprintf("%s: token %s is not allowed in %s scope", e.Target, e.Token, e.Scope)
}

// UnknownFileGroupError is returned when a token function references a
// file group name the project does not declare.
type UnknownFileGroupError struct {
	Group string
	Token string
}

func (e *UnknownFileGroupError) Error() string {
	return fmt.Sprintf("%s: unknown file group: %s", e.Token, e.Group)
}

// MissingInIndexError is returned when @in(N) references an index beyond
// the task's declared inputs.
type MissingInIndexError struct {
	Index  int
	Target string
	Token  string
}

func (e *MissingInIndexError) Error() string {
	return fmt.Sprintf("%s: %s: no input at index %d", e.Target, e.Token, e.Index)
}

// MissingOutIndexError is returned when @out(N) references an index beyond
// the task's declared outputs.
type MissingOutIndexError struct {
	Index  int
	Target string
	Token  string
}

func (e *MissingOutIndexError) Error() string {
	return fmt.Sprintf("%s: %s: no output at index %d", e.Target, e.Token, e.Index)
}

// InvalidTokenIndexError is returned when the @in/@out argument is not a
// non-negative decimal integer.
type InvalidTokenIndexError struct {
	Target string
	Token  string
	Arg    string
}

func (e *InvalidTokenIndexError) Error() string {
	return fmt.Sprintf("%s: %s: invalid token index: %s", e.Target, e.Token, e.Arg)
}

// InvalidTokenIndexReferenceError is returned when @in/@out resolves to an
// input/output variant that cannot itself be referenced this way (env vars
// and bare token literals).
type InvalidTokenIndexReferenceError struct {
	Target string
	Token  string
	Index  int
}

func (e *InvalidTokenIndexReferenceError) Error() string {
	return fmt.Sprintf("%s: %s: index %d does not refer to a file or glob", e.Target, e.Token, e.Index)
}

// PathConversionError wraps a failure converting a resolved path into its
// task-relative rendering.
type PathConversionError struct {
	Path string
	Err  error
}

func (e *PathConversionError) Error() string {
	return fmt.Sprintf("failed to convert path %s: %v", e.Path, e.Err)
}

func (e *PathConversionError) Unwrap() error {
	return e.Err
}
