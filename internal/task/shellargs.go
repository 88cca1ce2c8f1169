package task

import shellquote "github.com/kballard/go-shellquote"

// ParseArgs splits a single shell-style command string into its argument
// words, honoring quoting and escaping the way a POSIX shell would. Task
// configuration may declare args as either an array or a single string;
// the latter form is normalized through this function before the task is
// constructed.
func ParseArgs(raw string) ([]string, error) {
	return shellquote.Split(raw)
}
