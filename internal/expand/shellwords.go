package expand

import "strings"

// joinArgs joins resolved file/glob/value parts into a single script
// fragment. Unlike a general-purpose shell joiner, it deliberately leaves
// glob metacharacters (*, ?, [, ]) unescaped, since a script fragment
// produced by @files()/@globs() is meant to still undergo the
// downstream shell's own glob expansion. Only a part that is empty or
// contains whitespace or a quote character is single-quoted, to keep a
// path with a space from splitting into two words.
func joinArgs(parts []string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = quoteIfNeeded(p)
	}
	return strings.Join(quoted, " ")
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
