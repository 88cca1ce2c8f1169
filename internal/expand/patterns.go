package expand

import "regexp"

// tokenFuncPattern matches any @func(arg) token, function scoped to Script
// where it is resolved in place rather than requiring the whole field to be
// exactly one token.
var tokenFuncPattern = regexp.MustCompile(`@([a-z]+)\(([^)]+)\)`)

// tokenFuncDistinctPattern matches a value that is *exactly* one @func(arg)
// token and nothing else; this is the only form expand_command accepts.
var tokenFuncDistinctPattern = regexp.MustCompile(`^@([a-z]+)\(([^)]+)\)$`)

// tokenVarPattern matches a $camelCaseVariable reference.
var tokenVarPattern = regexp.MustCompile(`\$([a-zA-Z][a-zA-Z0-9]*)`)

// envSubstitutePattern matches the ${NAME} form used by the post-expansion
// environment substituter.
var envSubstitutePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// hasTokenFunction reports whether value contains a token function call
// legal for the given scope. Only ScopeScript accepts an embedded token
// function anywhere within a larger string; every other scope (command,
// args, env) requires the distinct form — the whole value is exactly one
// @func(arg) call and nothing else.
func hasTokenFunction(scope Scope, value string) bool {
	if scope == ScopeScript {
		return tokenFuncPattern.MatchString(value)
	}
	return tokenFuncDistinctPattern.MatchString(value)
}

// hasTokenVariable reports whether value contains at least one $variable
// reference.
func hasTokenVariable(value string) bool {
	return tokenVarPattern.MatchString(value)
}

// matchTokenFunction extracts the first token function call from value for
// the given scope, along with its full matched text, function name, and
// argument.
func matchTokenFunction(scope Scope, value string) (full, name, arg string, ok bool) {
	pattern := tokenFuncDistinctPattern
	if scope == ScopeScript {
		pattern = tokenFuncPattern
	}
	m := pattern.FindStringSubmatch(value)
	if m == nil {
		return "", "", "", false
	}
	return m[0], m[1], m[2], true
}
