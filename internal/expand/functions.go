package expand

import (
	"strconv"
	"strings"

	"github.com/ferrotask/ferrotask/internal/project"
	"github.com/ferrotask/ferrotask/internal/task"
	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// fileGroupScopes lists the scopes in which @root/@dirs/@files/@globs/@group
// may be used.
var fileGroupScopes = []Scope{ScopeScript, ScopeArgs, ScopeEnv, ScopeInputs, ScopeOutputs}

// metaScopes lists the scopes in which @meta may be used.
var metaScopes = []Scope{ScopeCommand, ScopeScript, ScopeArgs, ScopeEnv}

// indexScopes lists the scopes in which @in/@out may be used.
var indexScopes = []Scope{ScopeScript, ScopeArgs}

func checkScope(target, token string, scope Scope, allowed []Scope) error {
	for _, s := range allowed {
		if s == scope {
			return nil
		}
	}
	return &InvalidTokenScopeError{Target: target, Token: token, Scope: scope}
}

func (e *Engine) lookupFileGroup(target, token, name string) (*project.FileGroup, error) {
	fg, ok := e.project.FileGroup(name)
	if !ok {
		return nil, &UnknownFileGroupError{Group: name, Token: token}
	}
	return fg, nil
}

// replaceFunction resolves the first token function call in value for the
// given scope and task, returning the accumulated result. depth bounds
// recursion through @in/@out references to nested token functions.
func (e *Engine) replaceFunction(t *task.Task, scope Scope, value string, depth int) (*ExpandedResult, error) {
	full, name, arg, ok := matchTokenFunction(scope, value)
	if !ok {
		return nil, &UnknownTokenError{Token: value}
	}

	result := &ExpandedResult{Token: full}
	looseCheck := scope == ScopeOutputs

	target := t.Target.String()

	switch name {
	case "root":
		if err := checkScope(target, full, scope, fileGroupScopes); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		root, err := fg.Root(e.project.Source)
		if err != nil {
			return nil, err
		}
		result.Files = append(result.Files, root.ToString())

	case "dirs":
		if err := checkScope(target, full, scope, fileGroupScopes); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		dirs, err := fg.Dirs(e.fs, e.ctx.WorkspaceRoot, looseCheck)
		if err != nil {
			return nil, err
		}
		for _, d := range dirs {
			result.Files = append(result.Files, d.ToString())
		}

	case "files":
		if err := checkScope(target, full, scope, fileGroupScopes); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		files, err := fg.Files(e.fs, e.ctx.WorkspaceRoot, looseCheck)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			result.Files = append(result.Files, f.ToString())
		}

	case "globs":
		if err := checkScope(target, full, scope, fileGroupScopes); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		globs, err := fg.Globs(e.project.Source)
		if err != nil {
			return nil, err
		}
		for _, g := range globs {
			result.Globs = append(result.Globs, g.ToString())
		}

	case "group":
		if err := checkScope(target, full, scope, fileGroupScopes); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		for _, f := range fg.DeclaredFiles {
			result.Files = append(result.Files, f.ToString())
		}
		for _, g := range fg.DeclaredGlobs {
			joined := e.project.Source.Join(turbopath.RelativeUnixPath(g.ToString()))
			result.Globs = append(result.Globs, joined.ToString())
		}
		if scope == ScopeInputs {
			result.Env = append(result.Env, fg.DeclaredEnv...)
		}

	case "envs":
		if err := checkScope(target, full, scope, []Scope{ScopeInputs}); err != nil {
			return nil, err
		}
		fg, err := e.lookupFileGroup(target, full, arg)
		if err != nil {
			return nil, err
		}
		names, err := fg.EnvNames()
		if err != nil {
			return nil, err
		}
		result.Env = append(result.Env, names...)

	case "in":
		if err := checkScope(target, full, scope, indexScopes); err != nil {
			return nil, err
		}
		if err := e.resolveIndexReference(t, scope, full, arg, t.Inputs, true, result, depth); err != nil {
			return nil, err
		}

	case "out":
		if err := checkScope(target, full, scope, indexScopes); err != nil {
			return nil, err
		}
		if err := e.resolveIndexReference(t, scope, full, arg, t.Outputs, false, result, depth); err != nil {
			return nil, err
		}

	case "meta":
		if err := checkScope(target, full, scope, metaScopes); err != nil {
			return nil, err
		}
		result.Value = e.lookupMeta(arg)

	default:
		return nil, &UnknownTokenError{Token: name}
	}

	return result, nil
}

// resolveIndexReference implements the shared body of @in(N)/@out(N):
// parse the index, look it up in the declared input/output list, and
// merge in the resolved path or the recursively-evaluated token function.
func (e *Engine) resolveIndexReference(t *task.Task, scope Scope, token, arg string, inputs interface{}, isInput bool, result *ExpandedResult, depth int) error {
	target := t.Target.String()

	idx, err := strconv.Atoi(arg)
	if err != nil || idx < 0 {
		return &InvalidTokenIndexError{Target: target, Token: token, Arg: arg}
	}

	if isInput {
		list := inputs.([]task.InputPath)
		if idx >= len(list) {
			return &MissingInIndexError{Index: idx, Target: target, Token: token}
		}
		return e.mergeIndexedInput(t, scope, token, list[idx], idx, result, depth)
	}

	list := inputs.([]task.OutputPath)
	if idx >= len(list) {
		return &MissingOutIndexError{Index: idx, Target: target, Token: token}
	}
	return e.mergeIndexedOutput(t, scope, token, list[idx], idx, result, depth)
}

func (e *Engine) mergeIndexedInput(t *task.Task, scope Scope, token string, p task.InputPath, idx int, result *ExpandedResult, depth int) error {
	switch p.Kind {
	case task.InputProjectFile, task.InputWorkspaceFile:
		rel, _ := p.ToWorkspaceRelative(e.project.Source)
		result.Files = append(result.Files, e.createPathForTask(t, rel.ToString()).ToString())
		return nil
	case task.InputProjectGlob, task.InputWorkspaceGlob:
		rel, _ := p.ToWorkspaceRelative(e.project.Source)
		result.Globs = append(result.Globs, e.createPathForTask(t, rel.ToString()).ToString())
		return nil
	case task.InputTokenFunc:
		if depth <= 0 {
			return &InvalidTokenIndexReferenceError{Target: t.Target.String(), Token: token, Index: idx}
		}
		nested, err := e.replaceFunction(t, scope, p.Value, depth-1)
		if err != nil {
			return err
		}
		result.merge(nested)
		return nil
	default:
		return &InvalidTokenIndexReferenceError{Target: t.Target.String(), Token: token, Index: idx}
	}
}

func (e *Engine) mergeIndexedOutput(t *task.Task, scope Scope, token string, p task.OutputPath, idx int, result *ExpandedResult, depth int) error {
	switch p.Kind {
	case task.OutputProjectFile, task.OutputWorkspaceFile:
		rel, _ := p.ToWorkspaceRelative(e.project.Source)
		result.Files = append(result.Files, e.createPathForTask(t, rel.ToString()).ToString())
		return nil
	case task.OutputProjectGlob, task.OutputWorkspaceGlob:
		rel, _ := p.ToWorkspaceRelative(e.project.Source)
		result.Globs = append(result.Globs, e.createPathForTask(t, rel.ToString()).ToString())
		return nil
	case task.OutputTokenFunc:
		if depth <= 0 {
			return &InvalidTokenIndexReferenceError{Target: t.Target.String(), Token: token, Index: idx}
		}
		nested, err := e.replaceFunction(t, scope, p.Value, depth-1)
		if err != nil {
			return err
		}
		result.merge(nested)
		return nil
	default:
		return &InvalidTokenIndexReferenceError{Target: t.Target.String(), Token: token, Index: idx}
	}
}

// lookupMeta resolves a @meta(key) argument. Unknown meta keys are not an
// error, matching unknown $variables and unknown ${NAME} references: a
// well-known key that is empty or whose project carries no metadata at
// all, and a key outside the well-known set that is absent from the
// custom metadata bag, both resolve to an absent (empty) value.
func (e *Engine) lookupMeta(key string) string {
	meta := e.project.Metadata
	switch key {
	case "channel":
		if meta == nil {
			return ""
		}
		return meta.Channel
	case "description":
		if meta == nil {
			return ""
		}
		return meta.Description
	case "maintainers":
		if meta == nil || len(meta.Maintainers) == 0 {
			return ""
		}
		return strings.Join(meta.Maintainers, ",")
	case "name":
		if meta == nil {
			return ""
		}
		return meta.Name
	case "owner":
		if meta == nil {
			return ""
		}
		return meta.Owner
	default:
		if meta == nil || meta.Custom == nil {
			return ""
		}
		return meta.Custom[key]
	}
}
