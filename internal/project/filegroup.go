package project

import (
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/turbopath"
)

// FileGroup is a named, declarative collection of files, globs, and env var
// names attached to a Project. DeclaredFiles/DeclaredGlobs/DeclaredEnv hold
// the raw configuration; Root/Dirs/Files/Globs/EnvNames are the derived
// queries the token expansion engine calls.
type FileGroup struct {
	DeclaredFiles []turbopath.AnchoredUnixPath
	DeclaredGlobs []turbopath.AnchoredUnixPath
	DeclaredEnv   []string
}

// EmptyFileGroupError is returned by Root, Globs, and EnvNames when the
// group carries nothing for the requested operation.
type EmptyFileGroupError struct {
	Operation string
}

func (e *EmptyFileGroupError) Error() string {
	return "file group has no " + e.Operation
}

// MissingPathError is returned by Dirs/Files in non-loose mode when a
// declared path does not exist on disk.
type MissingPathError struct {
	Path string
}

func (e *MissingPathError) Error() string {
	return "file group path does not exist: " + e.Path
}

// Root returns the nearest common-ancestor workspace-relative directory
// among the group's declared files and globs, biased toward projectSource.
// Declared files are stored workspace-relative already; declared globs are
// stored as bare patterns relative to projectSource and are joined to it
// before their static prefix is computed.
func (g *FileGroup) Root(projectSource turbopath.AnchoredUnixPath) (turbopath.AnchoredUnixPath, error) {
	var dirs []string
	for _, f := range g.DeclaredFiles {
		dirs = append(dirs, dirOf(f.ToString()))
	}
	for _, gl := range g.DeclaredGlobs {
		base := globBase(gl.ToString())
		dirs = append(dirs, projectSource.Join(turbopath.RelativeUnixPath(base)).ToString())
	}
	if len(dirs) == 0 {
		return "", &EmptyFileGroupError{Operation: "files or globs"}
	}

	common := longestCommonDir(dirs)

	// Bias toward the project source: when every declared entry is nested
	// under the project, prefer the deeper project directory over a shared
	// ancestor higher up the workspace tree.
	src := projectSource.ToString()
	if src != "" && src != "." && isAncestorOf(src, dirs) {
		if common == "" || common == "." || len(strings.Split(common, "/")) < len(strings.Split(src, "/")) {
			common = src
		}
	}

	return turbopath.AnchoredUnixPath(common), nil
}

// Dirs returns the subset of declared files whose on-disk absolute path
// resolves to a directory. Missing paths error unless loose is true.
func (g *FileGroup) Dirs(fs afero.Fs, workspaceRoot turbopath.AbsoluteSystemPath, loose bool) ([]turbopath.AnchoredUnixPath, error) {
	return g.filterByKind(fs, workspaceRoot, loose, true)
}

// Files returns the subset of declared files that are regular files.
// Missing paths error unless loose is true.
func (g *FileGroup) Files(fs afero.Fs, workspaceRoot turbopath.AbsoluteSystemPath, loose bool) ([]turbopath.AnchoredUnixPath, error) {
	return g.filterByKind(fs, workspaceRoot, loose, false)
}

func (g *FileGroup) filterByKind(fs afero.Fs, workspaceRoot turbopath.AbsoluteSystemPath, loose bool, wantDir bool) ([]turbopath.AnchoredUnixPath, error) {
	var out []turbopath.AnchoredUnixPath
	cache := map[string]statResult{}
	for _, f := range g.DeclaredFiles {
		abs := f.ToSystemPath().RestoreAnchor(workspaceRoot)
		res, err := statCached(fs, cache, abs.ToString())
		if err != nil {
			return nil, err
		}
		if !res.exists {
			if loose {
				continue
			}
			return nil, &MissingPathError{Path: f.ToString()}
		}
		if res.isDir == wantDir {
			out = append(out, f)
		}
	}
	return out, nil
}

// Globs returns the declared globs joined onto projectSource, since a
// group's glob patterns are declared relative to the project rather than
// the workspace root. Errors if none are declared.
func (g *FileGroup) Globs(projectSource turbopath.AnchoredUnixPath) ([]turbopath.AnchoredUnixPath, error) {
	if len(g.DeclaredGlobs) == 0 {
		return nil, &EmptyFileGroupError{Operation: "globs"}
	}
	out := make([]turbopath.AnchoredUnixPath, len(g.DeclaredGlobs))
	for i, gl := range g.DeclaredGlobs {
		out[i] = projectSource.Join(turbopath.RelativeUnixPath(gl.ToString()))
	}
	return out, nil
}

// EnvNames returns the declared env var names. Errors if none are declared.
func (g *FileGroup) EnvNames() ([]string, error) {
	if len(g.DeclaredEnv) == 0 {
		return nil, &EmptyFileGroupError{Operation: "env vars"}
	}
	out := make([]string, len(g.DeclaredEnv))
	copy(out, g.DeclaredEnv)
	return out, nil
}

type statResult struct {
	isDir  bool
	exists bool
}

func statCached(fs afero.Fs, cache map[string]statResult, path string) (statResult, error) {
	if v, ok := cache[path]; ok {
		return v, nil
	}
	info, err := fs.Stat(path)
	if err != nil {
		res := statResult{exists: false}
		cache[path] = res
		return res, nil
	}
	res := statResult{isDir: info.IsDir(), exists: true}
	cache[path] = res
	return res, nil
}

func dirOf(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// globBase returns the longest path prefix of a glob pattern that contains
// no glob metacharacters.
func globBase(pattern string) string {
	segments := strings.Split(pattern, "/")
	var base []string
	for _, seg := range segments {
		if strings.ContainsAny(seg, "*?[{") {
			break
		}
		base = append(base, seg)
	}
	return strings.Join(base, "/")
}

func longestCommonDir(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	sorted := make([]string, len(dirs))
	copy(sorted, dirs)
	sort.Strings(sorted)

	first := strings.Split(sorted[0], "/")
	last := strings.Split(sorted[len(sorted)-1], "/")

	var common []string
	for i := 0; i < len(first) && i < len(last); i++ {
		if first[i] != last[i] {
			break
		}
		common = append(common, first[i])
	}
	return strings.Join(common, "/")
}

func isAncestorOf(dir string, dirs []string) bool {
	prefix := dir + "/"
	for _, d := range dirs {
		if d != dir && !strings.HasPrefix(d, prefix) {
			return false
		}
	}
	return true
}
