package project

import (
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"

	"github.com/ferrotask/ferrotask/internal/turbopath"
)

func anchored(paths ...string) []turbopath.AnchoredUnixPath {
	out := make([]turbopath.AnchoredUnixPath, len(paths))
	for i, p := range paths {
		out[i] = turbopath.AnchoredUnixPath(p)
	}
	return out
}

func TestFileGroupRoot(t *testing.T) {
	g := &FileGroup{
		DeclaredFiles: anchored("app/src/a.ts", "app/src/b.ts"),
	}

	root, err := g.Root(turbopath.AnchoredUnixPath("app"))
	assert.NilError(t, err)
	assert.Equal(t, root.ToString(), "app/src")
}

func TestFileGroupRootEmpty(t *testing.T) {
	g := &FileGroup{}
	_, err := g.Root(turbopath.AnchoredUnixPath("app"))
	assert.ErrorContains(t, err, "no files or globs")
}

func TestFileGroupFilesLoose(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, fs.MkdirAll("/ws/app/src", 0o755))
	assert.NilError(t, afero.WriteFile(fs, "/ws/app/src/a.ts", []byte("x"), 0o644))

	g := &FileGroup{
		DeclaredFiles: anchored("app/src/a.ts", "app/src/missing.ts"),
	}

	_, err := g.Files(fs, turbopath.AbsoluteSystemPath("/ws"), false)
	assert.ErrorContains(t, err, "does not exist")

	files, err := g.Files(fs, turbopath.AbsoluteSystemPath("/ws"), true)
	assert.NilError(t, err)
	assert.Equal(t, len(files), 1)
	assert.Equal(t, files[0].ToString(), "app/src/a.ts")
}

func TestFileGroupDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NilError(t, fs.MkdirAll("/ws/app/assets", 0o755))

	g := &FileGroup{DeclaredFiles: anchored("app/assets")}

	dirs, err := g.Dirs(fs, turbopath.AbsoluteSystemPath("/ws"), false)
	assert.NilError(t, err)
	assert.Equal(t, len(dirs), 1)
	assert.Equal(t, dirs[0].ToString(), "app/assets")
}

func TestFileGroupGlobsAndEnv(t *testing.T) {
	g := &FileGroup{}
	_, err := g.Globs(turbopath.AnchoredUnixPath("app"))
	assert.ErrorContains(t, err, "no globs")
	_, err = g.EnvNames()
	assert.ErrorContains(t, err, "no env vars")

	g2 := &FileGroup{DeclaredGlobs: anchored("**/*.js"), DeclaredEnv: []string{"NODE_ENV"}}
	globs, err := g2.Globs(turbopath.AnchoredUnixPath("lib"))
	assert.NilError(t, err)
	assert.DeepEqual(t, globs, anchored("lib/**/*.js"))

	names, err := g2.EnvNames()
	assert.NilError(t, err)
	assert.DeepEqual(t, names, []string{"NODE_ENV"})
}
