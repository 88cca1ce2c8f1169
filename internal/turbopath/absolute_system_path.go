package turbopath

import (
	"os"
	"path/filepath"
)

// AbsoluteSystemPath is a root-relative path using system separators.
type AbsoluteSystemPath string

// For interface reasons, we need a way to distinguish between
// Absolute/Anchored/Relative/System/Unix/File paths so we stamp them.
func (AbsoluteSystemPath) absolutePathStamp() {}
func (AbsoluteSystemPath) systemPathStamp()   {}
func (AbsoluteSystemPath) filePathStamp()     {}

// ToString returns a string represenation of this Path.
// Used for interfacing with APIs that require a string.
func (p AbsoluteSystemPath) ToString() string {
	return string(p)
}

// RelativeTo calculates the relative path between two `AbsoluteSystemPath`s.
func (p AbsoluteSystemPath) RelativeTo(basePath AbsoluteSystemPath) (AnchoredSystemPath, error) {
	processed, err := filepath.Rel(basePath.ToString(), p.ToString())
	return AnchoredSystemPath(processed), err
}

// Join appends relative path segments to this AbsoluteSystemPath.
func (p AbsoluteSystemPath) Join(additional ...RelativeSystemPath) AbsoluteSystemPath {
	cast := RelativeSystemPathArray(additional)
	return AbsoluteSystemPath(filepath.Join(p.ToString(), filepath.Join(cast.ToStringArray()...)))
}

// Dir returns the parent directory of this path.
func (p AbsoluteSystemPath) Dir() AbsoluteSystemPath {
	return AbsoluteSystemPath(filepath.Dir(p.ToString()))
}

// EvalSymlinks resolves symlinks in the path, returning the canonical path.
func (p AbsoluteSystemPath) EvalSymlinks() (AbsoluteSystemPath, error) {
	resolved, err := filepath.EvalSymlinks(p.ToString())
	if err != nil {
		return "", err
	}
	return AbsoluteSystemPath(resolved), nil
}

// FileExists returns true if the given path exists and is a regular file.
func (p AbsoluteSystemPath) FileExists() bool {
	info, err := os.Stat(p.ToString())
	return err == nil && !info.IsDir()
}

// DirExists returns true if the given path exists and is a directory.
func (p AbsoluteSystemPath) DirExists() bool {
	info, err := os.Stat(p.ToString())
	return err == nil && info.IsDir()
}

// MkdirAll ensures the directory at this path exists.
func (p AbsoluteSystemPath) MkdirAll(mode os.FileMode) error {
	return os.MkdirAll(p.ToString(), mode)
}

// ReadFile reads the full contents of the file at this path.
func (p AbsoluteSystemPath) ReadFile() ([]byte, error) {
	return os.ReadFile(p.ToString())
}

// WriteFile writes contents to the file at this path, creating it if necessary.
func (p AbsoluteSystemPath) WriteFile(contents []byte, mode os.FileMode) error {
	return os.WriteFile(p.ToString(), contents, mode)
}

// GetCwd returns the current working directory as an AbsoluteSystemPath.
func GetCwd() (AbsoluteSystemPath, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return AbsoluteSystemPath(cwd), nil
}

// ResolveUnknownPath resolves a possibly-empty, possibly-relative path
// against a default directory. An empty raw path resolves to the default.
func ResolveUnknownPath(defaultDir AbsoluteSystemPath, raw string) AbsoluteSystemPath {
	if raw == "" {
		return defaultDir
	}
	if filepath.IsAbs(raw) {
		return AbsoluteSystemPath(filepath.Clean(raw))
	}
	return AbsoluteSystemPath(filepath.Join(defaultDir.ToString(), raw))
}
