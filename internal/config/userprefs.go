package config

import (
	"encoding/json"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/afero"
)

// EnvPrefix is the prefix environment-variable overrides are read under,
// e.g. FERROTASK_LOG_LEVEL, FERROTASK_COLOR.
const EnvPrefix = "FERROTASK"

// UserPreferences is the small, machine-local preferences file consulted
// before CLI flags are parsed: a user's preferred log level and color mode,
// independent of any one workspace. It mirrors the teacher's user config
// file in shape (xdg config dir, JSON on disk, envconfig overrides) but
// carries preferences relevant to this engine instead of remote-cache auth.
type UserPreferences struct {
	LogLevel string `json:"logLevel,omitempty" envconfig:"log_level"`
	Color    string `json:"color,omitempty" envconfig:"color"`
}

func userPreferencesPath() (string, error) {
	return xdg.ConfigFile(filepath.Join("ferrotask", "preferences.json"))
}

// ReadUserPreferences reads the on-disk preferences file (creating its
// parent directory via xdg if necessary) and layers FERROTASK_*
// environment variables over whatever it finds. A missing file is not an
// error; it simply yields the zero-value preferences before env overrides
// are applied.
func ReadUserPreferences(fs afero.Fs) (*UserPreferences, error) {
	prefs := &UserPreferences{}

	path, err := userPreferencesPath()
	if err != nil {
		return nil, err
	}

	if exists, _ := afero.Exists(fs, path); exists {
		b, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, prefs); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, prefs); err != nil {
		return nil, err
	}

	return prefs, nil
}

// WriteUserPreferences persists prefs to the on-disk preferences file.
func WriteUserPreferences(fs afero.Fs, prefs *UserPreferences) error {
	path, err := userPreferencesPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, b, 0o644)
}
