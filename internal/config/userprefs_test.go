package config

import (
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
)

func TestReadUserPreferencesDefaultsWhenAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()

	prefs, err := ReadUserPreferences(fs)
	assert.NilError(t, err)
	assert.Equal(t, prefs.LogLevel, "")
}

func TestReadUserPreferencesEnvOverridesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := userPreferencesPath()
	assert.NilError(t, err)
	assert.NilError(t, afero.WriteFile(fs, path, []byte(`{"logLevel":"info","color":"auto"}`), 0o644))

	t.Setenv("FERROTASK_LOG_LEVEL", "debug")

	prefs, err := ReadUserPreferences(fs)
	assert.NilError(t, err)
	assert.Equal(t, prefs.LogLevel, "debug")
	assert.Equal(t, prefs.Color, "auto")
}

func TestWriteUserPreferencesRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	want := &UserPreferences{LogLevel: "warn", Color: "never"}

	assert.NilError(t, WriteUserPreferences(fs, want))

	got, err := ReadUserPreferences(fs)
	assert.NilError(t, err)
	assert.Equal(t, got.LogLevel, "warn")
	assert.Equal(t, got.Color, "never")
}
