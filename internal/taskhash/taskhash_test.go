package taskhash

import (
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/ferrotask/ferrotask/internal/env"
	"github.com/ferrotask/ferrotask/internal/expand"
)

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, contents := range files {
		if err := afero.WriteFile(fs, path, []byte(contents), 0o644); err != nil {
			t.Fatalf("failed to seed %s: %v", path, err)
		}
	}
	return fs
}

func TestHashResultDeterministic(t *testing.T) {
	fs := memFs(t, map[string]string{
		"src/a.go": "package a",
		"src/b.go": "package b",
	})
	tracker := NewTracker(fs)
	envMap := env.EnvironmentVariableMap{"NODE_ENV": "production", "CI": "true"}

	result := &expand.ExpandedResult{
		Files: []string{"src/a.go", "src/b.go"},
		Globs: []string{"src/**/*.go"},
		Env:   []string{"NODE_ENV", "CI"},
	}
	reordered := &expand.ExpandedResult{
		Files: []string{"src/b.go", "src/a.go"},
		Globs: []string{"src/**/*.go"},
		Env:   []string{"CI", "NODE_ENV"},
	}

	got, err := tracker.HashResult(envMap, result)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	reorderedGot, err := tracker.HashResult(envMap, reordered)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	if got != reorderedGot {
		t.Errorf("hash changed with input reordering: %s != %s", got, reorderedGot)
	}
	if got == "" {
		t.Error("expected a non-empty digest")
	}
}

func TestHashResultChangesWithFileContents(t *testing.T) {
	envMap := env.EnvironmentVariableMap{}
	result := &expand.ExpandedResult{Files: []string{"src/a.go"}}

	fsOne := memFs(t, map[string]string{"src/a.go": "v1"})
	fsTwo := memFs(t, map[string]string{"src/a.go": "v2"})

	hashOne, err := NewTracker(fsOne).HashResult(envMap, result)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	hashTwo, err := NewTracker(fsTwo).HashResult(envMap, result)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	if hashOne == hashTwo {
		t.Error("expected different file contents to produce different hashes")
	}
}

func TestHashResultChangesWithEnvValue(t *testing.T) {
	fs := memFs(t, nil)
	tracker := NewTracker(fs)
	result := &expand.ExpandedResult{Env: []string{"NODE_ENV"}}

	hashOne, err := tracker.HashResult(env.EnvironmentVariableMap{"NODE_ENV": "production"}, result)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	hashTwo, err := tracker.HashResult(env.EnvironmentVariableMap{"NODE_ENV": "development"}, result)
	if err != nil {
		t.Fatalf("HashResult failed: %v", err)
	}
	if hashOne == hashTwo {
		t.Error("expected different env values to produce different hashes")
	}
}

func TestHashResultMissingFile(t *testing.T) {
	fs := memFs(t, nil)
	tracker := NewTracker(fs)
	result := &expand.ExpandedResult{Files: []string{"missing.go"}}

	if _, err := tracker.HashResult(env.EnvironmentVariableMap{}, result); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// TestHashResultManyMissingFilesDoesNotDeadlock guards against the producer
// goroutine blocking on an unbuffered queue forever after a worker exits
// early on a read error: more files than worker slots ensures unsent paths
// remain queued when the first error fires.
func TestHashResultManyMissingFilesDoesNotDeadlock(t *testing.T) {
	fs := memFs(t, nil)
	tracker := NewTracker(fs)

	files := make([]string, 0, 64)
	for i := 0; i < 64; i++ {
		files = append(files, fmt.Sprintf("missing-%d.go", i))
	}
	result := &expand.ExpandedResult{Files: files}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := tracker.HashResult(env.EnvironmentVariableMap{}, result); err == nil {
			t.Error("expected an error for missing files")
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("HashResult deadlocked on many missing files")
	}
}

func TestTrackerSetGetHash(t *testing.T) {
	tracker := NewTracker(nil)

	if _, ok := tracker.GetHash("app#build"); ok {
		t.Error("expected no hash recorded yet")
	}

	tracker.SetHash("app#build", "deadbeef")
	got, ok := tracker.GetHash("app#build")
	if !ok {
		t.Fatal("expected a recorded hash")
	}
	if got != "deadbeef" {
		t.Errorf("got %q, want %q", got, "deadbeef")
	}
}
