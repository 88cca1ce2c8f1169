// Package taskhash demonstrates a downstream consumer of expand.ExpandedResult:
// a deterministic content hash over the files, globs, and env vars an
// expanded task declared, standing in for the cache-key hashing a real task
// runner would build on top of this engine.
package taskhash

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/ferrotask/ferrotask/internal/env"
	"github.com/ferrotask/ferrotask/internal/expand"
)

// Tracker hashes expand.ExpandedResult values for a set of tasks. It caches
// one digest per task target so a task's dependents can fold its hash into
// their own without recomputing it.
type Tracker struct {
	fs afero.Fs

	mu     sync.RWMutex
	hashes map[string]string
}

// NewTracker returns a Tracker that reads file contents from fs. A nil fs
// defaults to the real OS filesystem.
func NewTracker(fs afero.Fs) *Tracker {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Tracker{fs: fs, hashes: make(map[string]string)}
}

// HashResult computes a deterministic sha256 digest of an ExpandedResult:
// every resolved file's contents (hashed concurrently, bounded by
// runtime.GOMAXPROCS), folded together with the sorted glob patterns and
// the sorted, resolved values of the referenced env vars. Two
// ExpandedResult values with the same files/globs/env names and the same
// filesystem and environment state always hash identically, regardless of
// slice order.
func (t *Tracker) HashResult(envMap env.EnvironmentVariableMap, result *expand.ExpandedResult) (string, error) {
	fileHashes, err := t.hashFiles(result.Files)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(result.Files)+len(result.Globs)+len(result.Env))
	for _, f := range result.Files {
		lines = append(lines, fmt.Sprintf("file:%s:%s", f, fileHashes[f]))
	}
	for _, g := range result.Globs {
		lines = append(lines, fmt.Sprintf("glob:%s", g))
	}

	resolved := env.EnvironmentVariableMap{}
	for _, name := range result.Env {
		resolved[name] = envMap[name]
	}
	for _, pair := range resolved.ToHashable() {
		lines = append(lines, "env:"+pair)
	}

	sort.Strings(lines)

	h := sha256.New()
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SetHash records the digest computed for a task target, so later callers
// (a task's dependents) can fold it into their own hash without
// recomputing it.
func (t *Tracker) SetHash(target, hash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hashes[target] = hash
}

// GetHash returns the previously recorded digest for a task target.
func (t *Tracker) GetHash(target string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.hashes[target]
	return h, ok
}

// hashFiles reads and sha256-hashes each file concurrently, bounded by
// runtime.GOMAXPROCS, mirroring the teacher's channel-and-worker-pool
// CalculateFileHashes but modernized to errgroup.
func (t *Tracker) hashFiles(files []string) (map[string]string, error) {
	results := make(map[string]string, len(files))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(context.Background())
	workers := runtime.GOMAXPROCS(0)
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	queue := make(chan string)
	g.Go(func() error {
		defer close(queue)
		for _, path := range files {
			select {
			case queue <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for path := range queue {
				contents, err := afero.ReadFile(t.fs, path)
				if err != nil {
					return fmt.Errorf("hashing %s: %w", path, err)
				}
				sum := sha256.Sum256(contents)
				mu.Lock()
				results[path] = hex.EncodeToString(sum[:])
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
