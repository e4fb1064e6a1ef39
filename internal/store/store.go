// Package store implements the Task Store: durable, optimistically-locked,
// sharded persistence for tasks.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agent-foreman/foreman/internal/app"
	"github.com/agent-foreman/foreman/internal/models"
)

// Store is the single entry point for task CRUD, bound to one project's
// resolved state paths.
type Store struct {
	paths *app.Paths
}

// New binds a Store to the state root resolved for cwd.
func New(cwd string) (*Store, error) {
	paths, err := app.ResolvePaths(cwd)
	if err != nil {
		return nil, err
	}
	return &Store{paths: paths}, nil
}

// Paths exposes the resolved locations this Store reads/writes.
func (s *Store) Paths() *app.Paths { return s.paths }

// writeAtomic writes data to path via write-to-temp + rename, so a crash
// mid-write never leaves a torn file.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// ModuleDerivedPath returns the conventional "<module>/<id-suffix>.md" path
// for a task id, relative to the tasks directory").
func (s *Store) ModuleDerivedPath(id string) string {
	module, suffix := splitModuleSuffix(id)
	return filepath.Join(s.paths.TasksDir, module, suffix+".md")
}

// legacyFirstSegmentPath implements resolution priority 3: the legacy
// derivation treats everything before the *last* dot as the module path
// component, covering ids created before multi-segment modules existed.
func (s *Store) legacyFirstSegmentPath(id string) string {
	idx := strings.LastIndexByte(id, '.')
	if idx < 0 {
		return filepath.Join(s.paths.TasksDir, id+".md")
	}
	return filepath.Join(s.paths.TasksDir, id[:idx], id[idx+1:]+".md")
}

func splitModuleSuffix(id string) (module, suffix string) {
	idx := strings.IndexByte(id, '.')
	if idx < 0 {
		return id, id
	}
	return id[:idx], id[idx+1:]
}

// ResolveTaskPath implements the single path resolver: explicit filePath,
// then the index-cached filePath, then module-derived, then legacy
// first-segment derivation, then a
// directory scan matching id in front matter. Returns "" if none resolve
// (caller decides what that means).
func (s *Store) ResolveTaskPath(id string, explicitFilePath string, indexFilePath string) (string, error) {
	if explicitFilePath != "" {
		if _, err := os.Stat(explicitFilePath); err == nil {
			return explicitFilePath, nil
		}
		// spec.md §8 boundary behavior: an explicit filePath that does not
		// exist returns null without trying fallbacks.
		return "", nil
	}
	if indexFilePath != "" {
		if _, err := os.Stat(indexFilePath); err == nil {
			return indexFilePath, nil
		}
	}

	if p := s.ModuleDerivedPath(id); fileExists(p) {
		return p, nil
	}
	if p := s.legacyFirstSegmentPath(id); fileExists(p) {
		return p, nil
	}

	return s.scanForTaskID(id)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// scanForTaskID walks the tasks directory for any file whose front matter id
// matches. This is the last resolution step, the slow path; discovered results
// are persisted into the index by the caller so future lookups amortize to
// O(1).
func (s *Store) scanForTaskID(id string) (string, error) {
	var found string
	err := filepath.WalkDir(s.paths.TasksDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		task, parseErr := ParseTask(raw)
		if parseErr != nil {
			return nil
		}
		if task.ID == id {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scan tasks directory: %w", err)
	}
	return found, nil
}

// now is overridable in tests so timestamp-bearing writes are deterministic.
var now = time.Now
