package store

import (
	"context"
	"fmt"
	"os"

	"github.com/agent-foreman/foreman/internal/models"
)

// LoadTask resolves and parses a task file. Returns (nil, nil) if no file
// resolves for id — spec.md §4.1 failure semantics: "Missing task file on
// load returns null", leaving ErrTaskNotFound for callers that want it as
// an error instead (see RequireTask).
func (s *Store) LoadTask(id string, explicitFilePath, indexFilePath string) (*models.Task, error) {
	path, err := s.ResolveTaskPath(id, explicitFilePath, indexFilePath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read task %s: %w", path, err)
	}

	task, err := ParseTask(raw)
	if err != nil {
		return nil, &CorruptFrontMatterError{Path: path, Err: err}
	}
	task.FilePath = path
	return task, nil
}

// RequireTask is LoadTask plus a typed TaskNotFoundError when nothing
// resolves, for callers (CLI commands) that always need a task in hand.
func (s *Store) RequireTask(id, explicitFilePath, indexFilePath string) (*models.Task, error) {
	task, err := s.LoadTask(id, explicitFilePath, indexFilePath)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &TaskNotFoundError{ID: id}
	}
	return task, nil
}

// SaveTask persists task to its resolved (or module-derived) path under
// optimistic locking: the on-disk version must equal expectedVersion, the
// write bumps Version to expectedVersion+1, and the caller re-reads the
// saved task's new version from the returned copy.
//
// Save always writes to the module-derived path for new tasks; an existing
// task keeps whatever path it was loaded from.
func (s *Store) SaveTask(task *models.Task, expectedVersion int) (*models.Task, error) {
	path := task.FilePath
	if path == "" {
		path = s.ModuleDerivedPath(task.ID)
	}

	current, err := s.LoadTask(task.ID, path, "")
	if err != nil {
		return nil, err
	}
	actual := 0
	if current != nil {
		actual = current.Version
	}
	if actual != expectedVersion {
		return nil, &OptimisticLockError{
			Entity:          "task",
			ID:              task.ID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   actual,
		}
	}

	task.Version = expectedVersion + 1
	data, err := SerializeTask(task)
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(path, data, 0o640); err != nil {
		return nil, err
	}
	task.FilePath = path
	return task, nil
}

// SaveTaskWithRetry wraps SaveTask in RetryWithBackoff, re-reading the
// current on-disk version before each attempt so a transient conflict with
// a concurrent writer resolves without the caller hand-rolling a loop
//.
func (s *Store) SaveTaskWithRetry(id string, mutate func(t *models.Task) error) (*models.Task, error) {
	var saved *models.Task
	err := RetryWithBackoff(context.Background(), func() error {
		current, err := s.RequireTask(id, "", "")
		if err != nil {
			return err
		}
		if err := mutate(current); err != nil {
			return err
		}
		saved, err = s.SaveTask(current, current.Version)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// UpdateStatusQuick updates a task's status and mirrors it into the index
// in one call, without requiring the caller to load the full task body
// first.
func (s *Store) UpdateStatusQuick(id string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.SaveTaskWithRetry(id, func(t *models.Task) error {
		t.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.syncIndexEntry(task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateVerificationQuick attaches a verification summary and, when the
// verdict is a pass, flips status to passing; any other verdict leaves
// status untouched for the caller to set explicitly.
func (s *Store) UpdateVerificationQuick(id string, result models.VerificationSummary) (*models.Task, error) {
	task, err := s.SaveTaskWithRetry(id, func(t *models.Task) error {
		t.Verification = &result
		if result.Verdict == models.VerdictPass {
			t.Status = models.StatusPassing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.syncIndexEntry(task); err != nil {
		return nil, err
	}
	return task, nil
}

// syncIndexEntry writes task's thin projection into the index, retrying on
// conflict with a concurrent index writer and also persisting a
// scan-discovered path so future lookups skip the directory walk
//.
func (s *Store) syncIndexEntry(task *models.Task) error {
	return RetryWithBackoff(context.Background(), func() error {
		idx, err := s.LoadIndex()
		if err != nil {
			return err
		}
		idx.Features[task.ID] = task.ThinEntry()
		return s.SaveIndex(idx, idx.Version)
	})
}
