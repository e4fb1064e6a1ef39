package store

import (
	"errors"
	"strconv"

	"github.com/agent-foreman/foreman/internal/models"
)

// RecoverableError is an alias for models.RecoverableError, retained so
// callers can reference store.RecoverableError without importing models
// directly.
type RecoverableError = models.RecoverableError

// ErrOptimisticLock is the sentinel matched by errors.Is against an
// OptimisticLockError, for callers that only need a boolean check.
var ErrOptimisticLock = errors.New("optimistic lock conflict: record was modified by another process")

// OptimisticLockError is returned when a save finds the on-disk version has
// advanced past the version the caller read.
type OptimisticLockError struct {
	Entity       string // "task" or "index"
	ID           string
	ExpectedVersion int
	ActualVersion   int
}

func (e *OptimisticLockError) Error() string {
	return "optimistic lock conflict: record was modified by another process"
}
func (e *OptimisticLockError) ErrorCode() string { return "OPTIMISTIC_LOCK_CONFLICT" }
func (e *OptimisticLockError) Context() map[string]string {
	return map[string]string{
		"entity":           e.Entity,
		"id":               e.ID,
		"expected_version": strconv.Itoa(e.ExpectedVersion),
		"actual_version":   strconv.Itoa(e.ActualVersion),
	}
}
func (e *OptimisticLockError) SuggestedAction() string {
	return "reload the record and retry the mutation"
}
func (e *OptimisticLockError) Is(target error) bool { return target == ErrOptimisticLock }

// ErrTaskNotFound is returned by load-task callers that asked for a
// guaranteed result; LoadTask itself returns (nil, nil) per spec.md §4.1
// failure semantics ("Missing task file on load returns null").
var ErrTaskNotFound = errors.New("task not found")

// TaskNotFoundError enriches ErrTaskNotFound with the requested id.
type TaskNotFoundError struct {
	ID string
}

func (e *TaskNotFoundError) Error() string        { return "task not found: " + e.ID }
func (e *TaskNotFoundError) ErrorCode() string     { return "TASK_NOT_FOUND" }
func (e *TaskNotFoundError) Context() map[string]string {
	return map[string]string{"id": e.ID}
}
func (e *TaskNotFoundError) SuggestedAction() string {
	return "check the task id, or run `foreman status` to list known tasks"
}
func (e *TaskNotFoundError) Is(target error) bool { return target == ErrTaskNotFound }

// CorruptFrontMatterError wraps a parse failure with the offending file path
//.
type CorruptFrontMatterError struct {
	Path string
	Err  error
}

func (e *CorruptFrontMatterError) Error() string {
	return "corrupt task front matter in " + e.Path + ": " + e.Err.Error()
}
func (e *CorruptFrontMatterError) ErrorCode() string { return "CORRUPT_FRONT_MATTER" }
func (e *CorruptFrontMatterError) Context() map[string]string {
	return map[string]string{"path": e.Path}
}
func (e *CorruptFrontMatterError) SuggestedAction() string {
	return "inspect and repair the front matter block by hand, or restore from version control"
}
func (e *CorruptFrontMatterError) Unwrap() error { return e.Err }

// IndexMissingError signals a fatal configuration error for quick operations
// that require an existing index.
type IndexMissingError struct {
	Path string
}

func (e *IndexMissingError) Error() string { return "task index missing: " + e.Path }
func (e *IndexMissingError) ErrorCode() string { return "INDEX_MISSING" }
func (e *IndexMissingError) Context() map[string]string {
	return map[string]string{"path": e.Path}
}
func (e *IndexMissingError) SuggestedAction() string {
	return "run `foreman init` to create the task index"
}

// IsOptimisticLockConflict reports whether err is (or wraps) an
// OptimisticLockError, via typed match first and the sentinel second.
func IsOptimisticLockConflict(err error) bool {
	if err == nil {
		return false
	}
	var ole *OptimisticLockError
	if errors.As(err, &ole) {
		return true
	}
	return errors.Is(err, ErrOptimisticLock)
}
