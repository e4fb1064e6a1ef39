package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsOptimisticLockConflict_MatchesTypedError(t *testing.T) {
	err := &OptimisticLockError{Entity: "task", ID: "auth.login", ExpectedVersion: 1, ActualVersion: 2}
	require.True(t, IsOptimisticLockConflict(err))
	require.True(t, errors.Is(err, ErrOptimisticLock))
}

func TestIsOptimisticLockConflict_FalseForOtherErrors(t *testing.T) {
	require.False(t, IsOptimisticLockConflict(errors.New("boom")))
	require.False(t, IsOptimisticLockConflict(nil))
}

func TestCorruptFrontMatterError_Unwraps(t *testing.T) {
	inner := errors.New("bad yaml")
	err := &CorruptFrontMatterError{Path: "x.md", Err: inner}
	require.ErrorIs(t, err, inner)
}

func TestTaskNotFoundError_ErrorCode(t *testing.T) {
	err := &TaskNotFoundError{ID: "auth.login"}
	require.Equal(t, "TASK_NOT_FOUND", err.ErrorCode())
	require.True(t, errors.Is(err, ErrTaskNotFound))
}
