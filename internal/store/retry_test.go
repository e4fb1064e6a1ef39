package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_SucceedsAfterConflicts(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &OptimisticLockError{Entity: "task", ID: "x"}
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return &OptimisticLockError{Entity: "task", ID: "x"}
	})
	require.Error(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_NonConflictErrorIsPermanent(t *testing.T) {
	attempts := 0
	sentinel := errors.New("disk full")
	err := RetryWithBackoff(context.Background(), func() error {
		attempts++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, 1, attempts)
}
