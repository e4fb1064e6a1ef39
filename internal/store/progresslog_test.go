package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestAppendAndReadProgress_PreservesOrder(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AppendProgress(models.ProgressEntry{
		Kind: models.ProgressKindInit, Summary: "session started",
	}))
	require.NoError(t, s.AppendProgress(models.ProgressEntry{
		Kind: models.ProgressKindStep, FeatureID: "auth.login", Summary: "selected task",
	}))
	require.NoError(t, s.AppendProgress(models.ProgressEntry{
		Kind: models.ProgressKindVerify, FeatureID: "auth.login", Summary: "verification passed",
	}))

	entries, err := s.ReadProgress()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, models.ProgressKindInit, entries[0].Kind)
	require.Equal(t, models.ProgressKindStep, entries[1].Kind)
	require.Equal(t, models.ProgressKindVerify, entries[2].Kind)
}

func TestReadProgress_MissingLogReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	entries, err := s.ReadProgress()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestAppendProgress_RejectsUnknownKind(t *testing.T) {
	s := newTestStore(t)
	err := s.AppendProgress(models.ProgressEntry{Kind: "BOGUS", Summary: "nope"})
	require.Error(t, err)
}
