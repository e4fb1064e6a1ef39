package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestSaveAndLatestVerificationResult(t *testing.T) {
	s := newTestStore(t)

	first := &models.VerificationResult{
		FeatureID: "auth.login-flow",
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Verdict:   models.VerdictFail,
	}
	second := &models.VerificationResult{
		FeatureID: "auth.login-flow",
		Timestamp: time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC),
		Verdict:   models.VerdictPass,
	}

	_, err := s.SaveVerificationResult(first)
	require.NoError(t, err)
	_, err = s.SaveVerificationResult(second)
	require.NoError(t, err)

	latest, err := s.LatestVerificationResult("auth.login-flow")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, models.VerdictPass, latest.Verdict)

	history, err := s.VerificationHistory("auth.login-flow")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, models.VerdictFail, history[0].Verdict)
	require.Equal(t, models.VerdictPass, history[1].Verdict)
}

func TestLatestVerificationResult_NoneReturnsNil(t *testing.T) {
	s := newTestStore(t)
	latest, err := s.LatestVerificationResult("auth.never-verified")
	require.NoError(t, err)
	require.Nil(t, latest)
}
