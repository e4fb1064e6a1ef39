package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestManualExecutor_NeverPassesAutomatically(t *testing.T) {
	exec := &manualExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{
		Kind:   models.StrategyManual,
		Manual: &models.ManualStrategy{Instructions: "click the button", Checklist: []string{"step one", "step two"}},
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Contains(t, result.Details, "click the button")
	require.Contains(t, result.Details, "step one")
}
