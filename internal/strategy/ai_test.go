package strategy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

func fakeInvoker(t *testing.T, script string) *agent.Invoker {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-agent")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return agent.NewWithProfiles([]agent.Profile{{
		Name:     "fake-agent",
		Command:  path,
		Delivery: agent.DeliveryArg,
		Args:     func(prompt string) []string { return []string{prompt} },
	}})
}

func TestAIExecutor_DelegatesToInvoker(t *testing.T) {
	inv := fakeInvoker(t, "#!/bin/sh\necho criteria satisfied\n")
	exec := &aiExecutor{deps: Dependencies{Invoker: inv}}

	result, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{Kind: models.StrategyAI})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Contains(t, result.Output, "criteria satisfied")
}

func TestAIExecutor_NoInvokerIsError(t *testing.T) {
	exec := &aiExecutor{}
	_, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{Kind: models.StrategyAI})
	require.Error(t, err)
}
