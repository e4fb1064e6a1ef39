package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestCommandExecutor_SuccessExitZero(t *testing.T) {
	root := t.TempDir()
	exec := &commandExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:    models.StrategyCommand,
		Command: &models.CommandStrategy{Command: "true"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestCommandExecutor_ExpectedExitSet(t *testing.T) {
	root := t.TempDir()
	exec := &commandExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:    models.StrategyCommand,
		Command: &models.CommandStrategy{Command: "sh", Args: []string{"-c", "exit 3"}, ExpectedExit: []int{3}},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestCommandExecutor_RejectsDangerousPattern(t *testing.T) {
	root := t.TempDir()
	exec := &commandExecutor{}
	_, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:    models.StrategyCommand,
		Command: &models.CommandStrategy{Command: "rm", Args: []string{"-rf", "/"}},
	})
	require.Error(t, err)
}

func TestCommandExecutor_RejectsCwdOutsideRoot(t *testing.T) {
	root := t.TempDir()
	exec := &commandExecutor{}
	_, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root, Cwd: "/etc"}, models.VerificationStrategy{
		Kind:    models.StrategyCommand,
		Command: &models.CommandStrategy{Command: "true"},
	})
	require.Error(t, err)
}
