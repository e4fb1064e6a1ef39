package strategy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func writeScript(t *testing.T, root, rel, body string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(body), 0o755))
}

func TestScriptExecutor_RunsAndReportsExit(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "verify.sh", "#!/bin/sh\nexit 0\n")

	exec := &scriptExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:   models.StrategyScript,
		Script: &models.ScriptStrategy{Path: "verify.sh"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestScriptExecutor_NonZeroExitFails(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "verify.sh", "#!/bin/sh\nexit 1\n")

	exec := &scriptExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:   models.StrategyScript,
		Script: &models.ScriptStrategy{Path: "verify.sh"},
	})
	require.NoError(t, err)
	require.False(t, result.Success)
}

func TestScriptExecutor_ExpectedExitSetMatches(t *testing.T) {
	root := t.TempDir()
	writeScript(t, root, "verify.sh", "#!/bin/sh\nexit 7\n")

	exec := &scriptExecutor{}
	result, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:   models.StrategyScript,
		Script: &models.ScriptStrategy{Path: "verify.sh", ExpectedExit: []int{7}},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

func TestScriptExecutor_RejectsPathOutsideRoot(t *testing.T) {
	root := t.TempDir()
	exec := &scriptExecutor{}
	_, err := exec.Execute(context.Background(), ExecContext{ProjectRoot: root}, models.VerificationStrategy{
		Kind:   models.StrategyScript,
		Script: &models.ScriptStrategy{Path: "../../outside.sh"},
	})
	require.Error(t, err)
}
