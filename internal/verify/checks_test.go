package verify

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestRunAutomatedChecks_SkipsUndetectedCapabilities(t *testing.T) {
	dir := t.TempDir()
	caps := models.Capabilities{}
	results := RunAutomatedChecks(context.Background(), dir, caps, CheckOptions{})

	byName := map[string]CheckResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	require.True(t, byName["test"].Skipped)
	require.True(t, byName["type-check"].Skipped)
	require.True(t, byName["lint"].Skipped)
	require.True(t, byName["build"].Skipped)
	_, hasE2E := byName["e2e"]
	require.False(t, hasE2E)
}

func TestRunAutomatedChecks_RunsDetectedCommands(t *testing.T) {
	dir := t.TempDir()
	caps := models.Capabilities{
		HasTest:      true,
		TestCommand:  "echo test-ran",
		HasBuild:     true,
		BuildCommand: "echo build-ran",
	}
	results := RunAutomatedChecks(context.Background(), dir, caps, CheckOptions{})

	byName := map[string]CheckResult{}
	for _, r := range results {
		byName[r.Name] = r
	}
	require.True(t, byName["test"].Success)
	require.Contains(t, byName["test"].Output, "test-ran")
	require.True(t, byName["build"].Success)
}

func TestRunAutomatedChecks_SkipBuildOption(t *testing.T) {
	dir := t.TempDir()
	caps := models.Capabilities{HasBuild: true, BuildCommand: "echo should-not-run"}
	results := RunAutomatedChecks(context.Background(), dir, caps, CheckOptions{SkipBuild: true})

	for _, r := range results {
		if r.Name == "build" {
			require.True(t, r.Skipped)
			require.Equal(t, "--skip-build", r.Output)
		}
	}
}

func TestRunAutomatedChecks_E2ERunsLastAndRespectsSkip(t *testing.T) {
	dir := t.TempDir()
	caps := models.Capabilities{
		E2E: &models.E2EInfo{Available: true, Command: "echo e2e-ran"},
	}
	results := RunAutomatedChecks(context.Background(), dir, caps, CheckOptions{})
	require.Equal(t, "e2e", results[len(results)-1].Name)

	skipped := RunAutomatedChecks(context.Background(), dir, caps, CheckOptions{E2EMode: E2EModeSkip})
	for _, r := range skipped {
		require.NotEqual(t, "e2e", r.Name)
	}
}

func TestRunNamedCheck_RunsInGivenCwd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644))

	result := runNamedCheck(context.Background(), dir, namedCheck{name: "ls", command: "ls marker.txt"})
	require.True(t, result.Success)
	require.Contains(t, result.Output, "marker.txt")
}

func TestRunNamedCheck_InheritsEnvironment(t *testing.T) {
	dir := t.TempDir()
	result := runNamedCheck(context.Background(), dir, namedCheck{name: "env", command: "echo $CI && [ -n \"$PATH\" ]"})
	require.True(t, result.Success)
	require.Contains(t, result.Output, "true")
}

func TestDiscoverChangedTestFiles_NoGitRepoReturnsNil(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, discoverChangedTestFiles(dir))
}

func TestSelectiveTestCommand_PatternOverridesDiscovery(t *testing.T) {
	cmd, ok := selectiveTestCommand(t.TempDir(), "go test ./...", "TestFoo")
	require.True(t, ok)
	require.Equal(t, "go test ./... -run TestFoo", cmd)
}

func TestSelectiveTestCommand_FallsBackToFullSuiteWhenNothingChanged(t *testing.T) {
	dir := t.TempDir()
	cmd, ok := selectiveTestCommand(dir, "go test ./...", "")
	require.False(t, ok)
	require.Equal(t, "go test ./...", cmd)
}

func TestSelectiveTestCommand_NarrowsToChangedTestFiles(t *testing.T) {
	dir := initGitRepo(t)
	testFile := filepath.Join(dir, "sample_test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package sample\n"), 0o644))
	runGit(t, dir, "add", "sample_test.go")

	cmd, ok := selectiveTestCommand(dir, "go test", "")
	require.True(t, ok)
	require.Contains(t, cmd, "sample_test.go")
}

func initGitRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seed.txt"), []byte("seed"), 0o644))
	runGit(t, dir, "add", "seed.txt")
	runGit(t, dir, "commit", "-m", "seed")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
