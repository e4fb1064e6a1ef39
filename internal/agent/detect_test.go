package agent

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/app"
)

func TestPriorityOrder_EnvOverride(t *testing.T) {
	t.Setenv(app.EnvAgentPriority, "aider, codex")
	names := PriorityOrder(DefaultProfiles())
	require.Equal(t, []string{"aider", "codex"}, names)
}

func TestPriorityOrder_DefaultsToProfileOrder(t *testing.T) {
	t.Setenv(app.EnvAgentPriority, "")
	names := PriorityOrder(DefaultProfiles())
	require.Equal(t, "claude", names[0])
}

func TestAvailable_UnknownBinaryIsFalse(t *testing.T) {
	require.False(t, Available("definitely-not-a-real-agent-binary"))
}

func TestFirstAvailable_DisabledReturnsFalse(t *testing.T) {
	t.Setenv(app.EnvDisableAgent, "1")
	_, ok := FirstAvailable(DefaultProfiles())
	require.False(t, ok)
}

func TestFirstAvailable_FindsFakeBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	fakeBin := dir + "/claude"
	require.NoError(t, os.WriteFile(fakeBin, []byte("#!/bin/sh\necho ok\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	profile, ok := FirstAvailable(DefaultProfiles())
	require.True(t, ok)
	require.Equal(t, "claude", profile.Name)
}
