package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeProfile returns a single-entry profile set whose command is a small
// shell script written into a temp directory, so invocation tests never
// shell out to a real agent CLI.
func fakeProfile(t *testing.T, script string) []Profile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-agent")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return []Profile{{
		Name:     "fake-agent",
		Command:  path,
		Delivery: DeliveryArg,
		Args:     func(prompt string) []string { return []string{prompt} },
	}}
}

func TestInvoke_SuccessCapturesStdout(t *testing.T) {
	profiles := fakeProfile(t, "#!/bin/sh\necho hello from agent\n")
	inv := NewWithProfiles(profiles)

	result, err := inv.CallAgent(context.Background(), "fake-agent", Request{Prompt: "do it"})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, "hello from agent", result.Output)
	require.Equal(t, "fake-agent", result.AgentUsed)
}

func TestInvoke_NonZeroExitCapturesStderr(t *testing.T) {
	profiles := fakeProfile(t, "#!/bin/sh\necho rate limit exceeded 1>&2\nexit 1\n")
	inv := NewWithProfiles(profiles)

	result, err := inv.CallAgent(context.Background(), "fake-agent", Request{Prompt: "do it"})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, ErrorKindTransient, result.ErrorKind)
	require.Contains(t, result.Error, "rate limit")
}

func TestInvoke_TimeoutKillsProcess(t *testing.T) {
	profiles := fakeProfile(t, "#!/bin/sh\nsleep 5\n")
	inv := NewWithProfiles(profiles)

	result, err := inv.CallAgent(context.Background(), "fake-agent", Request{
		Prompt:  "do it",
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, ErrorKindTimeout, result.ErrorKind)
}

func TestInvoke_OnAgentSelectedCallback(t *testing.T) {
	profiles := fakeProfile(t, "#!/bin/sh\necho ok\n")
	inv := NewWithProfiles(profiles)

	var selected string
	_, err := inv.CallAgent(context.Background(), "fake-agent", Request{
		Prompt:          "do it",
		OnAgentSelected: func(name string) { selected = name },
	})
	require.NoError(t, err)
	require.Equal(t, "fake-agent", selected)
}

func TestInvoke_UnknownAgentErrors(t *testing.T) {
	inv := NewWithProfiles(DefaultProfiles())
	_, err := inv.CallAgent(context.Background(), "not-a-real-agent", Request{Prompt: "x"})
	require.Error(t, err)
}
