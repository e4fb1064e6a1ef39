package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestSerializeParseTask_RoundTrip(t *testing.T) {
	task := sampleTask("auth.login-flow", 3)
	task.DependsOn = []string{"auth.schema"}
	task.Tags = []string{"security", "p1"}
	task.Notes = "watch out for the redirect loop on logout"

	data, err := SerializeTask(task)
	require.NoError(t, err)

	parsed, err := ParseTask(data)
	require.NoError(t, err)

	require.Equal(t, task.ID, parsed.ID)
	require.Equal(t, task.Module, parsed.Module)
	require.Equal(t, task.Priority, parsed.Priority)
	require.Equal(t, task.Status, parsed.Status)
	require.Equal(t, task.Description, parsed.Description)
	require.Equal(t, task.Acceptance, parsed.Acceptance)
	require.Equal(t, task.DependsOn, parsed.DependsOn)
	require.Equal(t, task.Tags, parsed.Tags)
	require.Equal(t, task.Notes, parsed.Notes)
	require.Equal(t, task.Version, parsed.Version)
}

func TestSerializeParseTask_PreservesUnknownSections(t *testing.T) {
	task := sampleTask("auth.login-flow", 1)
	task.RawBody = "## Design Notes\n\nUses PKCE for the mobile client."

	data, err := SerializeTask(task)
	require.NoError(t, err)

	parsed, err := ParseTask(data)
	require.NoError(t, err)
	require.Equal(t, task.RawBody, parsed.RawBody)
}

func TestParseTask_MissingFenceFails(t *testing.T) {
	_, err := ParseTask([]byte("no front matter here"))
	require.Error(t, err)
}

func TestSerializeTask_FlattensStrategyDiscriminator(t *testing.T) {
	required := true
	task := sampleTask("auth.login-flow", 1)
	task.VerificationStrategies = []models.VerificationStrategy{
		{
			Kind:   models.StrategyTest,
			Common: models.Common{Required: &required},
			Test:   &models.TestStrategy{Pattern: "TestLogin"},
		},
	}

	data, err := SerializeTask(task)
	require.NoError(t, err)

	parsed, err := ParseTask(data)
	require.NoError(t, err)
	require.Len(t, parsed.VerificationStrategies, 1)
	require.Equal(t, models.StrategyTest, parsed.VerificationStrategies[0].Kind)
	require.NotNil(t, parsed.VerificationStrategies[0].Test)
	require.Equal(t, "TestLogin", parsed.VerificationStrategies[0].Test.Pattern)
}
