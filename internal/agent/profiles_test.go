package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName_ExactMatch(t *testing.T) {
	profiles := DefaultProfiles()
	p, ok := ByName(profiles, "claude")
	require.True(t, ok)
	assert.Equal(t, "claude", p.Command)
}

func TestByName_PrefixMatch(t *testing.T) {
	profiles := DefaultProfiles()
	p, ok := ByName(profiles, "opencode-worker-1")
	require.True(t, ok)
	assert.Equal(t, "opencode", p.Command)
}

func TestByName_CaseInsensitive(t *testing.T) {
	profiles := DefaultProfiles()
	p, ok := ByName(profiles, "CLAUDE")
	require.True(t, ok)
	assert.Equal(t, "claude", p.Command)
}

func TestByName_Unknown(t *testing.T) {
	_, ok := ByName(DefaultProfiles(), "some-agent")
	assert.False(t, ok)
}

func TestDefaultProfiles_ClaudeUsesFileDelivery(t *testing.T) {
	p, ok := ByName(DefaultProfiles(), "claude")
	require.True(t, ok)
	assert.Equal(t, DeliveryFile, p.Delivery)
	assert.Equal(t, []string{"-p", "@tmp.txt", "--output-format", "text", "--settings", `{"hooks":{}}`}, p.Args("@tmp.txt"))
}
