// Package agent implements the Agent Invoker: cross-platform subprocess
// lifecycle for dispatching prompts to whichever pre-installed coding-agent
// CLI is available.
package agent

import "strings"

// DeliveryMode is how a prompt reaches the agent process.
type DeliveryMode string

const (
	DeliveryStdin DeliveryMode = "stdin"
	DeliveryFile  DeliveryMode = "file"
	DeliveryArg   DeliveryMode = "argument"
)

// Profile describes one known agent CLI: its binary name, how a prompt is
// delivered, and how to build its argv given a prompt (or, for file
// delivery, the "@path" placeholder already substituted in).
type Profile struct {
	Name     string
	Command  string
	Delivery DeliveryMode
	Args     func(prompt string) []string
}

// DefaultProfiles is the built-in priority-ordered agent list, generalized
// from the teacher's claude/opencode pair (internal/llm.resolveRunner) to
// the rest of the spec's open-ended "pre-installed agent binaries" surface.
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Name:     "claude",
			Command:  "claude",
			Delivery: DeliveryFile,
			Args: func(promptRef string) []string {
				return []string{"-p", promptRef, "--output-format", "text", "--settings", `{"hooks":{}}`}
			},
		},
		{
			Name:     "opencode",
			Command:  "opencode",
			Delivery: DeliveryArg,
			Args: func(prompt string) []string {
				return []string{"run", prompt}
			},
		},
		{
			Name:     "aider",
			Command:  "aider",
			Delivery: DeliveryFile,
			Args: func(promptRef string) []string {
				return []string{"--message-file", strings.TrimPrefix(promptRef, "@")}
			},
		},
		{
			Name:     "codex",
			Command:  "codex",
			Delivery: DeliveryStdin,
			Args: func(string) []string {
				return []string{"exec"}
			},
		},
		{
			Name:     "cursor-agent",
			Command:  "cursor-agent",
			Delivery: DeliveryArg,
			Args: func(prompt string) []string {
				return []string{"-p", prompt}
			},
		},
	}
}

// ByName returns the profile matching name (case-insensitive prefix match,
// mirroring the teacher's resolveRunner "opencode-worker-1" → "opencode"
// convention), or false if none match.
func ByName(profiles []Profile, name string) (Profile, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, p := range profiles {
		if strings.HasPrefix(lower, strings.ToLower(p.Name)) {
			return p, true
		}
	}
	return Profile{}, false
}
