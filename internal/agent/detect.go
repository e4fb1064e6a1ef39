package agent

import (
	"os"
	"os/exec"
	"strings"

	"github.com/agent-foreman/foreman/internal/app"
)

// PriorityOrder returns the agent names to probe, in the order they should
// be tried: the FOREMAN_AGENT_PRIORITY environment variable (comma
// separated) if set, else the built-in DefaultProfiles order.
func PriorityOrder(profiles []Profile) []string {
	if raw := os.Getenv(app.EnvAgentPriority); strings.TrimSpace(raw) != "" {
		var names []string
		for _, part := range strings.Split(raw, ",") {
			name := strings.TrimSpace(part)
			if name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.Name
	}
	return names
}

// Available reports whether command is resolvable on PATH, the cross-
// platform "which"/"where" equivalent `exec.LookPath` already provides.
func Available(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// FirstAvailable walks priority order and returns the first profile whose
// binary resolves on PATH. Returns false if none do, or if external agent
// invocation is disabled via FOREMAN_DISABLE_EXTERNAL_AGENT (tests, CI
// sandboxes without agent binaries installed).
func FirstAvailable(profiles []Profile) (Profile, bool) {
	if app.AgentDisabled() {
		return Profile{}, false
	}
	for _, name := range PriorityOrder(profiles) {
		profile, ok := ByName(profiles, name)
		if !ok {
			continue
		}
		if Available(profile.Command) {
			return profile, true
		}
	}
	return Profile{}, false
}
