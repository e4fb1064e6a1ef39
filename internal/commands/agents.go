package commands

import (
	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/app"
	"github.com/agent-foreman/foreman/internal/output"
)

func newAgentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List known agent CLIs and which are available on PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := agent.DefaultProfiles()
			priority := agent.PriorityOrder(profiles)

			type agentStatus struct {
				Name      string `json:"name"`
				Command   string `json:"command"`
				Delivery  string `json:"delivery"`
				Available bool   `json:"available"`
			}
			statuses := make([]agentStatus, 0, len(priority))
			for _, name := range priority {
				p, ok := agent.ByName(profiles, name)
				if !ok {
					continue
				}
				statuses = append(statuses, agentStatus{
					Name:      p.Name,
					Command:   p.Command,
					Delivery:  string(p.Delivery),
					Available: agent.Available(p.Command),
				})
			}

			type resp struct {
				Agents   []agentStatus `json:"agents"`
				Disabled bool          `json:"disabled"`
			}
			return output.PrintSuccess(resp{Agents: statuses, Disabled: app.AgentDisabled()})
		},
	}
	return cmd
}
