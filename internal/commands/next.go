package commands

import (
	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/output"
	"github.com/agent-foreman/foreman/internal/selector"
)

func newNextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next [id]",
		Short: "Select the next task to work on",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				Task      *models.Task `json:"task"`
				BlockedBy []string     `json:"blockedBy,omitempty"`
			}

			if len(args) == 1 {
				task, err := s.RequireTask(args[0], "", "")
				if err != nil {
					return cmdErr(err)
				}
				return output.PrintSuccess(resp{Task: task})
			}

			idx, err := s.LoadIndex()
			if err != nil {
				return cmdErr(err)
			}
			sel, err := selector.Select(idx, func(id string) (*models.Task, error) {
				return s.LoadTask(id, "", idx.Features[id].FilePath)
			})
			if err != nil {
				return cmdErr(err)
			}
			if sel.Task == nil {
				return output.PrintSuccess(resp{})
			}
			return output.PrintSuccess(resp{Task: sel.Task, BlockedBy: sel.BlockedBy})
		},
	}
	return cmd
}
