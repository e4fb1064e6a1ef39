package commands

import (
	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/output"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task passing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}

			task, err := s.UpdateStatusQuick(args[0], models.StatusPassing)
			if err != nil {
				return cmdErr(err)
			}
			if err := s.AppendProgress(models.ProgressEntry{
				Kind:      models.ProgressKindChange,
				FeatureID: task.ID,
				Summary:   "marked passing",
			}); err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(task)
		},
	}
	return cmd
}
