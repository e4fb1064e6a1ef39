package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/output"
)

func newFailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fail <id>",
		Short: "Mark a task failed with a reason",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reason, _ := cmd.Flags().GetString("reason")
			if reason == "" {
				return cmdErr(errors.New("-r/--reason is required"))
			}

			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}

			task, err := s.UpdateStatusQuick(args[0], models.StatusFailed)
			if err != nil {
				return cmdErr(err)
			}
			if err := s.AppendProgress(models.ProgressEntry{
				Kind:      models.ProgressKindChange,
				FeatureID: task.ID,
				Summary:   "marked failed: " + reason,
				Details:   map[string]string{"reason": reason},
			}); err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(task)
		},
	}
	cmd.Flags().StringP("reason", "r", "", "Reason the task failed (required)")
	return cmd
}
