package commands

import (
	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/output"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize task counts by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}
			stats, err := s.StatsFromIndex()
			if err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(stats)
		},
	}
	return cmd
}
