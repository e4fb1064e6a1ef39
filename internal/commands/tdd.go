package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/app"
	"github.com/agent-foreman/foreman/internal/output"
)

func newTDDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tdd [strict|recommended|disabled]",
		Short: "Get or set the TDD guidance mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return cmdErr(err)
			}

			if len(args) == 0 {
				mode := cfg.TDDMode
				if mode == "" {
					mode = app.TDDRecommended
				}
				return output.PrintSuccess(struct {
					Mode app.TDDMode `json:"mode"`
				}{Mode: mode})
			}

			mode := app.TDDMode(args[0])
			if !mode.Valid() {
				return cmdErr(fmt.Errorf("invalid tdd mode %q: must be strict, recommended, or disabled", args[0]))
			}
			cfg.TDDMode = mode
			if err := app.SaveConfig(cfg); err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(struct {
				Mode app.TDDMode `json:"mode"`
			}{Mode: mode})
		},
	}
	return cmd
}
