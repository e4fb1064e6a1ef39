// Package commands implements the CLI boundary named in spec.md §6: init,
// next, status, check, done, fail, impact, tdd, agents — thin cobra wiring
// over the orchestration core (internal/store, internal/selector,
// internal/verify, internal/capability, internal/impact, internal/agent).
package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := newRootCmd(version)

	err := root.Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Default().Error("command failed", "error", err.Error())
		}
	}
	return err
}

// newRootCmd builds the full command tree without executing it, so tests
// can inspect its shape directly.
func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "foreman",
		Short:         "Long-task harness coordinating AI coding agents against a project's source tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("cwd", "", "Project root (default: current directory)")
	root.Flags().BoolP("version", "v", false, "version for foreman")

	root.AddCommand(newInitCmd())
	root.AddCommand(newNextCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newDoneCmd())
	root.AddCommand(newFailCmd())
	root.AddCommand(newImpactCmd())
	root.AddCommand(newTDDCmd())
	root.AddCommand(newAgentsCmd())

	return root
}

// cwdFlag resolves the --cwd override to an absolute project root, defaulting
// to the process's current directory.
func cwdFlag(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("cwd")
	if dir != "" {
		return filepath.Abs(dir)
	}
	return os.Getwd()
}
