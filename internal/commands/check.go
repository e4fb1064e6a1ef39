package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/capability"
	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/output"
	"github.com/agent-foreman/foreman/internal/strategy"
	"github.com/agent-foreman/foreman/internal/verify"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [id]",
		Short: "Verify a task, or run a fast layered check across changed files when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			useAI, _ := cmd.Flags().GetBool("ai")
			verbose, _ := cmd.Flags().GetBool("verbose")
			skipE2E, _ := cmd.Flags().GetBool("skip-e2e")
			testPattern, _ := cmd.Flags().GetString("test-pattern")

			cwd, err := cwdFlag(cmd)
			if err != nil {
				return cmdErr(err)
			}
			s, err := openStore(cwd)
			if err != nil {
				return cmdErr(err)
			}

			ctx := context.Background()
			inv := agent.New()
			caps := capability.Detect(ctx, cwd, s.Paths().CapabilitiesFile, inv, capability.Options{Verbose: verbose})

			opts := verify.CheckOptions{
				TestMode:    verify.TestModeQuick,
				E2EMode:     verify.E2EModeSmoke,
				TestPattern: testPattern,
			}
			if full {
				opts.TestMode = verify.TestModeFull
				opts.E2EMode = verify.E2EModeFull
			}
			if skipE2E {
				opts.E2EMode = verify.E2EModeSkip
			}

			if len(args) == 0 {
				registry := strategy.NewDefaultRegistry(strategy.Dependencies{Invoker: inv, Capabilities: caps})
				result, err := verify.RunLayeredCheck(ctx, s, registry, inv, cwd, caps, opts, useAI)
				if err != nil {
					return cmdErr(err)
				}
				for _, vr := range result.Results {
					_ = verify.Persist(s, vr)
				}
				return output.PrintSuccess(result)
			}

			task, err := s.RequireTask(args[0], "", "")
			if err != nil {
				return cmdErr(err)
			}

			var result *models.VerificationResult
			if useAI {
				result, err = verify.RunAutonomousVerification(ctx, inv, cwd, task, caps, opts)
				if err != nil {
					return cmdErr(err)
				}
			} else {
				registry := strategy.NewDefaultRegistry(strategy.Dependencies{Invoker: inv, Capabilities: caps})
				pipeline := verify.NewPipeline(registry, cwd)
				result = pipeline.RunStrategies(ctx, task, gitChangedFiles(cwd))
			}

			if err := verify.Persist(s, result); err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(result)
		},
	}
	cmd.Flags().Bool("full", false, "Run the full test/E2E suite instead of the quick/smoke subset")
	cmd.Flags().Bool("ai", false, "Force autonomous AI exploration verification")
	cmd.Flags().Bool("verbose", false, "Verbose diagnostic output")
	cmd.Flags().Bool("skip-e2e", false, "Skip end-to-end checks")
	cmd.Flags().String("test-pattern", "", "Restrict the test strategy to a pattern or named case")
	return cmd
}
