package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

const defaultCommandTimeout = 60 * time.Second

// commandExecutor runs an allow-listed command after rejecting dangerous
// patterns and validating the working directory, mirroring
// the teacher's post-run-hook security model (operator-supplied, run
// through a shell, deny-listed before spawn).
type commandExecutor struct{}

func (e *commandExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if strat.Command == nil {
		return ExecResult{}, fmt.Errorf("command strategy missing its payload")
	}
	c := strat.Command

	cwd, err := validateCwd(ec)
	if err != nil {
		return ExecResult{}, err
	}

	line := fmt.Sprintf("%s %s", c.Command, joinArgs(c.Args))
	if isDangerousCommand(line) {
		return ExecResult{}, fmt.Errorf("command %q matches a denied pattern", line)
	}

	timeout := parseTimeout(strat.Common.Timeout, defaultCommandTimeout)
	outcome, err := runCommand(ctx, runSpec{
		Cwd:     cwd,
		Command: c.Command,
		Args:    c.Args,
		Env:     withCI(strat.Common.Env),
		Timeout: timeout,
	})
	if err != nil {
		return ExecResult{}, err
	}
	if outcome.TimedOut {
		return ExecResult{Success: false, Output: outcome.Output, Duration: outcome.Duration.Seconds(), Details: "timeout"}, nil
	}
	return ExecResult{
		Success:  c.Expects(outcome.ExitCode),
		Output:   outcome.Output,
		Duration: outcome.Duration.Seconds(),
		Details:  fmt.Sprintf("exit code %d", outcome.ExitCode),
	}, nil
}
