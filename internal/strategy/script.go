package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

const defaultScriptTimeout = 120 * time.Second

// scriptExecutor runs a relative script with a bounded argument list, after
// validating the script path and working directory both resolve under the
// project root.
type scriptExecutor struct{}

func (e *scriptExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if strat.Script == nil {
		return ExecResult{}, fmt.Errorf("script strategy missing its payload")
	}
	cwd, err := validateCwd(ec)
	if err != nil {
		return ExecResult{}, err
	}
	scriptPath, err := resolveUnderRoot(ec.ProjectRoot, strat.Script.Path)
	if err != nil {
		return ExecResult{}, err
	}
	line := fmt.Sprintf("%s %s", scriptPath, joinArgs(strat.Script.Args))
	if isDangerousCommand(line) {
		return ExecResult{}, fmt.Errorf("script %q matches a denied command pattern", strat.Script.Path)
	}

	timeout := parseTimeout(strat.Common.Timeout, defaultScriptTimeout)
	outcome, err := runCommand(ctx, runSpec{
		Cwd:     cwd,
		Command: scriptPath,
		Args:    strat.Script.Args,
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
		Success:  strat.Script.Expects(outcome.ExitCode),
		Output:   outcome.Output,
		Duration: outcome.Duration.Seconds(),
		Details:  fmt.Sprintf("exit code %d", outcome.ExitCode),
	}, nil
}
