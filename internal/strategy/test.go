package strategy

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

const defaultTestTimeout = 300 * time.Second

// testExecutor runs the project's detected unit-test command, optionally
// narrowed to a pattern/named cases, or to a caller-supplied selective
// command in "quick" mode.
type testExecutor struct {
	deps Dependencies
}

func (e *testExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	cwd, err := validateCwd(ec)
	if err != nil {
		return ExecResult{}, err
	}
	if !e.deps.Capabilities.HasTest {
		return ExecResult{Success: false, Details: "no test command detected for this project"}, nil
	}

	command := e.deps.Capabilities.TestCommand
	if strat.Test != nil {
		command = narrowTestCommand(command, strat.Test)
	}

	timeout := parseTimeout(strat.Common.Timeout, defaultTestTimeout)
	outcome, err := runCommand(ctx, runSpec{
		Cwd:     cwd,
		Command: "sh",
		Args:    []string{"-c", command},
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
		Success:  outcome.ExitCode == 0,
		Output:   outcome.Output,
		Duration: outcome.Duration.Seconds(),
	}, nil
}

// narrowTestCommand appends a pattern/names filter onto the base test
// command; the exact flag syntax is test-runner-specific in the original
// system, so this sticks to the common go test convention (-run) which the
// base command already targets in this module's own toolchain.
func narrowTestCommand(base string, t *models.TestStrategy) string {
	var parts []string
	parts = append(parts, base)
	if t.Pattern != "" {
		parts = append(parts, fmt.Sprintf("-run %s", t.Pattern))
	}
	if len(t.Names) > 0 {
		parts = append(parts, fmt.Sprintf("-run %s", strings.Join(t.Names, "|")))
	}
	return strings.Join(parts, " ")
}

func withCI(overlay map[string]string) []string {
	env := os.Environ()
	env = append(env, "CI=true")
	for k, v := range overlay {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
