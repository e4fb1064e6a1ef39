package strategy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

const defaultE2ETimeout = 120 * time.Second

// e2eExecutor runs the detected E2E command, supporting pattern-based file
// filtering and tag-based grep via the capability layer's per-framework
// templates.
type e2eExecutor struct {
	deps Dependencies
}

func (e *e2eExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	cwd, err := validateCwd(ec)
	if err != nil {
		return ExecResult{}, err
	}
	info := e.deps.Capabilities.E2E
	if info == nil || !info.Available {
		return ExecResult{Success: false, Details: "no e2e framework detected for this project"}, nil
	}

	command := info.Command
	if strat.E2E != nil {
		command = applyE2EFilters(command, info, strat.E2E)
	}

	timeout := parseTimeout(strat.Common.Timeout, defaultE2ETimeout)
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

// applyE2EFilters appends a file-pattern and/or tag-grep clause using the
// framework's own templates, defaulting the tag filter to "--grep" when the
// framework didn't supply one.
func applyE2EFilters(base string, info *models.E2EInfo, e *models.E2EStrategy) string {
	cmd := base
	if e.Pattern != "" && info.FileTemplate != "" {
		cmd = fmt.Sprintf("%s %s", cmd, fmt.Sprintf(info.FileTemplate, e.Pattern))
	} else if e.Pattern != "" {
		cmd = fmt.Sprintf("%s %s", cmd, e.Pattern)
	}
	if len(e.Tags) > 0 {
		grepTemplate := info.GrepTemplate
		if grepTemplate == "" {
			grepTemplate = "--grep %s"
		}
		cmd = fmt.Sprintf("%s %s", cmd, fmt.Sprintf(grepTemplate, strings.Join(e.Tags, "|")))
	}
	return cmd
}
