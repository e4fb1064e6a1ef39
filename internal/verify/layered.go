package verify

import (
	"context"
	"os/exec"
	"strings"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/impact"
	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/store"
	"github.com/agent-foreman/foreman/internal/strategy"
)

// LayeredResult is the outcome of a fast-mode run: the changed files it
// found, the tasks the Impact Analyzer implicated, and the per-task
// verification results it actually ran.
type LayeredResult struct {
	ChangedFiles []string
	Impacted     []models.ImpactMatch
	Results      map[string]*models.VerificationResult
	HighRisk     bool
}

// RunLayeredCheck implements the fast check mode: diff the
// working tree against HEAD, bail out immediately if nothing changed, ask
// the Impact Analyzer which open tasks the change touches, and verify only
// those. A task goes to the full AI exploration mode when useAI is set, or
// when a changed file matches a high-risk pattern and the task's match is
// high-confidence; every other match runs through its resolved strategies.
func RunLayeredCheck(ctx context.Context, s *store.Store, registry *strategy.Registry, inv *agent.Invoker, cwd string, caps models.Capabilities, opts CheckOptions, useAI bool) (*LayeredResult, error) {
	changed := changedFiles(cwd)
	if len(changed) == 0 {
		return &LayeredResult{Results: map[string]*models.VerificationResult{}}, nil
	}

	tasks, err := loadOpenTasks(s)
	if err != nil {
		return nil, err
	}

	matches := impact.Analyze(tasks, changed)
	highRisk := false
	for _, f := range changed {
		if impact.IsHighRisk(f) {
			highRisk = true
			break
		}
	}

	result := &LayeredResult{
		ChangedFiles: changed,
		Impacted:     matches,
		Results:      make(map[string]*models.VerificationResult, len(matches)),
		HighRisk:     highRisk,
	}

	pipeline := NewPipeline(registry, cwd)
	for _, m := range matches {
		task, err := s.RequireTask(m.TaskID, "", "")
		if err != nil {
			continue
		}

		if useAI || (highRisk && m.Confidence == models.ConfidenceHigh) {
			vr, err := RunAutonomousVerification(ctx, inv, cwd, task, caps, opts)
			if err == nil {
				result.Results[m.TaskID] = vr
			}
			continue
		}
		result.Results[m.TaskID] = pipeline.RunStrategies(ctx, task, changed)
	}
	return result, nil
}

// changedFiles lists every path touched relative to HEAD, the same signal
// quick test-mode selection uses.
func changedFiles(cwd string) []string {
	cmd := exec.Command("git", "diff", "--name-only", "HEAD")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}

func loadOpenTasks(s *store.Store) ([]*models.Task, error) {
	ids, err := s.ListIDs()
	if err != nil {
		return nil, err
	}
	tasks := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		task, err := s.RequireTask(id, "", "")
		if err != nil {
			continue
		}
		if task.Status == models.StatusPassing || task.Status == models.StatusDeprecated {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
