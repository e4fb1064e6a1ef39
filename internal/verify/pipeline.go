package verify

import (
	"context"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/strategy"
)

// Pipeline is the strategy-based verification entry mode: resolve strategies, execute them sequentially in declaration
// order, fold the outcomes into a verdict.
type Pipeline struct {
	Registry    *strategy.Registry
	ProjectRoot string
}

// NewPipeline builds a Pipeline bound to registry and the project root every
// executor's working directory is validated against.
func NewPipeline(registry *strategy.Registry, projectRoot string) *Pipeline {
	return &Pipeline{Registry: registry, ProjectRoot: projectRoot}
}

// RunStrategies executes task's resolved strategies and returns the full
// VerificationResult, unpersisted — callers
// own writing it to the store.
func (p *Pipeline) RunStrategies(ctx context.Context, task *models.Task, changedFiles []string) *models.VerificationResult {
	strategies := ResolveStrategies(task)

	ec := strategy.ExecContext{Cwd: p.ProjectRoot, ProjectRoot: p.ProjectRoot, FeatureID: task.ID}

	outcomes := make([]models.StrategyOutcome, 0, len(strategies))
	for _, strat := range strategies {
		result, err := p.Registry.Execute(ctx, ec, strat)
		outcome := models.StrategyOutcome{
			Kind:     string(strat.Kind),
			Required: strat.Common.IsRequired(),
			Duration: result.Duration,
		}
		if err != nil {
			outcome.Success = false
			outcome.Details = err.Error()
		} else {
			outcome.Success = result.Success
			outcome.Output = result.Output
			outcome.Details = result.Details
		}
		outcomes = append(outcomes, skipOptional(outcome))
	}

	return &models.VerificationResult{
		FeatureID:    task.ID,
		Timestamp:    time.Now(),
		ChangedFiles: changedFiles,
		Strategies:   outcomes,
		Verdict:      FoldVerdict(outcomes),
	}
}
