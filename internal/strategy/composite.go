package strategy

import (
	"context"
	"strings"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

// compositeExecutor accepts an and/or operator over a nested strategy list,
// short-circuiting on the first failure (and) or first success (or).
// Nested strategies are dispatched back through the same registry so
// composites may nest composites.
type compositeExecutor struct {
	registry *Registry
}

func (e *compositeExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if strat.Composite == nil {
		return ExecResult{Success: false, Details: "composite strategy missing its payload"}, nil
	}
	c := strat.Composite
	op := c.ResolvedOperator()

	var outputs []string
	start := time.Now()
	for _, child := range c.Children {
		result, err := e.registry.Execute(ctx, ec, child)
		if err != nil {
			return ExecResult{}, err
		}
		if result.Output != "" {
			outputs = append(outputs, result.Output)
		}

		if op == models.OperatorOr && result.Success {
			return ExecResult{Success: true, Output: strings.Join(outputs, "\n"), Duration: time.Since(start).Seconds()}, nil
		}
		if op == models.OperatorAnd && !result.Success {
			return ExecResult{Success: false, Output: strings.Join(outputs, "\n"), Duration: time.Since(start).Seconds(), Details: "short-circuited on first failure"}, nil
		}
	}

	// AND: every child succeeded. OR: no child succeeded (including an
	// empty child list, which satisfies neither operator's short-circuit).
	success := op == models.OperatorAnd && len(c.Children) > 0
	return ExecResult{Success: success, Output: strings.Join(outputs, "\n"), Duration: time.Since(start).Seconds()}, nil
}
