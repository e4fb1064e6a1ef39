package strategy

import (
	"context"
	"fmt"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

// defaultAIPrompt is used when a strategy declares no custom prompt.
const defaultAIPrompt = "Review the working tree against the task's acceptance criteria and report whether it is satisfied."

// aiExecutor delegates to the Agent Invoker with a structured exploration
// prompt. This is the per-strategy single-exchange
// form; the pipeline's full criteria-JSON exploration mode lives in
// internal/verify, which also uses the Agent Invoker but with a richer
// prompt template and response parser.
type aiExecutor struct {
	deps Dependencies
}

func (e *aiExecutor) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if e.deps.Invoker == nil {
		return ExecResult{}, fmt.Errorf("ai strategy requires an agent invoker")
	}
	prompt := defaultAIPrompt
	if strat.AI != nil && strat.AI.Prompt != "" {
		prompt = strat.AI.Prompt
	}

	result, err := e.deps.Invoker.CallAnyAvailableAgent(ctx, agent.Request{
		Prompt: prompt,
		Cwd:    ec.Cwd,
		Env:    strat.Common.Env,
	})
	if err != nil {
		return ExecResult{}, fmt.Errorf("ai strategy: %w", err)
	}
	if !result.Success {
		return ExecResult{Success: false, Output: result.Output, Details: result.Error}, nil
	}
	return ExecResult{Success: true, Output: result.Output, Details: result.AgentUsed}, nil
}
