package strategy

import (
	"context"
	"strings"

	"github.com/agent-foreman/foreman/internal/models"
)

// manualExecutor never passes automatically: it always hands the overall
// verdict to the human reviewer via needs_review, surfaced through Details
// rather than Success.
type manualExecutor struct{}

func (e *manualExecutor) Execute(_ context.Context, _ ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	m := strat.Manual
	if m == nil {
		m = &models.ManualStrategy{}
	}
	details := m.Instructions
	if len(m.Checklist) > 0 {
		if details != "" {
			details += "\n"
		}
		details += "checklist:\n- " + strings.Join(m.Checklist, "\n- ")
	}
	return ExecResult{Success: false, Details: details}, nil
}
