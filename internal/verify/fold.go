package verify

import (
	"github.com/agent-foreman/foreman/internal/models"
)

// FoldVerdict composes a list of per-strategy outcomes into the overall
// verdict: any required strategy failing wins over any
// needs_review, which wins over pass. Folding is idempotent: composing the
// same outcomes twice yields the same verdict.
func FoldVerdict(outcomes []models.StrategyOutcome) models.Verdict {
	sawNeedsReview := false
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		// A manual strategy is inherently a human-review gate, never a pass
		// or a hard failure.
		if o.Kind == string(models.StrategyManual) {
			sawNeedsReview = true
			continue
		}
		if !o.Success {
			if o.Required {
				return models.VerdictFail
			}
			continue
		}
	}
	if sawNeedsReview {
		return models.VerdictNeedsReview
	}
	return models.VerdictPass
}

// skipOptional renders an optional strategy's failure as "skipped" rather
// than an error.
func skipOptional(o models.StrategyOutcome) models.StrategyOutcome {
	if !o.Required && !o.Success {
		o.Skipped = true
	}
	return o
}
