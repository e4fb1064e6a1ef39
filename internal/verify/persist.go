package verify

import (
	"fmt"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/store"
)

// Persist writes one verification run to durable state: the full result as
// an immutable artifact, a VERIFY progress-log entry, and the task's quick
// verification summary — flipping status to passing on a pass verdict
//.
func Persist(s *store.Store, result *models.VerificationResult) error {
	path, err := s.SaveVerificationResult(result)
	if err != nil {
		return fmt.Errorf("save verification artifact: %w", err)
	}

	if err := s.AppendProgress(models.ProgressEntry{
		Kind:      models.ProgressKindVerify,
		FeatureID: result.FeatureID,
		Summary:   fmt.Sprintf("verification %s: %s", result.Verdict, path),
		Details:   map[string]string{"artifact": path, "agent": result.Agent},
	}); err != nil {
		return fmt.Errorf("append progress log: %w", err)
	}

	_, err = s.UpdateVerificationQuick(result.FeatureID, models.VerificationSummary{
		Verdict:   result.Verdict,
		Timestamp: result.Timestamp,
		Agent:     result.Agent,
	})
	if err != nil {
		return fmt.Errorf("update task verification summary: %w", err)
	}
	return nil
}
