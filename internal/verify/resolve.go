package verify

import (
	"strings"

	"github.com/agent-foreman/foreman/internal/models"
)

// defaultVerifyScript is the conventional ops-task verification entrypoint
//.
const defaultVerifyScript = "./verify.sh"

// defaultInfraCommand is the conventional infra-task verification command.
const defaultInfraCommand = "terraform validate"

// ResolveStrategies implements spec.md §4.6's four-step resolution order:
// explicit verificationStrategies, legacy testRequirements conversion,
// task-type defaults, and finally a bare AI fallback. Independently
// testable from execution.
func ResolveStrategies(task *models.Task) []models.VerificationStrategy {
	if len(task.VerificationStrategies) > 0 {
		return task.VerificationStrategies
	}
	if legacy := convertLegacy(task.TestRequirements); len(legacy) > 0 {
		return legacy
	}
	if defaults := taskTypeDefaults(task.TaskType); len(defaults) > 0 {
		return defaults
	}
	return []models.VerificationStrategy{{Kind: models.StrategyAI, AI: &models.AIStrategy{}}}
}

// convertLegacy maps the legacy testRequirements shape onto explicit
// strategies: unit requirement → test strategy, e2e requirement → e2e
// strategy.
func convertLegacy(tr *models.TestRequirements) []models.VerificationStrategy {
	if tr == nil {
		return nil
	}
	var out []models.VerificationStrategy
	if tr.Unit != nil {
		out = append(out, models.VerificationStrategy{
			Kind: models.StrategyTest,
			Test: &models.TestStrategy{Pattern: tr.Unit.Pattern},
		})
	}
	if tr.E2E != nil {
		out = append(out, models.VerificationStrategy{
			Kind: models.StrategyE2E,
			E2E:  &models.E2EStrategy{Pattern: tr.E2E.Pattern, Tags: tr.E2E.Tags},
		})
	}
	return out
}

// taskTypeDefaults returns the spec's per-taskType default strategy set
//: code→{test, ai}, ops→{script, ai},
// data→{file, ai}, infra→{command, ai}, manual→{manual}.
func taskTypeDefaults(taskType models.TaskType) []models.VerificationStrategy {
	aiFollowup := models.VerificationStrategy{Kind: models.StrategyAI, AI: &models.AIStrategy{}}
	switch taskType {
	case models.TaskTypeCode:
		return []models.VerificationStrategy{
			{Kind: models.StrategyTest, Test: &models.TestStrategy{}},
			aiFollowup,
		}
	case models.TaskTypeOps:
		return []models.VerificationStrategy{
			{Kind: models.StrategyScript, Script: &models.ScriptStrategy{Path: defaultVerifyScript}},
			aiFollowup,
		}
	case models.TaskTypeData:
		return []models.VerificationStrategy{
			{Kind: models.StrategyFile, File: &models.FileStrategy{}},
			aiFollowup,
		}
	case models.TaskTypeInfra:
		parts := strings.Fields(defaultInfraCommand)
		return []models.VerificationStrategy{
			{Kind: models.StrategyCommand, Command: &models.CommandStrategy{Command: parts[0], Args: parts[1:]}},
			aiFollowup,
		}
	case models.TaskTypeManual:
		return []models.VerificationStrategy{
			{Kind: models.StrategyManual, Manual: &models.ManualStrategy{}},
		}
	default:
		return nil
	}
}
