package verify

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

//go:embed templates/exploration.tmpl
var explorationTemplatesFS embed.FS

var explorationTemplate = template.Must(template.New("exploration.tmpl").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(explorationTemplatesFS, "templates/exploration.tmpl"))

// explorationPromptData feeds the embedded exploration template.
type explorationPromptData struct {
	TaskID       string
	Description  string
	Acceptance   []string
	CheckSummary string
}

type criterionResponse struct {
	Criterion  string  `json:"criterion"`
	Satisfied  bool    `json:"satisfied"`
	Evidence   string  `json:"evidence,omitempty"`
	Confidence float64 `json:"confidence"`
}

type explorationResponse struct {
	CriteriaResults  []criterionResponse `json:"criteriaResults"`
	Verdict          string              `json:"verdict"`
	OverallReasoning string              `json:"overallReasoning"`
	Suggestions      []string            `json:"suggestions,omitempty"`
	CodeQualityNotes string              `json:"codeQualityNotes,omitempty"`
}

const maxExplorationRetries = 3

// RunAutonomousVerification implements spec.md §4.6 mode 2: runs the
// selected automated-check subset, then issues one exploration prompt
// asking the agent to read the working tree and return criteria-level
// JSON. Retries only on transient agent errors, capped at
// maxExplorationRetries attempts.
func RunAutonomousVerification(ctx context.Context, inv *agent.Invoker, cwd string, task *models.Task, caps models.Capabilities, opts CheckOptions) (*models.VerificationResult, error) {
	checks := RunAutomatedChecks(ctx, cwd, caps, opts)

	prompt, err := renderExplorationPrompt(task, checks)
	if err != nil {
		return nil, err
	}

	var resp explorationResponse
	var agentUsed string
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 0
	b.RandomizationFactor = 0.1
	attempt := 0

	err = backoff.Retry(func() error {
		attempt++
		result, callErr := inv.CallAnyAvailableAgent(ctx, agent.Request{Prompt: prompt, Cwd: cwd})
		if callErr != nil {
			return backoff.Permanent(callErr)
		}
		agentUsed = result.AgentUsed
		if !result.Success {
			retryable := result.ErrorKind == agent.ErrorKindTransient
			failure := fmt.Errorf("agent exploration failed: %s", result.Error)
			if !retryable || attempt >= maxExplorationRetries {
				return backoff.Permanent(failure)
			}
			return failure
		}
		parsed, parseErr := parseExplorationResponse(result.Output)
		if parseErr != nil {
			return backoff.Permanent(parseErr)
		}
		resp = parsed
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	criteria := make([]models.CriterionResult, len(resp.CriteriaResults))
	for i, c := range resp.CriteriaResults {
		criteria[i] = models.CriterionResult{
			Criterion:  c.Criterion,
			Satisfied:  c.Satisfied,
			Evidence:   c.Evidence,
			Confidence: c.Confidence,
		}
	}

	strategies := make([]models.StrategyOutcome, len(checks))
	for i, c := range checks {
		strategies[i] = models.StrategyOutcome{
			Kind:     c.Name,
			Success:  c.Success,
			Skipped:  c.Skipped,
			Required: true,
			Output:   c.Output,
			Duration: c.Duration,
		}
	}

	return &models.VerificationResult{
		FeatureID:        task.ID,
		Timestamp:        time.Now(),
		Strategies:       strategies,
		Criteria:         criteria,
		Verdict:          models.NormalizeVerdict(resp.Verdict),
		Reasoning:        resp.OverallReasoning,
		Agent:            agentUsed,
		Suggestions:      resp.Suggestions,
		CodeQualityNotes: resp.CodeQualityNotes,
	}, nil
}

func renderExplorationPrompt(task *models.Task, checks []CheckResult) (string, error) {
	var summary strings.Builder
	for _, c := range checks {
		status := "passed"
		if c.Skipped {
			status = "skipped: " + c.Output
		} else if !c.Success {
			status = "failed"
		}
		fmt.Fprintf(&summary, "- %s: %s\n", c.Name, status)
	}

	var b bytes.Buffer
	err := explorationTemplate.Execute(&b, explorationPromptData{
		TaskID:       task.ID,
		Description:  task.Description,
		Acceptance:   task.Acceptance,
		CheckSummary: summary.String(),
	})
	if err != nil {
		return "", fmt.Errorf("render exploration prompt: %w", err)
	}
	return b.String(), nil
}

// parseExplorationResponse tolerates a markdown-fenced JSON body and
// normalizes any non-enum verdict to needs_review.
func parseExplorationResponse(raw string) (explorationResponse, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var resp explorationResponse
	if err := json.Unmarshal([]byte(trimmed), &resp); err != nil {
		return explorationResponse{}, fmt.Errorf("parse exploration response: %w", err)
	}
	resp.Verdict = string(models.NormalizeVerdict(resp.Verdict))
	return resp, nil
}
