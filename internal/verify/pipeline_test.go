package verify

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/strategy"
)

func TestPipeline_RunStrategies_PassesWhenFileStrategyMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out.txt"), []byte("done"), 0o644))

	registry := strategy.NewDefaultRegistry(strategy.Dependencies{})
	pipeline := NewPipeline(registry, dir)

	task := &models.Task{
		ID: "data-001",
		VerificationStrategies: []models.VerificationStrategy{
			{Kind: models.StrategyFile, File: &models.FileStrategy{Path: "out.txt"}},
		},
	}

	result := pipeline.RunStrategies(context.Background(), task, nil)
	require.Equal(t, models.VerdictPass, result.Verdict)
	require.Len(t, result.Strategies, 1)
	require.True(t, result.Strategies[0].Success)
}

func TestPipeline_RunStrategies_FailsOnMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	registry := strategy.NewDefaultRegistry(strategy.Dependencies{})
	pipeline := NewPipeline(registry, dir)

	task := &models.Task{
		ID: "data-002",
		VerificationStrategies: []models.VerificationStrategy{
			{Kind: models.StrategyFile, File: &models.FileStrategy{Path: "missing.txt"}},
		},
	}

	result := pipeline.RunStrategies(context.Background(), task, nil)
	require.Equal(t, models.VerdictFail, result.Verdict)
}

func TestPipeline_RunStrategies_OptionalFailureSkips(t *testing.T) {
	dir := t.TempDir()
	registry := strategy.NewDefaultRegistry(strategy.Dependencies{})
	pipeline := NewPipeline(registry, dir)

	notRequired := false
	task := &models.Task{
		ID: "data-003",
		VerificationStrategies: []models.VerificationStrategy{
			{
				Kind:   models.StrategyFile,
				Common: models.Common{Required: &notRequired},
				File:   &models.FileStrategy{Path: "missing.txt"},
			},
		},
	}

	result := pipeline.RunStrategies(context.Background(), task, nil)
	require.Equal(t, models.VerdictPass, result.Verdict)
	require.True(t, result.Strategies[0].Skipped)
}

func TestPipeline_RunStrategies_RecordsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	registry := strategy.NewDefaultRegistry(strategy.Dependencies{})
	pipeline := NewPipeline(registry, dir)

	task := &models.Task{
		ID:                     "manual-001",
		VerificationStrategies: []models.VerificationStrategy{{Kind: models.StrategyManual, Manual: &models.ManualStrategy{}}},
	}

	result := pipeline.RunStrategies(context.Background(), task, []string{"a.go", "b.go"})
	require.Equal(t, []string{"a.go", "b.go"}, result.ChangedFiles)
	require.Equal(t, models.VerdictNeedsReview, result.Verdict)
}
