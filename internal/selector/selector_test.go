package selector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func idx(entries map[string]models.IndexEntry) *models.TaskIndex {
	return &models.TaskIndex{Version: 1, Features: entries}
}

func noopLoader(tasks map[string]*models.Task) Loader {
	return func(id string) (*models.Task, error) {
		return tasks[id], nil
	}
}

func TestSelect_EmptyIndexReturnsNilTask(t *testing.T) {
	sel, err := Select(idx(nil), noopLoader(nil))
	require.NoError(t, err)
	require.Nil(t, sel.Task)
}

func TestSelect_OnlyTerminalStatusesReturnsNilTask(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"core.done": {Status: models.StatusPassing, Priority: 1},
	}
	sel, err := Select(idx(entries), noopLoader(nil))
	require.NoError(t, err)
	require.Nil(t, sel.Task)
}

func TestSelect_BreakdownPreferredOverImplementation(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"core.BREAKDOWN": {Status: models.StatusFailing, Priority: 5},
		"core.impl":      {Status: models.StatusFailing, Priority: 1},
	}
	tasks := map[string]*models.Task{
		"core.BREAKDOWN": {ID: "core.BREAKDOWN", Status: models.StatusFailing},
	}
	sel, err := Select(idx(entries), noopLoader(tasks))
	require.NoError(t, err)
	require.Equal(t, "core.BREAKDOWN", sel.Task.ID)
	require.Equal(t, []string{"core.BREAKDOWN"}, sel.BlockedBy)
}

func TestSelect_NoBlockedByWhenNoImplementationCandidates(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"core.BREAKDOWN": {Status: models.StatusFailing, Priority: 1},
	}
	tasks := map[string]*models.Task{
		"core.BREAKDOWN": {ID: "core.BREAKDOWN", Status: models.StatusFailing},
	}
	sel, err := Select(idx(entries), noopLoader(tasks))
	require.NoError(t, err)
	require.Equal(t, "core.BREAKDOWN", sel.Task.ID)
	require.Empty(t, sel.BlockedBy)
}

func TestSelect_SortsByStatusRankThenPriority(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"a": {Status: models.StatusFailing, Priority: 1},
		"b": {Status: models.StatusNeedsReview, Priority: 5},
	}
	tasks := map[string]*models.Task{
		"a": {ID: "a", Status: models.StatusFailing},
		"b": {ID: "b", Status: models.StatusNeedsReview},
	}
	sel, err := Select(idx(entries), noopLoader(tasks))
	require.NoError(t, err)
	require.Equal(t, "b", sel.Task.ID)
}

func TestSelect_SortsByPriorityWithinSameRank(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"a": {Status: models.StatusFailing, Priority: 5},
		"b": {Status: models.StatusFailing, Priority: 1},
	}
	tasks := map[string]*models.Task{
		"a": {ID: "a", Status: models.StatusFailing},
		"b": {ID: "b", Status: models.StatusFailing},
	}
	sel, err := Select(idx(entries), noopLoader(tasks))
	require.NoError(t, err)
	require.Equal(t, "b", sel.Task.ID)
}

func TestSelect_SynthesizesMinimalTaskWhenFileMissing(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"core.x": {Status: models.StatusFailing, Priority: 1, Module: "core", Description: "desc"},
	}
	sel, err := Select(idx(entries), noopLoader(nil))
	require.NoError(t, err)
	require.NotNil(t, sel.Task)
	require.Equal(t, "core.x", sel.Task.ID)
	require.Equal(t, "desc", sel.Task.Description)
}

func TestSelect_DeprecatedAndBlockedExcluded(t *testing.T) {
	entries := map[string]models.IndexEntry{
		"a": {Status: models.StatusDeprecated, Priority: 1},
		"b": {Status: models.StatusBlocked, Priority: 1},
	}
	sel, err := Select(idx(entries), noopLoader(nil))
	require.NoError(t, err)
	require.Nil(t, sel.Task)
}
