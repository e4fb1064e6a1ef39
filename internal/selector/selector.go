// Package selector implements the pure task-selection rule over a Task
// Index: which task `next` should hand the operator, and
// which BREAKDOWN tasks are blocking the rest of a module.
package selector

import (
	"sort"

	"github.com/agent-foreman/foreman/internal/models"
)

// Loader fetches the full task for id, returning (nil, nil) when no file
// resolves so Select can fall back to synthesizing a minimal task from the
// index entry.
type Loader func(id string) (*models.Task, error)

// Selection is the result of one selection pass.
type Selection struct {
	Task      *models.Task
	BlockedBy []string
}

type candidate struct {
	id    string
	entry models.IndexEntry
}

// Select applies the five-step selection rule over idx, loading the
// winner's full task via load.
func Select(idx *models.TaskIndex, load Loader) (Selection, error) {
	var breakdowns, others []candidate
	for id, entry := range idx.Features {
		if !entry.Status.IsSelectable() {
			continue
		}
		c := candidate{id: id, entry: entry}
		if models.IsBreakdown(id) {
			breakdowns = append(breakdowns, c)
		} else {
			others = append(others, c)
		}
	}

	var blockedBy []string
	pool := others
	if len(breakdowns) > 0 {
		pool = breakdowns
		if len(others) > 0 {
			blockedBy = breakdownIDs(breakdowns)
		}
	}

	if len(pool) == 0 {
		return Selection{}, nil
	}

	sort.Slice(pool, func(i, j int) bool {
		ri, rj := pool[i].entry.Status.StatusRank(), pool[j].entry.Status.StatusRank()
		if ri != rj {
			return ri < rj
		}
		return pool[i].entry.Priority < pool[j].entry.Priority
	})

	winner := pool[0]
	task, err := load(winner.id)
	if err != nil {
		return Selection{}, err
	}
	if task == nil {
		task = synthesize(winner.id, winner.entry)
	}

	return Selection{Task: task, BlockedBy: blockedBy}, nil
}

func breakdownIDs(breakdowns []candidate) []string {
	ids := make([]string, len(breakdowns))
	for i, c := range breakdowns {
		ids[i] = c.id
	}
	sort.Strings(ids)
	return ids
}

// synthesize builds a minimal in-memory task from an index entry when the
// task's file is missing, so a stale or externally-deleted file never fails
// selection.
func synthesize(id string, entry models.IndexEntry) *models.Task {
	return &models.Task{
		ID:          id,
		Module:      entry.Module,
		Priority:    entry.Priority,
		Status:      entry.Status,
		Description: entry.Description,
		FilePath:    entry.FilePath,
	}
}
