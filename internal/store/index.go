package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agent-foreman/foreman/internal/models"
)

// LoadIndex reads the task index. Returns an *IndexMissingError if absent —
// quick operations treat a missing index as fatal configuration, while callers like auto-migration and `init`
// handle *IndexMissingError themselves to create one.
func (s *Store) LoadIndex() (*models.TaskIndex, error) {
	raw, err := os.ReadFile(s.paths.IndexFile)
	if os.IsNotExist(err) {
		return nil, &IndexMissingError{Path: s.paths.IndexFile}
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", s.paths.IndexFile, err)
	}

	var idx models.TaskIndex
	if err := json.Unmarshal(raw, &idx); err != nil {
		return nil, &CorruptFrontMatterError{Path: s.paths.IndexFile, Err: err}
	}
	if idx.Features == nil {
		idx.Features = map[string]models.IndexEntry{}
	}
	idx.LoadedAt = now()
	return &idx, nil
}

// SaveIndex writes the index with optimistic locking: expectedVersion must
// match the currently-persisted version (0 if the index does not yet
// exist), the write increments Version, and a version mismatch on re-read
// surfaces an *OptimisticLockError.
func (s *Store) SaveIndex(idx *models.TaskIndex, expectedVersion int) error {
	current, err := s.LoadIndex()
	if err != nil {
		if _, missing := err.(*IndexMissingError); !missing {
			return err
		}
		current = nil
	}

	actual := 0
	if current != nil {
		actual = current.Version
	}
	if actual != expectedVersion {
		return &OptimisticLockError{
			Entity:          "index",
			ID:              "index",
			ExpectedVersion: expectedVersion,
			ActualVersion:   actual,
		}
	}

	idx.Version = expectedVersion + 1
	idx.UpdatedAt = now()

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := writeAtomic(s.paths.IndexFile, data, 0o640); err != nil {
		return err
	}
	idx.LoadedAt = now()
	return nil
}

// CreateIndex initializes an empty index (saved against expected version 0,
// so it is persisted at version 1), failing if one already exists.
func (s *Store) CreateIndex() (*models.TaskIndex, error) {
	if _, err := os.Stat(s.paths.IndexFile); err == nil {
		return nil, fmt.Errorf("index already exists at %s", s.paths.IndexFile)
	}
	idx := &models.TaskIndex{
		Features: map[string]models.IndexEntry{},
		Metadata: map[string]string{},
	}
	if err := s.paths.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := s.SaveIndex(idx, 0); err != nil {
		return nil, err
	}
	return idx, nil
}

// ListIDs returns every task id currently in the index.
func (s *Store) ListIDs() ([]string, error) {
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(idx.Features))
	for id := range idx.Features {
		ids = append(ids, id)
	}
	return ids, nil
}

// Stats summarizes the index by status, excluding deprecated tasks from
// every count.
type Stats struct {
	Total       int                          `json:"total"`
	ByStatus    map[models.TaskStatus]int    `json:"byStatus"`
}

// StatsFromIndex computes Stats using only the index, never touching task
// files.
func (s *Store) StatsFromIndex() (*Stats, error) {
	idx, err := s.LoadIndex()
	if err != nil {
		return nil, err
	}
	stats := &Stats{ByStatus: map[models.TaskStatus]int{}}
	for _, entry := range idx.Features {
		if entry.Status == models.StatusDeprecated {
			continue
		}
		stats.Total++
		stats.ByStatus[entry.Status]++
	}
	return stats, nil
}
