package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agent-foreman/foreman/internal/models"
)

// legacyFeatureList is the single-file JSON shape predating per-task files
//.
type legacyFeatureList struct {
	Features map[string]legacyFeature `json:"features"`
}

type legacyFeature struct {
	ID          string               `json:"id"`
	Module      string               `json:"module,omitempty"`
	Priority    int                  `json:"priority"`
	Status      models.TaskStatus    `json:"status"`
	Description string               `json:"description"`
	Acceptance  []string             `json:"acceptance,omitempty"`
	DependsOn   []string             `json:"dependsOn,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
	Notes       string               `json:"notes,omitempty"`
	Version     int                  `json:"version"`
}

// MigrateLegacyIfPresent converts an on-disk feature_list.json into sharded
// task files plus an index, then renames the legacy file aside so the
// migration never repeats. It is idempotent: a second call with no legacy
// file present is a no-op. The migration lock prevents two concurrent
// processes from racing this one-time conversion.
func (s *Store) MigrateLegacyIfPresent() (migrated bool, err error) {
	if !fileExists(s.paths.LegacyFile) {
		return false, nil
	}

	lock, err := lockFile(s.paths.LegacyFile)
	if err != nil {
		return false, err
	}
	defer unlockFile(lock)

	// Re-check after acquiring the lock: another process may have finished
	// the migration and renamed the legacy file aside while we waited.
	if !fileExists(s.paths.LegacyFile) {
		return false, nil
	}

	raw, err := os.ReadFile(s.paths.LegacyFile)
	if err != nil {
		return false, fmt.Errorf("read legacy feature list: %w", err)
	}
	var legacy legacyFeatureList
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return false, &CorruptFrontMatterError{Path: s.paths.LegacyFile, Err: err}
	}

	if err := s.paths.EnsureDirs(); err != nil {
		return false, err
	}

	idx, err := s.LoadIndex()
	if err != nil {
		if _, missing := err.(*IndexMissingError); !missing {
			return false, err
		}
		idx = &models.TaskIndex{Features: map[string]models.IndexEntry{}, Metadata: map[string]string{}}
	}
	idxVersion := idx.Version

	for id, lf := range legacy.Features {
		module := lf.Module
		if module == "" {
			module = models.Module(id)
		}
		task := &models.Task{
			ID:          id,
			Module:      module,
			Priority:    lf.Priority,
			Status:      lf.Status,
			Description: lf.Description,
			Acceptance:  lf.Acceptance,
			DependsOn:   lf.DependsOn,
			Tags:        lf.Tags,
			Notes:       lf.Notes,
			Origin:      models.OriginManual,
			Version:     lf.Version,
		}
		path := s.ModuleDerivedPath(task.ID)
		task.FilePath = path
		data, serErr := SerializeTask(task)
		if serErr != nil {
			return false, serErr
		}
		if writeErr := writeAtomic(path, data, 0o640); writeErr != nil {
			return false, writeErr
		}
		idx.Features[task.ID] = task.ThinEntry()
	}

	if err := s.SaveIndex(idx, idxVersion); err != nil {
		return false, err
	}

	if err := os.Rename(s.paths.LegacyFile, s.paths.LegacyFile+".bak"); err != nil {
		return false, fmt.Errorf("rename legacy feature list aside: %w", err)
	}

	return true, nil
}
