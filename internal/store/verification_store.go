package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agent-foreman/foreman/internal/models"
)

// verificationFileName derives a sortable, collision-resistant artifact
// name from the task id and run timestamp: later runs for the same task
// sort after earlier ones lexically, matching directory listing order.
func verificationFileName(featureID string, timestamp string) string {
	safeID := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(featureID)
	return fmt.Sprintf("%s-%s.json", safeID, timestamp)
}

// SaveVerificationResult persists one verification run as its own JSON
// artifact under the verification directory.
func (s *Store) SaveVerificationResult(result *models.VerificationResult) (string, error) {
	if err := os.MkdirAll(s.paths.VerificationDir, 0o750); err != nil {
		return "", fmt.Errorf("create verification directory: %w", err)
	}
	ts := result.Timestamp.UTC().Format("20060102T150405.000000000Z")
	name := verificationFileName(result.FeatureID, ts)
	path := filepath.Join(s.paths.VerificationDir, name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal verification result: %w", err)
	}
	if err := writeAtomic(path, data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}

// LatestVerificationResult returns the most recently written verification
// artifact for featureID, or nil if none exists.
func (s *Store) LatestVerificationResult(featureID string) (*models.VerificationResult, error) {
	results, err := s.VerificationHistory(featureID)
	if err != nil || len(results) == 0 {
		return nil, err
	}
	return results[len(results)-1], nil
}

// VerificationHistory returns every recorded verification run for featureID,
// oldest first (the timestamp-suffixed filenames sort chronologically).
func (s *Store) VerificationHistory(featureID string) ([]*models.VerificationResult, error) {
	entries, err := os.ReadDir(s.paths.VerificationDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read verification directory: %w", err)
	}

	safeID := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(featureID)
	prefix := safeID + "-"

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		// The timestamp suffix holds no '-', so a further '-' means the file
		// belongs to a longer id that shares this prefix (e.g. "a-b" for "a").
		if strings.Contains(strings.TrimPrefix(e.Name(), prefix), "-") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	results := make([]*models.VerificationResult, 0, len(names))
	for _, name := range names {
		raw, readErr := os.ReadFile(filepath.Join(s.paths.VerificationDir, name))
		if readErr != nil {
			return nil, fmt.Errorf("read verification artifact %s: %w", name, readErr)
		}
		var result models.VerificationResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("parse verification artifact %s: %w", name, err)
		}
		results = append(results, &result)
	}
	return results, nil
}
