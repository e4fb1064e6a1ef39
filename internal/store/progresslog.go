package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/agent-foreman/foreman/internal/models"
)

// AppendProgress writes one line-delimited JSON record to the append-only
// progress log. Appends are not optimistically locked: concurrent
// writers only ever add lines, never mutate existing ones, so O_APPEND
// atomicity at the OS level is sufficient.
func (s *Store) AppendProgress(entry models.ProgressEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now()
	}
	if !entry.Kind.Valid() {
		return fmt.Errorf("invalid progress kind %q", entry.Kind)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal progress entry: %w", err)
	}

	if err := os.MkdirAll(s.paths.Root, 0o750); err != nil {
		return fmt.Errorf("create state root: %w", err)
	}
	f, err := os.OpenFile(s.paths.ProgressLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("open progress log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("append progress log: %w", err)
	}
	return nil
}

// ReadProgress loads every record from the progress log in append order.
// A missing log is treated as empty, since nothing has ever been appended.
func (s *Store) ReadProgress() ([]models.ProgressEntry, error) {
	f, err := os.Open(s.paths.ProgressLog)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open progress log: %w", err)
	}
	defer f.Close()

	var entries []models.ProgressEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry models.ProgressEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parse progress log line %d: %w", lineNum, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan progress log: %w", err)
	}
	return entries, nil
}
