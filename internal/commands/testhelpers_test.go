package commands

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
	"github.com/agent-foreman/foreman/internal/store"
)

// newTestStore builds a fresh Task Store rooted at a temp directory with an
// empty index, and chdirs the test into it so cwdFlag's default resolves
// there too.
func newTestStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)

	s, err := store.New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Paths().EnsureDirs())
	_, err = s.CreateIndex()
	require.NoError(t, err)
	return s, dir
}

// seedTask writes task to its module-derived file and mirrors it into the
// index, the same two-step sequence store.UpdateStatusQuick performs
// internally for an existing task.
func seedTask(t *testing.T, s *store.Store, task *models.Task) *models.Task {
	t.Helper()
	saved, err := s.SaveTask(task, task.Version)
	require.NoError(t, err)

	idx, err := s.LoadIndex()
	require.NoError(t, err)
	idx.Features[saved.ID] = saved.ThinEntry()
	require.NoError(t, s.SaveIndex(idx, idx.Version))
	return saved
}
