package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStore returns a Store rooted at a fresh temp directory, with the
// state layout already created.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, s.Paths().EnsureDirs())
	return s
}

func TestModuleDerivedPath(t *testing.T) {
	s := newTestStore(t)
	path := s.ModuleDerivedPath("auth.login-flow")
	require.Contains(t, path, "auth")
	require.Contains(t, path, "login-flow.md")
}

func TestLegacyFirstSegmentPath_NoDot(t *testing.T) {
	s := newTestStore(t)
	path := s.legacyFirstSegmentPath("standalone")
	require.Contains(t, path, "standalone.md")
}

func TestResolveTaskPath_ExplicitMissingReturnsEmpty(t *testing.T) {
	s := newTestStore(t)
	path, err := s.ResolveTaskPath("auth.login", "/does/not/exist.md", "")
	require.NoError(t, err)
	require.Empty(t, path, "an explicit filePath that does not exist must not fall back")
}

func TestResolveTaskPath_ScanFindsRelocatedFile(t *testing.T) {
	s := newTestStore(t)

	task := sampleTask("auth.login", 0)
	// Place the file somewhere other than its module-derived path to force
	// the directory-scan fallback (the last resolution step).
	task.FilePath = filepath.Join(s.Paths().TasksDir, "relocated", "login.md")
	_, err := s.SaveTask(task, 0)
	require.NoError(t, err)

	path, err := s.ResolveTaskPath("auth.login", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, path)
}
