package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockUnlockFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	legacyPath := filepath.Join(dir, "feature_list.json")

	f, err := lockFile(legacyPath)
	require.NoError(t, err)
	require.NotNil(t, f)
	unlockFile(f)
}

func TestUnlockFile_NilIsSafe(t *testing.T) {
	unlockFile(nil)
}
