package capability

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/agent-foreman/foreman/internal/models"
)

// memoryCacheTTL bounds the process-wide in-memory cache used across
// repeated in-run calls.
const memoryCacheTTL = 60 * time.Second

type memoryEntry struct {
	capabilities models.Capabilities
	cachedAt     time.Time
}

// processCache is keyed by cwd: a single process may detect capabilities
// for more than one project root (tests routinely do), so the TTL cache
// must not conflate them.
var processCache = struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}{entries: map[string]memoryEntry{}}

// LoadDiskCache reads the persisted capability cache, or (nil, nil) if
// absent.
func LoadDiskCache(path string) (*models.CapabilityCache, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read capability cache: %w", err)
	}
	var cache models.CapabilityCache
	if err := json.Unmarshal(raw, &cache); err != nil {
		return nil, fmt.Errorf("parse capability cache: %w", err)
	}
	return &cache, nil
}

// SaveDiskCache persists capabilities plus the commit hash and tracked
// files that influenced detection.
func SaveDiskCache(path string, caps models.Capabilities, commitHash string, trackedFiles []string) error {
	cache := models.CapabilityCache{
		Version:      1,
		Capabilities: caps,
		CommitHash:   commitHash,
		TrackedFiles: trackedFiles,
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal capability cache: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write capability cache: %w", err)
	}
	return os.Rename(tmp, path)
}

// IsStale reports whether a cached capability result has gone stale: true
// if no commit hash was recorded, true if any tracked file changed since that commit
// (checked via `git diff --name-only`), otherwise fresh.
func IsStale(cwd string, cache *models.CapabilityCache) bool {
	if cache == nil || cache.CommitHash == "" {
		return true
	}
	if len(cache.TrackedFiles) == 0 {
		return false
	}
	args := append([]string{"diff", "--name-only", cache.CommitHash, "--"}, cache.TrackedFiles...)
	cmd := exec.Command("git", args...) //nolint:gosec // G204: fixed "git" binary, args are file paths from our own cache
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		// git unavailable or commit gone: treat conservatively as stale.
		return true
	}
	return strings.TrimSpace(string(out)) != ""
}

// CurrentCommitHash returns the repository's current commit hash, or "" if
// it cannot be determined (no git, not a repo, etc).
func CurrentCommitHash(cwd string) string {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// memoryCached returns the cached capabilities for cwd if still within TTL,
// for repeated in-run calls within one process lifetime.
func memoryCached(cwd string) (models.Capabilities, bool) {
	processCache.mu.Lock()
	defer processCache.mu.Unlock()
	entry, ok := processCache.entries[cwd]
	if !ok || time.Since(entry.cachedAt) > memoryCacheTTL {
		return models.Capabilities{}, false
	}
	return entry.capabilities, true
}

func rememberInMemory(cwd string, caps models.Capabilities) {
	processCache.mu.Lock()
	defer processCache.mu.Unlock()
	processCache.entries[cwd] = memoryEntry{capabilities: caps, cachedAt: time.Now()}
}
