package capability

import (
	"context"
	"path/filepath"
	"time"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

// Options controls one Detect call").
type Options struct {
	Force   bool
	Verbose bool
}

// Detect runs a two-tier detection: a preset
// manifest pass, then an AI-discovery pass when the preset's overall
// confidence is below threshold (AI results only fill capabilities the
// preset left unset), with a process-wide memory cache and a disk
// cache gated by git-diff staleness. cachePath is the project's
// capabilities.json location; inv is nil-safe (a nil Invoker simply skips
// AI discovery).
func Detect(ctx context.Context, cwd, cachePath string, inv *agent.Invoker, opts Options) models.Capabilities {
	if !opts.Force {
		if cached, ok := memoryCached(cwd); ok {
			return cached
		}
		if diskCache, err := LoadDiskCache(cachePath); err == nil && diskCache != nil && !IsStale(cwd, diskCache) {
			result := diskCache.Capabilities
			result.Source = models.SourceCached
			rememberInMemory(cwd, result)
			return result
		}
	}

	caps := DetectPreset(cwd)
	caps.DetectedAt = time.Now()

	if NeedsAIDiscovery(caps) && inv != nil {
		if discovered, err := DiscoverWithAI(ctx, inv, cwd, caps); err == nil {
			caps = discovered
			caps.DetectedAt = time.Now()
		}
		// AI discovery failure leaves caps at its preset values; detection
		// never hard-fails.
	}

	commitHash := CurrentCommitHash(cwd)
	_ = SaveDiskCache(cachePath, caps, commitHash, trackedFiles(cwd))
	rememberInMemory(cwd, caps)
	return caps
}

// trackedFiles lists the config-file paths whose git status should trigger
// cache invalidation, mirroring whatever preset detection actually read.
func trackedFiles(cwd string) []string {
	var files []string
	for _, name := range []string{
		"package.json", "go.mod", "pyproject.toml", "requirements.txt",
		"Cargo.toml", ".golangci.yml", ".golangci.yaml", ".flake8", "setup.cfg",
	} {
		if exists(filepath.Join(cwd, name)) {
			files = append(files, name)
		}
	}
	return files
}
