// Package app resolves the ambient configuration shared by every Foreman
// component: where the project's durable state lives, and which environment
// variables operators use to override it.
package app

import (
	"os"
	"path/filepath"
)

// Environment variable names read by the core.
const (
	EnvStateDir        = "FOREMAN_STATE_DIR"
	EnvAgentPriority    = "FOREMAN_AGENT_PRIORITY"
	EnvDebug            = "FOREMAN_DEBUG"
	EnvDisableAgent      = "FOREMAN_DISABLE_EXTERNAL_AGENT"
)

// defaultStateDirName is the conventional state root relative to a project's
// working directory.
const defaultStateDirName = "ai"

// StateDir returns the absolute path to the state root for cwd, honoring
// FOREMAN_STATE_DIR as an override (absolute or relative to cwd).
func StateDir(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", err
	}
	if override := os.Getenv(EnvStateDir); override != "" {
		if filepath.IsAbs(override) {
			return override, nil
		}
		return filepath.Join(abs, override), nil
	}
	return filepath.Join(abs, defaultStateDirName), nil
}

// Paths bundles the well-known files/directories under a resolved state root.
type Paths struct {
	Root             string
	TasksDir         string
	IndexFile        string
	LegacyFile       string
	CapabilitiesFile string
	ProgressLog      string
	VerificationDir  string
}

// ResolvePaths computes every persisted-state location under cwd's state dir.
func ResolvePaths(cwd string) (*Paths, error) {
	root, err := StateDir(cwd)
	if err != nil {
		return nil, err
	}
	return &Paths{
		Root:             root,
		TasksDir:         filepath.Join(root, "tasks"),
		IndexFile:        filepath.Join(root, "tasks", "index.json"),
		LegacyFile:       filepath.Join(root, "feature_list.json"),
		CapabilitiesFile: filepath.Join(root, "capabilities.json"),
		ProgressLog:      filepath.Join(root, "progress.log"),
		VerificationDir:  filepath.Join(root, "verification"),
	}, nil
}

// EnsureDirs creates every directory the state layout needs, idempotently.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.Root, p.TasksDir, p.VerificationDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}

// Debug reports whether verbose diagnostic logging is requested.
func Debug() bool {
	v := os.Getenv(EnvDebug)
	return v == "1" || v == "true"
}

// AgentDisabled reports whether external agent subprocess invocation is
// disabled (tests, CI sandboxes without agent binaries installed).
func AgentDisabled() bool {
	return os.Getenv(EnvDisableAgent) != ""
}
