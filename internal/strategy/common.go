package strategy

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agent-foreman/foreman/internal/agent"
	"github.com/agent-foreman/foreman/internal/models"
)

// Dependencies bundles the shared collaborators executors need beyond the
// strategy payload itself: an agent invoker for the ai/e2e-discovery paths
// and the project's detected capabilities for command defaults.
type Dependencies struct {
	Invoker      *agent.Invoker
	Capabilities models.Capabilities
}

// ExecContext is the per-run context passed to every executor: the working
// directory to run in (already validated to lie under ProjectRoot) and the
// feature being verified.
type ExecContext struct {
	Cwd         string
	ProjectRoot string
	FeatureID   string
}

// validateCwd enforces spec.md §5's shared-resource policy: every subprocess
// working directory must resolve to a path inside ProjectRoot. Rejects `..`
// ascent and absolute paths pointing outside, identically on every platform.
func validateCwd(ec ExecContext) (string, error) {
	root, err := filepath.Abs(ec.ProjectRoot)
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	cwd := ec.Cwd
	if cwd == "" {
		cwd = root
	}
	if !filepath.IsAbs(cwd) {
		cwd = filepath.Join(root, cwd)
	}
	cwd = filepath.Clean(cwd)
	rel, err := filepath.Rel(root, cwd)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("cwd %q escapes project root %q", cwd, root)
	}
	return cwd, nil
}

// resolveUnderRoot resolves a relative path against root and re-checks it
// lies under root, per spec.md §4.5's path-safety rule for script/file
// strategy targets.
func resolveUnderRoot(root, relOrAbs string) (string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := relOrAbs
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	target = filepath.Clean(target)
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes project root %q", relOrAbs, root)
	}
	return target, nil
}

// dangerousCommandPatterns is the fixed deny-regex list a command/script
// strategy is checked against before spawn.
var dangerousCommandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rm\s+-rf\s+/`),
	regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*;\s*\}`), // fork bomb
	regexp.MustCompile(`>\s*/dev/sd`),
	regexp.MustCompile(`mkfs\.`),
	regexp.MustCompile(`dd\s+if=.*of=/dev/`),
	regexp.MustCompile(`curl[^|]*\|\s*sh`),
	regexp.MustCompile(`wget[^|]*\|\s*sh`),
	regexp.MustCompile(`:/$`),
}

// isDangerousCommand reports whether the full command line matches any
// deny-listed pattern.
func isDangerousCommand(line string) bool {
	for _, pattern := range dangerousCommandPatterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
