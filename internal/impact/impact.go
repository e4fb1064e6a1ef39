// Package impact implements the Impact Analyzer: mapping changed files to
// the tasks they plausibly affect, with a confidence tier per match
//.
package impact

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/agent-foreman/foreman/internal/models"
)

// testDirSegment matches the tests/test/__tests__/spec path segment that
// testToSource rewrites to "src". testToSource turns a test file path into
// the source path it plausibly covers: strip a ".test"/".spec" suffix before
// the extension, replace that segment, and require one of the source
// extensions the spec recognizes.
var testDirSegment = regexp.MustCompile(`(^|/)(tests|test|__tests__|spec)(/|$)`)

var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true,
}

func testToSource(testPath string) (string, bool) {
	ext := filepath.Ext(testPath)
	if !sourceExtensions[ext] {
		return "", false
	}
	stem := strings.TrimSuffix(testPath, ext)
	stem = strings.TrimSuffix(stem, ".test")
	stem = strings.TrimSuffix(stem, ".spec")

	rewritten := testDirSegment.ReplaceAllString(stem, "${1}src${3}")
	if rewritten == stem {
		return "", false
	}
	return rewritten + ext, true
}

// Analyze implements getTaskImpact(cwd, changedFiles): for each non-
// terminal, non-deprecated task, find the highest-confidence reason any
// changed file implicates it, dedup per task, union matched files, and
// sort high→medium→low.
func Analyze(tasks []*models.Task, changedFiles []string) []models.ImpactMatch {
	byTask := map[string]*models.ImpactMatch{}

	for _, task := range tasks {
		if task.Status == models.StatusPassing || task.Status == models.StatusDeprecated {
			continue
		}
		for _, file := range changedFiles {
			confidence, reason, ok := matchConfidence(task, file)
			if !ok {
				continue
			}
			existing, found := byTask[task.ID]
			if !found {
				byTask[task.ID] = &models.ImpactMatch{
					TaskID:       task.ID,
					Reason:       reason,
					Confidence:   confidence,
					MatchedFiles: []string{file},
				}
				continue
			}
			existing.MatchedFiles = appendUnique(existing.MatchedFiles, file)
			if confidence.Less(existing.Confidence) {
				existing.Confidence = confidence
				existing.Reason = reason
			}
		}
	}

	matches := make([]models.ImpactMatch, 0, len(byTask))
	for _, m := range byTask {
		matches = append(matches, *m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence.Less(matches[j].Confidence)
		}
		return matches[i].TaskID < matches[j].TaskID
	})
	return matches
}

// matchConfidence applies the three matching tiers to one (task, file) pair.
func matchConfidence(task *models.Task, file string) (models.Confidence, string, bool) {
	for _, pattern := range task.AffectedBy {
		if ok, _ := filepath.Match(pattern, file); ok {
			return models.ConfidenceHigh, "matches affectedBy pattern " + pattern, true
		}
		if matchesDoubleStar(pattern, file) {
			return models.ConfidenceHigh, "matches affectedBy pattern " + pattern, true
		}
	}

	if task.TestRequirements != nil && task.TestRequirements.Unit != nil {
		if src, ok := testToSource(task.TestRequirements.Unit.Pattern); ok {
			if fileMatchesTestDerivedSource(src, file) {
				return models.ConfidenceMedium, "changed file matches source derived from unit test pattern", true
			}
		}
	}

	if task.Module != "" && strings.Contains(file, task.Module) {
		return models.ConfidenceLow, "changed file path contains module segment " + task.Module, true
	}

	return "", "", false
}

// fileMatchesTestDerivedSource compares by suffix so a derived pattern like
// "src/auth/login.ts" matches an actual changed path regardless of repo root
// prefix differences.
func fileMatchesTestDerivedSource(derivedSource, file string) bool {
	return strings.HasSuffix(file, derivedSource) || strings.HasSuffix(derivedSource, file)
}

// matchesDoubleStar extends filepath.Match with "**" recursive-glob
// support, kept on stdlib primitives rather than a doublestar dependency
// (see DESIGN.md).
func matchesDoubleStar(pattern, name string) bool {
	if !strings.Contains(pattern, "**") {
		return false
	}
	parts := strings.SplitN(pattern, "**", 2)
	prefix, suffix := parts[0], strings.TrimPrefix(parts[1], "/")
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if suffix == "" {
		return true
	}
	segs := strings.Split(strings.TrimPrefix(name, prefix), "/")
	for i := range segs {
		if ok, _ := filepath.Match(suffix, strings.Join(segs[i:], "/")); ok {
			return true
		}
	}
	return false
}

func appendUnique(files []string, file string) []string {
	for _, f := range files {
		if f == file {
			return files
		}
	}
	return append(files, file)
}

// highRiskPatterns flags dependency manifests, lockfiles, and top-level
// tool/environment config as high-risk.
var highRiskPatterns = []string{
	"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
	"go.mod", "go.sum",
	"Cargo.toml", "Cargo.lock",
	"requirements.txt", "pyproject.toml", "poetry.lock",
	"tsconfig.json", "eslint", ".eslintrc",
	"jest.config", "vitest.config",
	".env", ".env.local", ".env.production",
}

// IsHighRisk reports whether a changed file matches one of the high-risk
// predicates callers use to escalate verification breadth.
func IsHighRisk(file string) bool {
	base := filepath.Base(file)
	for _, pattern := range highRiskPatterns {
		if strings.Contains(base, pattern) {
			return true
		}
	}
	return false
}
