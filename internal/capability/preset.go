// Package capability implements the Capability Detector: project
// introspection (test/type-check/lint/build/e2e commands, languages) with a
// disk cache invalidated by git-tracked config file changes.
package capability

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agent-foreman/foreman/internal/models"
)

// presetConfidence is the confidence recorded for each manifest whose test
// command was resolved; it is high enough that the averaged overall
// confidence skips AI discovery.
const presetConfidence = 0.9

// aiDiscoveryThreshold is the overall-confidence floor below which AI
// discovery is attempted.
const aiDiscoveryThreshold = 0.5

// DetectPreset inspects known manifests and path markers across the
// languages represented in the example pack's domain surface — Go, Node,
// Python, Rust — and synthesizes commands. It computes a single overall
// Confidence (the average of presetConfidence over the manifests that
// yielded a test command, 0 when none did); no per-capability confidence is
// recorded.
func DetectPreset(cwd string) models.Capabilities {
	caps := models.Capabilities{Source: models.SourcePreset}
	caps.HasGit = exists(filepath.Join(cwd, ".git"))

	var languages []string
	var confidences []float64

	if pkg, ok := readPackageJSON(cwd); ok {
		languages = append(languages, "javascript")
		if hasScript(pkg, "test") {
			caps.HasTest = true
			caps.TestCommand = "npm test"
			confidences = append(confidences, presetConfidence)
		}
		if hasScript(pkg, "build") {
			caps.HasBuild = true
			caps.BuildCommand = "npm run build"
		}
		if hasScript(pkg, "lint") {
			caps.HasLint = true
			caps.LintCommand = "npm run lint"
		}
		if hasAnyDep(pkg, "typescript") {
			caps.HasTypeCheck = true
			caps.TypeCheckCommand = "npx tsc --noEmit"
		}
		caps.E2E = detectNodeE2E(pkg)
	}

	if exists(filepath.Join(cwd, "go.mod")) {
		languages = append(languages, "go")
		caps.HasTest = true
		caps.TestCommand = "go test ./..."
		caps.HasBuild = true
		caps.BuildCommand = "go build ./..."
		if exists(filepath.Join(cwd, ".golangci.yml")) || exists(filepath.Join(cwd, ".golangci.yaml")) {
			caps.HasLint = true
			caps.LintCommand = "golangci-lint run"
		}
		caps.HasTypeCheck = true
		caps.TypeCheckCommand = "go vet ./..."
		confidences = append(confidences, presetConfidence)
	}

	if exists(filepath.Join(cwd, "pyproject.toml")) || exists(filepath.Join(cwd, "requirements.txt")) {
		languages = append(languages, "python")
		if !caps.HasTest {
			caps.HasTest = true
			caps.TestCommand = "pytest"
			confidences = append(confidences, presetConfidence)
		}
		if exists(filepath.Join(cwd, ".flake8")) || exists(filepath.Join(cwd, "setup.cfg")) {
			caps.HasLint = true
			caps.LintCommand = "flake8"
		}
	}

	if exists(filepath.Join(cwd, "Cargo.toml")) {
		languages = append(languages, "rust")
		if !caps.HasTest {
			caps.HasTest = true
			caps.TestCommand = "cargo test"
			confidences = append(confidences, presetConfidence)
		}
		caps.HasBuild = true
		caps.BuildCommand = "cargo build"
		caps.HasTypeCheck = true
		caps.TypeCheckCommand = "cargo check"
	}

	caps.Languages = languages
	caps.Confidence = averageOrFloor(confidences)
	return caps
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type packageJSON struct {
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func readPackageJSON(cwd string) (*packageJSON, bool) {
	raw, err := os.ReadFile(filepath.Join(cwd, "package.json"))
	if err != nil {
		return nil, false
	}
	var pkg packageJSON
	if err := json.Unmarshal(raw, &pkg); err != nil {
		return nil, false
	}
	return &pkg, true
}

func hasScript(pkg *packageJSON, name string) bool {
	_, ok := pkg.Scripts[name]
	return ok
}

func hasAnyDep(pkg *packageJSON, name string) bool {
	if _, ok := pkg.Dependencies[name]; ok {
		return true
	}
	_, ok := pkg.DevDependencies[name]
	return ok
}

// detectNodeE2E recognizes the common JS E2E frameworks by devDependency
// name, filling in the per-framework grep/file templates the e2e executor
// uses to locate spec files.
func detectNodeE2E(pkg *packageJSON) *models.E2EInfo {
	switch {
	case hasAnyDep(pkg, "playwright") || hasAnyDep(pkg, "@playwright/test"):
		return &models.E2EInfo{
			Available: true, Framework: "playwright", Command: "npx playwright test",
			GrepTemplate: "--grep %s", FileTemplate: "%s",
		}
	case hasAnyDep(pkg, "cypress"):
		return &models.E2EInfo{
			Available: true, Framework: "cypress", Command: "npx cypress run",
			GrepTemplate: "--env grep=%s", FileTemplate: "--spec %s",
		}
	case hasAnyDep(pkg, "puppeteer"):
		return &models.E2EInfo{
			Available: true, Framework: "puppeteer", Command: "npm run test:e2e",
			GrepTemplate: "--grep %s", FileTemplate: "%s",
		}
	default:
		return nil
	}
}

func averageOrFloor(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
