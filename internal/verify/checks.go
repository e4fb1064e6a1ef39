package verify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agent-foreman/foreman/internal/models"
)

// TestMode selects how much of the unit-test suite an automated-checks run
// executes.
type TestMode string

const (
	TestModeFull TestMode = "full"
	TestModeQuick TestMode = "quick"
	TestModeSkip  TestMode = "skip"
)

// E2EMode selects how much of the E2E suite runs.
type E2EMode string

const (
	E2EModeFull  E2EMode = "full"
	E2EModeSmoke E2EMode = "smoke"
	E2EModeTags  E2EMode = "tags"
	E2EModeSkip  E2EMode = "skip"
)

// CheckOptions configures one automated-checks run.
type CheckOptions struct {
	TestMode    TestMode
	E2EMode     E2EMode
	E2ETags     []string
	TestPattern string
	Parallel    bool
	SkipBuild   bool
}

// CheckResult is one named check's outcome within an automated-checks run.
type CheckResult struct {
	Name     string
	Success  bool
	Output   string
	Duration float64
	Skipped  bool
}

// RunAutomatedChecks composes the fixed-order check list — tests,
// type-check, lint, build, E2E last — from caps and opts, and runs them
// sequentially or, when opts.Parallel is set, with the unit-layer checks
// fanned out via errgroup and E2E gated behind the group's Wait().
func RunAutomatedChecks(ctx context.Context, cwd string, caps models.Capabilities, opts CheckOptions) []CheckResult {
	unitChecks := buildUnitChecks(cwd, caps, opts)

	var results []CheckResult
	if opts.Parallel {
		results = make([]CheckResult, len(unitChecks))
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range unitChecks {
			i, c := i, c
			g.Go(func() error {
				results[i] = runNamedCheck(gctx, cwd, c)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, c := range unitChecks {
			results = append(results, runNamedCheck(ctx, cwd, c))
		}
	}

	e2e := buildE2ECheck(cwd, caps, opts)
	if e2e != nil {
		results = append(results, runNamedCheck(ctx, cwd, *e2e))
	}
	return results
}

type namedCheck struct {
	name    string
	command string
	timeout time.Duration
	skip    bool
	reason  string
}

func buildUnitChecks(cwd string, caps models.Capabilities, opts CheckOptions) []namedCheck {
	var checks []namedCheck

	testCmd := caps.TestCommand
	switch opts.TestMode {
	case TestModeSkip:
		checks = append(checks, namedCheck{name: "test", skip: true, reason: "test mode skip"})
	default:
		if !caps.HasTest {
			checks = append(checks, namedCheck{name: "test", skip: true, reason: "no test command detected"})
			break
		}
		if opts.TestMode == TestModeQuick {
			if selective, ok := selectiveTestCommand(cwd, testCmd, opts.TestPattern); ok {
				testCmd = selective
			}
		}
		checks = append(checks, namedCheck{name: "test", command: testCmd, timeout: 300 * time.Second})
	}

	if caps.HasTypeCheck {
		checks = append(checks, namedCheck{name: "type-check", command: caps.TypeCheckCommand, timeout: 120 * time.Second})
	} else {
		checks = append(checks, namedCheck{name: "type-check", skip: true, reason: "no type-check command detected"})
	}

	if caps.HasLint {
		checks = append(checks, namedCheck{name: "lint", command: caps.LintCommand, timeout: 120 * time.Second})
	} else {
		checks = append(checks, namedCheck{name: "lint", skip: true, reason: "no lint command detected"})
	}

	if opts.SkipBuild {
		checks = append(checks, namedCheck{name: "build", skip: true, reason: "--skip-build"})
	} else if caps.HasBuild {
		checks = append(checks, namedCheck{name: "build", command: caps.BuildCommand, timeout: 180 * time.Second})
	} else {
		checks = append(checks, namedCheck{name: "build", skip: true, reason: "no build command detected"})
	}

	return checks
}

func buildE2ECheck(cwd string, caps models.Capabilities, opts CheckOptions) *namedCheck {
	if opts.E2EMode == E2EModeSkip || caps.E2E == nil || !caps.E2E.Available {
		return nil
	}
	command := caps.E2E.Command
	if opts.E2EMode == E2EModeTags && len(opts.E2ETags) > 0 {
		grepTemplate := caps.E2E.GrepTemplate
		if grepTemplate == "" {
			grepTemplate = "--grep %s"
		}
		command = fmt.Sprintf("%s %s", command, fmt.Sprintf(grepTemplate, strings.Join(opts.E2ETags, "|")))
	}
	return &namedCheck{name: "e2e", command: command, timeout: 120 * time.Second}
}

func runNamedCheck(ctx context.Context, cwd string, c namedCheck) CheckResult {
	if c.skip {
		return CheckResult{Name: c.name, Success: true, Skipped: true, Output: c.reason}
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "sh", "-c", c.command) //nolint:gosec // G204: capability-detected/operator-configured command, not user input
	cmd.Dir = cwd
	cmd.Env = append(os.Environ(), "CI=true")

	start := time.Now()
	out, err := cmd.CombinedOutput()
	duration := time.Since(start)

	return CheckResult{
		Name:     c.name,
		Success:  err == nil,
		Output:   string(out),
		Duration: duration.Seconds(),
	}
}

// selectiveTestCommand derives a narrowed test command from changed test
// files (quick mode), falling back to the full suite when discovery finds
// nothing — spec.md §4.6: "falls back to full suite if discovery returns
// nothing".
func selectiveTestCommand(cwd, baseCommand, pattern string) (string, bool) {
	if pattern != "" {
		return fmt.Sprintf("%s -run %s", baseCommand, pattern), true
	}
	files := discoverChangedTestFiles(cwd)
	if len(files) == 0 {
		return baseCommand, false
	}
	return fmt.Sprintf("%s %s", baseCommand, strings.Join(files, " ")), true
}

// discoverChangedTestFiles lists test files touched relative to HEAD, a
// best-effort signal for which tests "quick" mode should target.
func discoverChangedTestFiles(cwd string) []string {
	cmd := exec.Command("git", "diff", "--name-only", "HEAD")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if strings.HasSuffix(line, "_test.go") || strings.Contains(line, ".test.") {
			files = append(files, line)
		}
	}
	return files
}
