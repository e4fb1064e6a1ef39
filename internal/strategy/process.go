package strategy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"
)

// maxCapturedOutput bounds how much combined stdout+stderr a strategy
// subprocess run keeps in memory, mirroring the agent invoker's
// boundedWriter (internal/agent/invoke.go) so a runaway test/e2e/script
// process can't blow up process memory.
const maxCapturedOutput = 64 * 1024

type boundedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *boundedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	remaining := maxCapturedOutput - b.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		p = p[:remaining]
	}
	return b.buf.Write(p)
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runSpec describes one subprocess invocation shared by the
// test/e2e/script/command executors.
type runSpec struct {
	Cwd     string
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

type runOutcome struct {
	ExitCode int
	Output   string
	TimedOut bool
	Duration time.Duration
}

// runCommand spawns cmd under spec's timeout, capturing bounded combined
// output, and reports exit code / timeout distinctly.
func runCommand(ctx context.Context, spec runSpec) (runOutcome, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if spec.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, spec.Command, spec.Args...) //nolint:gosec // G204: command/args are operator-declared strategy fields, validated by the caller
	cmd.Dir = spec.Cwd
	if len(spec.Env) > 0 {
		cmd.Env = spec.Env
	}

	out := &boundedBuffer{}
	cmd.Stdout = out
	cmd.Stderr = out

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		return runOutcome{Output: out.String(), TimedOut: true, Duration: duration}, nil
	}
	if err == nil {
		return runOutcome{ExitCode: 0, Output: out.String(), Duration: duration}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return runOutcome{ExitCode: exitErr.ExitCode(), Output: out.String(), Duration: duration}, nil
	}
	return runOutcome{Output: out.String(), Duration: duration}, fmt.Errorf("run %s: %w", spec.Command, err)
}

// parseTimeout parses a strategy's Common.Timeout field, falling back to
// def when empty or unparsable.
func parseTimeout(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
