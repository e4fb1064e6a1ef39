package strategy

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/agent-foreman/foreman/internal/models"
)

// fileExecutor asserts a path's existence/non-existence, optional content
// regex, and optional size range.
type fileExecutor struct{}

func (e *fileExecutor) Execute(_ context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	if strat.File == nil {
		return ExecResult{}, fmt.Errorf("file strategy missing its payload")
	}
	f := strat.File

	target, err := resolveUnderRoot(ec.ProjectRoot, f.Path)
	if err != nil {
		return ExecResult{}, err
	}

	info, statErr := os.Stat(target)
	exists := statErr == nil
	if !exists && !os.IsNotExist(statErr) {
		return ExecResult{}, fmt.Errorf("stat %q: %w", f.Path, statErr)
	}

	if exists != f.WantExists() {
		return ExecResult{Success: false, Details: fmt.Sprintf("expected exists=%v, got %v", f.WantExists(), exists)}, nil
	}
	if !exists {
		return ExecResult{Success: true}, nil
	}

	if f.MinSize != nil && info.Size() < *f.MinSize {
		return ExecResult{Success: false, Details: fmt.Sprintf("size %d below minSize %d", info.Size(), *f.MinSize)}, nil
	}
	if f.MaxSize != nil && info.Size() > *f.MaxSize {
		return ExecResult{Success: false, Details: fmt.Sprintf("size %d above maxSize %d", info.Size(), *f.MaxSize)}, nil
	}

	if f.ContentMatch != "" {
		re, err := regexp.Compile(f.ContentMatch)
		if err != nil {
			return ExecResult{}, fmt.Errorf("compile contentMatch: %w", err)
		}
		data, err := os.ReadFile(target)
		if err != nil {
			return ExecResult{}, fmt.Errorf("read %q: %w", f.Path, err)
		}
		if !re.Match(data) {
			return ExecResult{Success: false, Details: "content did not match contentMatch"}, nil
		}
	}

	return ExecResult{Success: true}, nil
}
