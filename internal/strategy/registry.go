// Package strategy implements the verification-strategy executors: one executor per StrategyKind behind a shared, thread-safe
// registry, generalizing the teacher's package-level-singleton +
// explicit-constructor convention (store.Transact, llm.NewRunner) rather
// than an init()-registered global map, so tests can build isolated
// registries.
package strategy

import (
	"context"
	"fmt"
	"sync"

	"github.com/agent-foreman/foreman/internal/models"
)

// ExecResult is what every executor returns, matching spec.md §4.5's
// "{success, output?, duration?, details?}" contract.
type ExecResult struct {
	Success  bool
	Output   string
	Duration float64 // seconds
	Details  string
}

// Executor runs one strategy kind against a working directory.
type Executor interface {
	Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error)
}

// UnknownKindError is returned when the registry has no executor for a kind.
type UnknownKindError struct {
	Kind models.StrategyKind
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("no executor registered for strategy kind %q", e.Kind)
}

// Registry maps a strategy kind to its executor. Build one with NewRegistry
// (empty) or NewDefaultRegistry (preloaded with every built-in executor); the
// zero value has a nil map, so Register on it panics.
type Registry struct {
	mu        sync.RWMutex
	executors map[models.StrategyKind]Executor
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{executors: make(map[models.StrategyKind]Executor)}
}

// NewDefaultRegistry builds a registry preloaded with every built-in
// executor. Composite is registered last so it
// can dispatch back into the same registry for nested strategies.
func NewDefaultRegistry(deps Dependencies) *Registry {
	r := NewRegistry()
	r.Register(models.StrategyTest, &testExecutor{deps: deps})
	r.Register(models.StrategyE2E, &e2eExecutor{deps: deps})
	r.Register(models.StrategyScript, &scriptExecutor{})
	r.Register(models.StrategyHTTP, &httpExecutor{})
	r.Register(models.StrategyFile, &fileExecutor{})
	r.Register(models.StrategyCommand, &commandExecutor{})
	r.Register(models.StrategyManual, &manualExecutor{})
	r.Register(models.StrategyAI, &aiExecutor{deps: deps})
	r.Register(models.StrategyComposite, &compositeExecutor{registry: r})
	return r
}

// Register installs exec as the handler for kind; a second registration for
// the same kind overwrites the first.
func (r *Registry) Register(kind models.StrategyKind, exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[kind] = exec
}

// Get returns the executor for kind, or an *UnknownKindError.
func (r *Registry) Get(kind models.StrategyKind) (Executor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exec, ok := r.executors[kind]
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	return exec, nil
}

// Execute resolves strat.Kind and runs it.
func (r *Registry) Execute(ctx context.Context, ec ExecContext, strat models.VerificationStrategy) (ExecResult, error) {
	exec, err := r.Get(strat.Kind)
	if err != nil {
		return ExecResult{}, err
	}
	return exec.Execute(ctx, ec, strat)
}
