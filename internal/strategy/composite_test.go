package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agent-foreman/foreman/internal/models"
)

func TestCompositeExecutor_AndShortCircuitsOnFirstFailure(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(models.StrategyManual, &countingExecutor{calls: &calls, result: ExecResult{Success: false}})

	exec := &compositeExecutor{registry: r}
	result, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{
		Kind: models.StrategyComposite,
		Composite: &models.CompositeStrategy{
			Operator: models.OperatorAnd,
			Children: []models.VerificationStrategy{
				{Kind: models.StrategyManual},
				{Kind: models.StrategyManual},
			},
		},
	})
	require.NoError(t, err)
	require.False(t, result.Success)
	require.Equal(t, 1, calls)
}

func TestCompositeExecutor_OrShortCircuitsOnFirstSuccess(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(models.StrategyManual, &countingExecutor{calls: &calls, result: ExecResult{Success: true}})

	exec := &compositeExecutor{registry: r}
	result, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{
		Kind: models.StrategyComposite,
		Composite: &models.CompositeStrategy{
			Operator: models.OperatorOr,
			Children: []models.VerificationStrategy{
				{Kind: models.StrategyManual},
				{Kind: models.StrategyManual},
			},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Equal(t, 1, calls)
}

func TestCompositeExecutor_LogicAliasAcceptedForOperator(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Register(models.StrategyManual, &countingExecutor{calls: &calls, result: ExecResult{Success: true}})

	exec := &compositeExecutor{registry: r}
	result, err := exec.Execute(context.Background(), ExecContext{}, models.VerificationStrategy{
		Kind: models.StrategyComposite,
		Composite: &models.CompositeStrategy{
			Logic:    models.OperatorAnd,
			Children: []models.VerificationStrategy{{Kind: models.StrategyManual}},
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
}

type countingExecutor struct {
	calls  *int
	result ExecResult
}

func (c *countingExecutor) Execute(context.Context, ExecContext, models.VerificationStrategy) (ExecResult, error) {
	*c.calls++
	return c.result, nil
}
