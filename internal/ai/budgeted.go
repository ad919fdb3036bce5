package ai

import (
	"context"
	"fmt"
	"log/slog"
)

// BudgetedProvider refuses calls once the daily token budget for its key is
// spent, and records usage after each successful call.
type BudgetedProvider struct {
	next   Provider
	budget BudgetChecker
	key    string
}

var _ Provider = (*BudgetedProvider)(nil)

// Budgeted wraps next with a budget guard. Usage is tracked under key, which
// is normally the provider name.
func Budgeted(next Provider, budget BudgetChecker, key string) *BudgetedProvider {
	if key == "" {
		key = next.Name()
	}
	return &BudgetedProvider{next: next, budget: budget, key: key}
}

func (p *BudgetedProvider) Name() string {
	return p.next.Name()
}

func (p *BudgetedProvider) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	ok, err := p.budget.Check(ctx, p.key)
	if err != nil {
		return CompletionResponse{}, fmt.Errorf("checking budget: %w", err)
	}
	if !ok {
		return CompletionResponse{}, fmt.Errorf("%w for %s", ErrBudgetExhausted, p.key)
	}

	resp, err := p.next.Complete(ctx, req)
	if err != nil {
		return CompletionResponse{}, err
	}

	if err := p.budget.Record(ctx, p.key, resp.TotalTokens()); err != nil {
		slog.Warn("failed to record token usage", "key", p.key, "error", err)
	}
	return resp, nil
}

func (p *BudgetedProvider) HealthCheck(ctx context.Context) error {
	return p.next.HealthCheck(ctx)
}
