package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// FlagManager applies account flags one transaction at a time.
type FlagManager struct {
	pipeline *TransactionPipeline
	logger   *slog.Logger
}

// NewFlagManager creates a manager.
func NewFlagManager(pipeline *TransactionPipeline, env Env) *FlagManager {
	return &FlagManager{pipeline: pipeline, logger: env.logger()}
}

// SetAccountFlags submits one AccountSet per set flag, in order, then one per clear flag.
// It stops at the first hard failure and returns the results gathered so far; engine
// rejections are recorded and do not stop the sequence.
func (m *FlagManager) SetAccountFlags(ctx context.Context, wallet ports.Wallet, set, clear []domain.AccountFlag) ([]domain.SubmitResult, error) {
	results := make([]domain.SubmitResult, 0, len(set)+len(clear))

	for _, f := range set {
		m.logger.Debug("setting flag", "account", wallet.Address(), "flag", f)
		res, err := m.pipeline.Submit(ctx, domain.NewSetFlag(wallet.Address(), f), wallet)
		if err != nil {
			return results, fmt.Errorf("set %s: %w", f, err)
		}
		results = append(results, res)
	}
	for _, f := range clear {
		m.logger.Debug("clearing flag", "account", wallet.Address(), "flag", f)
		res, err := m.pipeline.Submit(ctx, domain.NewClearFlag(wallet.Address(), f), wallet)
		if err != nil {
			return results, fmt.Errorf("clear %s: %w", f, err)
		}
		results = append(results, res)
	}
	return results, nil
}
