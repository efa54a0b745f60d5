package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tokenforge/pkg/domain"
)

// LoggingHooks logs every lifecycle event at debug level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("step_enter", "run_id", e.RunID, "step", e.Step)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.Debug("step_leave", "run_id", e.RunID, "step", e.Step, "status", e.Status)
		},
		OnSubmit: func(ctx context.Context, e *domain.TxEvent) {
			logger.Debug("tx_submit", "run_id", e.RunID, "account", e.Account, "tx_type", e.TxType)
		},
		OnResult: func(ctx context.Context, e *domain.TxEvent) {
			logger.Debug("tx_result",
				"run_id", e.RunID,
				"account", e.Account,
				"tx_type", e.TxType,
				"engine_result", e.Code,
				"duration", e.Duration,
				"error", e.Err,
			)
		},
		OnReconnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			logger.Debug("reconnect", "run_id", e.RunID, "attempt", e.Attempt, "error", e.Err)
		},
	}
}
