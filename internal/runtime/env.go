package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/aretw0/tokenforge/pkg/domain"
)

// Env carries the ambient collaborators shared by the workflow components.
// The zero value logs nowhere and fires no hooks.
type Env struct {
	Logger *slog.Logger
	Hooks  domain.LifecycleHooks
	RunID  string
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	if e.RunID != "" {
		return e.Logger.With("run_id", e.RunID)
	}
	return e.Logger
}

func (e Env) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: e.RunID}
}

func (e Env) stepEnter(ctx context.Context, step string) {
	if e.Hooks.OnStepEnter != nil {
		e.Hooks.OnStepEnter(ctx, &domain.StepEvent{EventBase: e.base(domain.EventStepEnter), Step: step})
	}
}

func (e Env) stepLeave(ctx context.Context, step string, status domain.StepStatus) {
	if e.Hooks.OnStepLeave != nil {
		e.Hooks.OnStepLeave(ctx, &domain.StepEvent{EventBase: e.base(domain.EventStepLeave), Step: step, Status: status})
	}
}

func (e Env) submit(ctx context.Context, tx domain.Transaction) {
	if e.Hooks.OnSubmit != nil {
		e.Hooks.OnSubmit(ctx, &domain.TxEvent{EventBase: e.base(domain.EventSubmit), Account: tx.Account, TxType: tx.TransactionType})
	}
}

func (e Env) result(ctx context.Context, tx domain.Transaction, code domain.EngineResult, d time.Duration, err error) {
	if e.Hooks.OnResult != nil {
		e.Hooks.OnResult(ctx, &domain.TxEvent{
			EventBase: e.base(domain.EventResult),
			Account:   tx.Account,
			TxType:    tx.TransactionType,
			Code:      code,
			Duration:  d,
			Err:       err,
		})
	}
}

func (e Env) reconnect(ctx context.Context, attempt int, err error) {
	if e.Hooks.OnReconnect != nil {
		e.Hooks.OnReconnect(ctx, &domain.ConnectionEvent{EventBase: e.base(domain.EventReconnect), Attempt: attempt, Err: err})
	}
}
