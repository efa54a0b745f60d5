package tokenforge

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/aretw0/tokenforge/internal/runtime"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/aretw0/tokenforge/pkg/session"
)

// Plan describes one provisioning run.
type Plan = runtime.Plan

// ReconnectPolicy bounds session recovery.
type ReconnectPolicy = runtime.ReconnectPolicy

// AccountStatus is the read-only summary returned by Check.
type AccountStatus = runtime.AccountStatus

// Engine is the high-level entry point of the library.
// It wires the workflow around a ledger client and keeps one lock manager across runs.
type Engine struct {
	client ports.LedgerClient
	locks  *session.Manager

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	policy ReconnectPolicy
	locker ports.DistributedLocker
	ttl    time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithReconnectPolicy overrides the default reconnect policy.
func WithReconnectPolicy(p ReconnectPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithLocker serializes submissions per account across processes.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL bounds how long a distributed account lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.ttl = ttl
	}
}

// New creates an Engine for client.
func New(client ports.LedgerClient, opts ...Option) *Engine {
	eng := &Engine{
		client: client,
		logger: logging.NewNop(),
		policy: runtime.DefaultReconnectPolicy(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	if eng.ttl > 0 {
		sessionOpts = append(sessionOpts, session.WithLockTTL(eng.ttl))
	}
	eng.locks = session.NewManager(sessionOpts...)
	return eng
}

func (e *Engine) orchestrator() *runtime.Orchestrator {
	return runtime.NewOrchestrator(e.client,
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithReconnectPolicy(e.policy),
		runtime.WithLockManager(e.locks),
	)
}

// Run executes plan and returns the step-by-step report. Each run gets its own id.
func (e *Engine) Run(ctx context.Context, plan Plan) (domain.Report, error) {
	return e.orchestrator().Run(ctx, plan)
}

// Check reports the state of address without submitting anything. When currency and
// issuer are set, the matching trust line is included.
func (e *Engine) Check(ctx context.Context, address, currency, issuer string) (AccountStatus, error) {
	if currency != "" {
		normalized, err := domain.NormalizeCurrency(currency)
		if err != nil {
			return AccountStatus{Address: address}, err
		}
		currency = normalized
	}
	o := e.orchestrator()
	o.Monitor().EnsureConnection(ctx)
	return o.Checker().Inspect(ctx, address, currency, issuer)
}
