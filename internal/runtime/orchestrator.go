package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/aretw0/tokenforge/pkg/session"
	"github.com/google/uuid"
)

// Step names, in run order.
const (
	StepConnect           = "connect"
	StepIssuerActivated   = "issuer-activated"
	StepIssuerFinalized   = "issuer-not-finalized"
	StepReceiverActivated = "receiver-activated"
	StepFlags             = "flags"
	StepTrustLine         = "trustline"
	StepIssue             = "issue"
	StepBlackHole         = stepBlackHole
)

// Plan is everything a run needs, collected before any transaction is sent.
type Plan struct {
	Issuer   ports.Wallet
	Receiver ports.Wallet

	// Currency, Amount and TrustLimit are normalized by Validate.
	Currency   string
	Amount     string
	TrustLimit string

	Flags     domain.FlagSelection
	BlackHole bool
}

// Validate normalizes the currency, amount and limit and checks the wallets.
func (p Plan) Validate() (Plan, error) {
	if p.Issuer == nil || p.Receiver == nil {
		return p, fmt.Errorf("plan requires an issuer and a receiver wallet")
	}
	if p.Issuer.Address() == p.Receiver.Address() {
		return p, fmt.Errorf("issuer and receiver must be different accounts")
	}
	currency, err := domain.NormalizeCurrency(p.Currency)
	if err != nil {
		return p, err
	}
	p.Currency = currency

	if p.Amount, err = domain.ParseValue(p.Amount); err != nil {
		return p, err
	}
	if p.TrustLimit == "" {
		p.TrustLimit = domain.DefaultTrustLimit
	}
	if p.TrustLimit, err = domain.ParseValue(p.TrustLimit); err != nil {
		return p, fmt.Errorf("trust limit: %w", err)
	}
	if p.Flags, err = domain.NewFlagSelection(p.Flags.Set, p.Flags.Clear); err != nil {
		return p, err
	}
	// Disabling the master key is only done by the black hole, after issuance and
	// behind its regular key check.
	if p.Flags.Contains(domain.FlagDisableMaster) {
		return p, fmt.Errorf("%w: %s cannot be set as a flag, request the black hole instead",
			domain.ErrReservedFlag, domain.FlagDisableMaster)
	}
	return p, nil
}

// State is the in-memory workflow state of one run. It is never persisted.
type State struct {
	Plan    Plan
	Step    int
	History []domain.StepRecord
	// Detail is free text the current step attaches to its record.
	Detail string
}

// Results returns every submission recorded so far.
func (s *State) Results() []domain.SubmitResult {
	var out []domain.SubmitResult
	for _, rec := range s.History {
		out = append(out, rec.Results...)
	}
	return out
}

// Step is one stage of the workflow.
//
// Pre returns nil to proceed, an error wrapping domain.ErrPreconditionSatisfied to skip,
// an error wrapping domain.ErrAlreadyFinalized to halt the run successfully, or any other
// error to fail it. Action and Post follow the same halt and fail rules.
type Step struct {
	Name   string
	Pre    func(ctx context.Context, st *State) error
	Action func(ctx context.Context, st *State) ([]domain.SubmitResult, error)
	Post   func(ctx context.Context, st *State) error
}

// Orchestrator runs the provisioning steps in order.
type Orchestrator struct {
	env    Env
	logger *slog.Logger
	policy ReconnectPolicy
	locks  *session.Manager

	monitor    *ConnectionMonitor
	checker    *PreconditionChecker
	pipeline   *TransactionPipeline
	trustlines *TrustLineManager
	flags      *FlagManager
	issuance   *IssuanceManager
	finalizer  *BlackHoleFinalizer
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.env.Logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.env.Hooks = hooks
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(o *Orchestrator) {
		o.env.RunID = id
	}
}

// WithReconnectPolicy overrides DefaultReconnectPolicy.
func WithReconnectPolicy(p ReconnectPolicy) Option {
	return func(o *Orchestrator) {
		o.policy = p
	}
}

// WithLockManager shares an account lock manager (e.g. one backed by Redis).
func WithLockManager(m *session.Manager) Option {
	return func(o *Orchestrator) {
		o.locks = m
	}
}

// NewOrchestrator wires the workflow components around client.
func NewOrchestrator(client ports.LedgerClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		env:    Env{Logger: logging.NewNop(), RunID: uuid.NewString()},
		policy: DefaultReconnectPolicy(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.locks == nil {
		o.locks = session.NewManager(session.WithLogger(o.env.Logger))
	}

	reads := NewResilientClient(client, o.policy, o.env)
	o.logger = o.env.logger()
	o.monitor = NewConnectionMonitor(client, o.policy, o.env)
	o.checker = NewPreconditionChecker(reads, o.env)
	o.pipeline = NewTransactionPipeline(reads, o.monitor, o.locks, o.env)
	o.trustlines = NewTrustLineManager(o.checker, o.pipeline, o.env)
	o.flags = NewFlagManager(o.pipeline, o.env)
	o.issuance = NewIssuanceManager(o.pipeline, o.env)
	o.finalizer = NewBlackHoleFinalizer(o.checker, o.pipeline, o.env)
	return o
}

// RunID returns the id attached to logs, hooks and the report.
func (o *Orchestrator) RunID() string { return o.env.RunID }

// Checker exposes the read-only checks (used by `tokenforge check`).
func (o *Orchestrator) Checker() *PreconditionChecker { return o.checker }

// Monitor exposes the connection monitor.
func (o *Orchestrator) Monitor() *ConnectionMonitor { return o.monitor }

// Run executes the plan. A halt (e.g. the issuer is already finalized) returns the report
// with Halted set and a nil error. The context is only checked between steps.
func (o *Orchestrator) Run(ctx context.Context, plan Plan) (domain.Report, error) {
	plan, err := plan.Validate()
	if err != nil {
		return domain.Report{RunID: o.env.RunID}, fmt.Errorf("invalid plan: %w", err)
	}

	st := &State{Plan: plan}
	report := domain.Report{RunID: o.env.RunID, Issuer: plan.Issuer.Address(), Receiver: plan.Receiver.Address()}
	o.logger.Info("run started",
		"issuer", report.Issuer,
		"receiver", report.Receiver,
		"currency", plan.Currency,
		"amount", plan.Amount,
		"blackhole", plan.BlackHole,
	)

	for i, step := range o.Steps() {
		if err := ctx.Err(); err != nil {
			report.Steps = st.History
			return report, fmt.Errorf("run interrupted before %s: %w", step.Name, err)
		}
		st.Step = i

		rec, err := o.runStep(ctx, step, st)
		st.History = append(st.History, rec)
		report.Steps = st.History

		switch rec.Status {
		case domain.StepHalted:
			report.Halted = true
			report.Reason = rec.Detail
			o.logger.Info("run halted", "step", step.Name, "reason", rec.Detail)
			return report, nil
		case domain.StepFailed:
			o.logger.Error("run failed", "step", step.Name, "error", err)
			return report, err
		}
	}

	o.logger.Info("run finished", "submitted", len(report.Submitted()))
	return report, nil
}

func (o *Orchestrator) runStep(ctx context.Context, step Step, st *State) (domain.StepRecord, error) {
	rec := domain.StepRecord{Name: step.Name, Started: time.Now()}
	st.Detail = ""
	o.env.stepEnter(ctx, step.Name)

	finish := func(status domain.StepStatus, err error) (domain.StepRecord, error) {
		rec.Status = status
		rec.Finished = time.Now()
		switch {
		case st.Detail != "":
			rec.Detail = st.Detail
		case err != nil:
			rec.Detail = err.Error()
		}
		o.env.stepLeave(ctx, step.Name, status)
		if status == domain.StepFailed {
			var rej *domain.EngineRejection
			if errors.As(err, &rej) && rej.Step == step.Name {
				return rec, err
			}
			return rec, fmt.Errorf("%s: %w", step.Name, err)
		}
		return rec, nil
	}

	// 1. Precondition
	if step.Pre != nil {
		if err := step.Pre(ctx, st); err != nil {
			switch {
			case errors.Is(err, domain.ErrPreconditionSatisfied):
				o.logger.Info("step skipped", "step", step.Name, "reason", err)
				return finish(domain.StepSkipped, err)
			case errors.Is(err, domain.ErrAlreadyFinalized):
				return finish(domain.StepHalted, err)
			default:
				return finish(domain.StepFailed, err)
			}
		}
	}

	// 2. Action
	if step.Action != nil {
		results, err := step.Action(ctx, st)
		rec.Results = results
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyFinalized) {
				return finish(domain.StepHalted, err)
			}
			return finish(domain.StepFailed, err)
		}
	}

	// 3. Postcondition
	if step.Post != nil {
		if err := step.Post(ctx, st); err != nil {
			return finish(domain.StepFailed, err)
		}
	}
	return finish(domain.StepApplied, nil)
}

// Steps returns the ordered workflow.
func (o *Orchestrator) Steps() []Step {
	return []Step{
		{
			Name: StepConnect,
			Action: func(ctx context.Context, st *State) ([]domain.SubmitResult, error) {
				o.monitor.EnsureConnection(ctx)
				return nil, nil
			},
		},
		{
			Name: StepIssuerActivated,
			Pre: func(ctx context.Context, st *State) error {
				return o.requireActivated(ctx, "issuer", st.Plan.Issuer.Address())
			},
		},
		{
			Name: StepIssuerFinalized,
			Pre: func(ctx context.Context, st *State) error {
				addr := st.Plan.Issuer.Address()
				blackHoled, err := o.checker.IsRegularKeySetToBlackHole(ctx, addr)
				if err != nil {
					return err
				}
				if blackHoled {
					st.Detail = "issuer regular key is already the black hole address"
					return fmt.Errorf("%w: %s", domain.ErrAlreadyFinalized, st.Detail)
				}
				disabled, err := o.checker.IsMasterKeyDisabled(ctx, addr)
				if err != nil {
					return err
				}
				if disabled {
					st.Detail = "issuer master key is already disabled"
					return fmt.Errorf("%w: %s", domain.ErrAlreadyFinalized, st.Detail)
				}
				return nil
			},
		},
		{
			Name: StepReceiverActivated,
			Pre: func(ctx context.Context, st *State) error {
				return o.requireActivated(ctx, "receiver", st.Plan.Receiver.Address())
			},
		},
		{
			Name: StepFlags,
			Pre: func(ctx context.Context, st *State) error {
				if st.Plan.Flags.Empty() {
					st.Detail = "no flags selected"
					return domain.ErrPreconditionSatisfied
				}
				return nil
			},
			Action: func(ctx context.Context, st *State) ([]domain.SubmitResult, error) {
				sel := st.Plan.Flags
				results, err := o.flags.SetAccountFlags(ctx, st.Plan.Issuer, sel.Set, sel.Clear)
				if err != nil {
					return results, err
				}
				return results, rejection(StepFlags, results...)
			},
		},
		{
			Name: StepTrustLine,
			Pre: func(ctx context.Context, st *State) error {
				p := st.Plan
				exists, err := o.checker.TrustLineExists(ctx, p.Receiver.Address(), p.Currency, p.Issuer.Address())
				if err != nil {
					return err
				}
				if exists {
					st.Detail = "trust line already exists"
					return domain.ErrPreconditionSatisfied
				}
				return nil
			},
			Action: func(ctx context.Context, st *State) ([]domain.SubmitResult, error) {
				p := st.Plan
				out, err := o.trustlines.SetTrustLine(ctx, p.Currency, p.Issuer.Address(), p.Receiver, p.TrustLimit)
				if err != nil || out.Result == nil {
					return nil, err
				}
				return []domain.SubmitResult{*out.Result}, rejection(StepTrustLine, *out.Result)
			},
			Post: func(ctx context.Context, st *State) error {
				p := st.Plan
				exists, err := o.checker.TrustLineExists(ctx, p.Receiver.Address(), p.Currency, p.Issuer.Address())
				if err != nil {
					return err
				}
				if !exists {
					return fmt.Errorf("%w: trust line for %s not found after TrustSet", domain.ErrPostcondition, p.Currency)
				}
				return nil
			},
		},
		{
			Name: StepIssue,
			Action: func(ctx context.Context, st *State) ([]domain.SubmitResult, error) {
				p := st.Plan
				res, err := o.issuance.IssueToken(ctx, p.Currency, p.Issuer, p.Receiver.Address(), p.Amount)
				if err != nil {
					return nil, err
				}
				return []domain.SubmitResult{res}, rejection(StepIssue, res)
			},
			Post: func(ctx context.Context, st *State) error {
				p := st.Plan
				bal, err := o.checker.TrustLineBalance(ctx, p.Receiver.Address(), p.Currency, p.Issuer.Address())
				if err != nil {
					return fmt.Errorf("%w: %v", domain.ErrPostcondition, err)
				}
				st.Detail = fmt.Sprintf("receiver balance %s %s", bal.String(), p.Currency)
				o.logger.Info("tokens issued", "receiver", p.Receiver.Address(), "balance", bal.String())
				return nil
			},
		},
		{
			Name: StepBlackHole,
			Pre: func(ctx context.Context, st *State) error {
				if !st.Plan.BlackHole {
					st.Detail = "not requested"
					return domain.ErrPreconditionSatisfied
				}
				return nil
			},
			Action: func(ctx context.Context, st *State) ([]domain.SubmitResult, error) {
				report, err := o.finalizer.BlackHoleIssuer(ctx, st.Plan.Issuer)
				if err == nil && report.AlreadyFinalized {
					st.Detail = "issuer master key was already disabled"
				}
				return report.Results(), err
			},
			Post: func(ctx context.Context, st *State) error {
				acct, err := o.checker.AccountRoot(ctx, st.Plan.Issuer.Address())
				if err != nil {
					return err
				}
				if !acct.BlackHoled() || !acct.MasterDisabled() {
					return fmt.Errorf("%w: issuer is not black-holed", domain.ErrPostcondition)
				}
				if st.Detail == "" {
					st.Detail = "issuer black-holed"
				}
				return nil
			},
		},
	}
}

func (o *Orchestrator) requireActivated(ctx context.Context, role, address string) error {
	ok, err := o.checker.IsAccountActivated(ctx, address)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s %s: %w (fund it with the base reserve and run again)", role, address, domain.ErrNotActivated)
	}
	return nil
}

// rejection returns an *domain.EngineRejection for the first non-success result.
func rejection(step string, results ...domain.SubmitResult) error {
	for _, r := range results {
		if !r.Applied() {
			return &domain.EngineRejection{Step: step, TxType: r.TxType, Code: r.Code, Hash: r.Hash}
		}
	}
	return nil
}
