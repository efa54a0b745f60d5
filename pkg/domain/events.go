package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventStepLeave EventType = "step_leave"
	EventSubmit    EventType = "tx_submit"
	EventResult    EventType = "tx_result"
	EventReconnect EventType = "reconnect"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
}

// StepEvent represents entry or exit from a workflow step.
type StepEvent struct {
	EventBase
	Step   string     `json:"step"`
	Status StepStatus `json:"status,omitempty"`
}

// TxEvent represents a submission and, for EventResult, its outcome.
type TxEvent struct {
	EventBase
	Account  string          `json:"account"`
	TxType   TransactionType `json:"tx_type"`
	Code     EngineResult    `json:"engine_result,omitempty"`
	Duration time.Duration   `json:"duration,omitempty"`
	Err      error           `json:"-"`
}

// ConnectionEvent reports a reconnect attempt.
type ConnectionEvent struct {
	EventBase
	Attempt int   `json:"attempt"`
	Err     error `json:"-"`
}

// LifecycleHooks defines callbacks for workflow observability. Nil hooks are skipped.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnSubmit    func(context.Context, *TxEvent)
	OnResult    func(context.Context, *TxEvent)
	OnReconnect func(context.Context, *ConnectionEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter: chain(h.OnStepEnter, other.OnStepEnter),
		OnStepLeave: chain(h.OnStepLeave, other.OnStepLeave),
		OnSubmit:    chain(h.OnSubmit, other.OnSubmit),
		OnResult:    chain(h.OnResult, other.OnResult),
		OnReconnect: chain(h.OnReconnect, other.OnReconnect),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
