package observability

import (
	"context"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the workflow collectors.
type Metrics struct {
	Registry *prometheus.Registry

	Steps        *prometheus.CounterVec
	Transactions *prometheus.CounterVec
	Submit       *prometheus.HistogramVec
	Reconnects   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Registry: reg,
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenforge_steps_total",
				Help: "Workflow steps by outcome",
			},
			[]string{"step", "status"},
		),
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenforge_transactions_total",
				Help: "Submitted transactions by type and engine result",
			},
			[]string{"tx_type", "engine_result"},
		),
		Submit: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tokenforge_submit_duration_seconds",
				Help:    "Time from submission to a validated outcome",
				Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"tx_type"},
		),
		Reconnects: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tokenforge_reconnects_total",
				Help: "Reconnect attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(m.Steps, m.Transactions, m.Submit, m.Reconnects)
	return m
}

// Hooks records every lifecycle event on the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.Step, string(e.Status)).Inc()
		},
		OnResult: func(ctx context.Context, e *domain.TxEvent) {
			code := string(e.Code)
			if e.Err != nil {
				code = "error"
			}
			m.Transactions.WithLabelValues(string(e.TxType), code).Inc()
			m.Submit.WithLabelValues(string(e.TxType)).Observe(e.Duration.Seconds())
		},
		OnReconnect: func(ctx context.Context, e *domain.ConnectionEvent) {
			outcome := "success"
			if e.Err != nil {
				outcome = "failure"
			}
			m.Reconnects.WithLabelValues(outcome).Inc()
		},
	}
}
