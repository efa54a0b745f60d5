package runtime

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// ReconnectPolicy bounds how a dropped session is re-established.
type ReconnectPolicy struct {
	// MaxAttempts <= 0 retries until the context ends.
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// DefaultReconnectPolicy returns the policy used when none is configured. Attempts are
// unbounded; the context passed to the run is what stops them.
func DefaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts:  0,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2,
		MaxDelay:     10 * time.Second,
		Jitter:       true,
	}
}

// Delay returns the wait before attempt n (1-based).
func (p ReconnectPolicy) Delay(attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 || p.InitialDelay <= 0 {
		return max(p.InitialDelay, 0)
	}
	mult := p.Multiplier
	if mult < 1.0 {
		mult = 1.0
	}
	delay := float64(p.InitialDelay) * math.Pow(mult, float64(attempt-1))
	if p.MaxDelay > 0 && delay > float64(p.MaxDelay) {
		delay = float64(p.MaxDelay)
	}
	if p.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay *= f
	}
	return time.Duration(delay)
}

func (p ReconnectPolicy) allows(attempt int) bool {
	return p.MaxAttempts <= 0 || attempt <= p.MaxAttempts
}

// ConnectionMonitor makes sure the session is usable right before a submission.
type ConnectionMonitor struct {
	client ports.LedgerClient
	policy ReconnectPolicy
	env    Env
	logger *slog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewConnectionMonitor creates a monitor for client.
func NewConnectionMonitor(client ports.LedgerClient, policy ReconnectPolicy, env Env) *ConnectionMonitor {
	return &ConnectionMonitor{
		client: client,
		policy: policy,
		env:    env,
		logger: env.logger(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// EnsureConnection pings an open session and reconnects a closed or unresponsive one.
// Failures are logged and reported through hooks; the following call surfaces them.
func (m *ConnectionMonitor) EnsureConnection(ctx context.Context) {
	if m.client.IsConnected() {
		_, err := m.client.Request(ctx, domain.PingRequest())
		if err == nil {
			return
		}
		m.logger.Warn("ping failed, reconnecting", "error", err)
	}
	m.reconnect(ctx)
}

func (m *ConnectionMonitor) reconnect(ctx context.Context) bool {
	for attempt := 1; m.policy.allows(attempt); attempt++ {
		if ctx.Err() != nil {
			return false
		}
		_ = m.client.Disconnect(ctx)
		err := m.client.Connect(ctx)
		m.env.reconnect(ctx, attempt, err)
		if err == nil {
			m.logger.Info("reconnected", "attempt", attempt)
			return true
		}
		m.logger.Warn("reconnect failed", "attempt", attempt, "error", err)

		if !m.policy.allows(attempt + 1) {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(m.delay(attempt + 1)):
		}
	}
	m.logger.Error("giving up on reconnect", "max_attempts", m.policy.MaxAttempts)
	return false
}

func (m *ConnectionMonitor) delay(attempt int) time.Duration {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return m.policy.Delay(attempt, m.rng)
}

// ResilientClient heals the session and retries read requests that failed with
// domain.ErrTransientNetwork. Submissions pass through untouched.
type ResilientClient struct {
	ports.LedgerClient
	monitor *ConnectionMonitor
	policy  ReconnectPolicy
}

var _ ports.LedgerClient = (*ResilientClient)(nil)

// NewResilientClient wraps inner with read retries governed by policy.
func NewResilientClient(inner ports.LedgerClient, policy ReconnectPolicy, env Env) *ResilientClient {
	return &ResilientClient{
		LedgerClient: inner,
		monitor:      NewConnectionMonitor(inner, policy, env),
		policy:       policy,
	}
}

// Request retries transient failures after reconnecting.
func (c *ResilientClient) Request(ctx context.Context, req domain.Request) (domain.Response, error) {
	var resp domain.Response
	err := c.retry(ctx, func() error {
		var err error
		resp, err = c.LedgerClient.Request(ctx, req)
		return err
	})
	return resp, err
}

// Autofill retries transient failures after reconnecting. Filling only reads.
func (c *ResilientClient) Autofill(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	out := tx
	err := c.retry(ctx, func() error {
		var err error
		out, err = c.LedgerClient.Autofill(ctx, tx)
		return err
	})
	return out, err
}

func (c *ResilientClient) retry(ctx context.Context, op func() error) error {
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !errors.Is(err, domain.ErrTransientNetwork) {
			return err
		}
		if !c.policy.allows(attempt+1) || ctx.Err() != nil {
			return err
		}
		c.monitor.reconnect(ctx)
	}
}
