package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tokenforge/internal/runtime"
	"github.com/aretw0/tokenforge/pkg/adapters/memory"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_SubmitApplies(t *testing.T) {
	f := newFixture(t)
	_, pipeline := f.components()

	res, err := pipeline.Submit(context.Background(), domain.NewSetFlag(f.issuer.Address(), domain.FlagDefaultRipple), f.issuer)
	require.NoError(t, err)
	assert.True(t, res.Applied())
	assert.True(t, res.Validated)
	assert.NotEmpty(t, res.Hash)

	journal := f.ledger.Journal()
	require.Len(t, journal, 1)
	assert.True(t, journal[0].Filled())
}

func TestPipeline_RejectionIsNotAnError(t *testing.T) {
	f := newFixture(t)
	_, pipeline := f.components()

	res, err := pipeline.Submit(context.Background(), domain.NewSetFlag(f.issuer.Address(), domain.FlagDisableMaster), f.issuer)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultNoAlternativeKey, res.Code)
	assert.False(t, res.Applied())
}

func TestPipeline_InvalidTransactionNeverReachesLedger(t *testing.T) {
	f := newFixture(t)
	_, pipeline := f.components()
	ctx := context.Background()

	_, err := pipeline.Submit(ctx, domain.Transaction{TransactionType: domain.TxAccountSet, Account: f.issuer.Address()}, f.issuer)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	_, err = pipeline.Submit(ctx, domain.NewSetFlag(f.issuer.Address(), domain.FlagDefaultRipple), f.receiver)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	assert.Empty(t, f.ledger.Journal())
}

func TestPipeline_TimeoutIsReturnedAndNotRetried(t *testing.T) {
	f := newFixture(t)
	_, pipeline := f.components()
	f.ledger.ErrorNext(domain.TxPayment, domain.ErrSubmitTimeout)

	_, err := pipeline.Submit(context.Background(), domain.NewPayment(f.issuer.Address(), f.receiver.Address(), "USD", "1"), f.issuer)
	assert.ErrorIs(t, err, domain.ErrSubmitTimeout)
	assert.Equal(t, 1, f.ledger.Count(domain.TxPayment))
}

func TestPipeline_HealsDroppedSessionBeforeSubmit(t *testing.T) {
	f := newFixture(t)
	env := runtime.Env{}
	monitor := runtime.NewConnectionMonitor(f.ledger, fastPolicy, env)
	reads := runtime.NewResilientClient(f.ledger, fastPolicy, env)
	pipeline := runtime.NewTransactionPipeline(reads, monitor, nil, env)
	f.ledger.DropConnection()

	res, err := pipeline.Submit(context.Background(), domain.NewSetFlag(f.issuer.Address(), domain.FlagDefaultRipple), f.issuer)
	require.NoError(t, err)
	assert.True(t, res.Applied())
}

func TestPipeline_PingsBeforeEverySubmission(t *testing.T) {
	f := newFixture(t)
	_, pipeline := f.components()
	ctx := context.Background()

	flags := []domain.AccountFlag{domain.FlagDefaultRipple, domain.FlagRequireDest, domain.FlagDepositAuth}
	for _, flag := range flags {
		_, err := pipeline.Submit(ctx, domain.NewSetFlag(f.issuer.Address(), flag), f.issuer)
		require.NoError(t, err)
	}

	assert.Equal(t, len(flags), f.ledger.Pings())
	assert.Equal(t, 1, f.ledger.Connects(), "a live session is not reopened")
}

// dropAfterFill loses the session between filling and submitting, and records
// whether the session was open when the submission arrived.
type dropAfterFill struct {
	*memory.Ledger
	connectedAtSubmit []bool
}

func (d *dropAfterFill) Autofill(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	out, err := d.Ledger.Autofill(ctx, tx)
	d.Ledger.DropConnection()
	return out, err
}

func (d *dropAfterFill) SubmitAndWait(ctx context.Context, signed domain.SignedTransaction) (domain.SubmitResult, error) {
	d.connectedAtSubmit = append(d.connectedAtSubmit, d.Ledger.IsConnected())
	return d.Ledger.SubmitAndWait(ctx, signed)
}

func TestPipeline_ReconnectsSessionLostAfterFill(t *testing.T) {
	f := newFixture(t)
	client := &dropAfterFill{Ledger: f.ledger}
	env := runtime.Env{}
	pipeline := runtime.NewTransactionPipeline(client, runtime.NewConnectionMonitor(client, fastPolicy, env), nil, env)

	res, err := pipeline.Submit(context.Background(), domain.NewSetFlag(f.issuer.Address(), domain.FlagDefaultRipple), f.issuer)
	require.NoError(t, err)
	assert.True(t, res.Applied())
	assert.Equal(t, []bool{true}, client.connectedAtSubmit)
	assert.Equal(t, 2, f.ledger.Connects())
}

func TestPipeline_FiresSubmitAndResultHooks(t *testing.T) {
	f := newFixture(t)
	var events []domain.TxEvent
	env := runtime.Env{RunID: "run-1", Hooks: domain.LifecycleHooks{
		OnSubmit: func(ctx context.Context, e *domain.TxEvent) { events = append(events, *e) },
		OnResult: func(ctx context.Context, e *domain.TxEvent) { events = append(events, *e) },
	}}
	monitor := runtime.NewConnectionMonitor(f.ledger, fastPolicy, env)
	pipeline := runtime.NewTransactionPipeline(f.ledger, monitor, nil, env)

	_, err := pipeline.Submit(context.Background(), domain.NewSetFlag(f.issuer.Address(), domain.FlagDefaultRipple), f.issuer)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, domain.EventSubmit, events[0].Type)
	assert.Equal(t, domain.EventResult, events[1].Type)
	assert.Equal(t, domain.ResultSuccess, events[1].Code)
	assert.Equal(t, "run-1", events[1].RunID)
	assert.Equal(t, domain.TxAccountSet, events[1].TxType)
}
