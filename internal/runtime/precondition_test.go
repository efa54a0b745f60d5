package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tokenforge/internal/runtime"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient answers Request from a queue of canned responses.
type scriptedClient struct {
	ports.LedgerClient
	responses []domain.Response
	err       error
	requests  []domain.Request
}

func (c *scriptedClient) Request(ctx context.Context, req domain.Request) (domain.Response, error) {
	params := make(map[string]any, len(req.Params))
	for k, v := range req.Params {
		params[k] = v
	}
	c.requests = append(c.requests, domain.Request{Command: req.Command, Params: params})
	if c.err != nil {
		return nil, c.err
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func TestPreconditionChecker_IsAccountActivated(t *testing.T) {
	f := newFixture(t)
	checker, _ := f.components()
	ctx := context.Background()

	ok, err := checker.IsAccountActivated(ctx, f.issuer.Address())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.IsAccountActivated(ctx, unfundedWallet(t).Address())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreconditionChecker_PropagatesOtherFailures(t *testing.T) {
	boom := errors.New("boom")
	checker := runtime.NewPreconditionChecker(&scriptedClient{err: boom}, runtime.Env{})

	ok, err := checker.IsAccountActivated(context.Background(), "rIssuer")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestPreconditionChecker_KeyState(t *testing.T) {
	f := newFixture(t)
	checker, _ := f.components()
	ctx := context.Background()
	addr := f.issuer.Address()

	bh, err := checker.IsRegularKeySetToBlackHole(ctx, addr)
	require.NoError(t, err)
	assert.False(t, bh)

	f.ledger.ForceRegularKey(addr, domain.BlackHoleAddress)
	f.ledger.ForceSetFlag(addr, domain.FlagDisableMaster)

	bh, err = checker.IsRegularKeySetToBlackHole(ctx, addr)
	require.NoError(t, err)
	assert.True(t, bh)

	disabled, err := checker.IsMasterKeyDisabled(ctx, addr)
	require.NoError(t, err)
	assert.True(t, disabled)
}

func TestPreconditionChecker_TrustLineMatchesIssuer(t *testing.T) {
	client := &scriptedClient{responses: []domain.Response{
		{"lines": []any{
			map[string]any{"account": "rOtherIssuer", "currency": "USD", "balance": "5", "limit": "10", "limit_peer": "0"},
		}},
		{"lines": []any{
			map[string]any{"account": "rOtherIssuer", "currency": "USD", "balance": "5", "limit": "10", "limit_peer": "0"},
		}},
	}}
	checker := runtime.NewPreconditionChecker(client, runtime.Env{})
	ctx := context.Background()

	ok, err := checker.TrustLineExists(ctx, "rHolder", "USD", "rIssuer")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = checker.TrustLineExists(ctx, "rHolder", "USD", "rOtherIssuer")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPreconditionChecker_TrustLinesFollowsMarker(t *testing.T) {
	client := &scriptedClient{responses: []domain.Response{
		{"lines": []any{map[string]any{"account": "rA", "currency": "AAA", "balance": "0", "limit": "1"}}, "marker": "page-2"},
		{"lines": []any{map[string]any{"account": "rIssuer", "currency": "USD", "balance": "42.5", "limit": "100"}}},
	}}
	checker := runtime.NewPreconditionChecker(client, runtime.Env{})

	bal, err := checker.TrustLineBalance(context.Background(), "rHolder", "USD", "rIssuer")
	require.NoError(t, err)
	assert.Equal(t, "42.5", bal.String())

	require.Len(t, client.requests, 2)
	assert.Nil(t, client.requests[0].Params["marker"])
	assert.Equal(t, "page-2", client.requests[1].Params["marker"])
	assert.Equal(t, domain.LedgerIndexValidated, client.requests[1].Params["ledger_index"])
}

func TestPreconditionChecker_Inspect(t *testing.T) {
	f := newFixture(t)
	checker, pipeline := f.components()
	ctx := context.Background()

	st, err := checker.Inspect(ctx, unfundedWallet(t).Address(), "", "")
	require.NoError(t, err)
	assert.False(t, st.Activated)

	_, err = pipeline.Submit(ctx, domain.NewTrustSet(f.receiver.Address(), "USD", f.issuer.Address(), "10"), f.receiver)
	require.NoError(t, err)

	st, err = checker.Inspect(ctx, f.receiver.Address(), "USD", f.issuer.Address())
	require.NoError(t, err)
	assert.True(t, st.Activated)
	assert.False(t, st.BlackHoled)
	require.NotNil(t, st.Line)
	assert.Equal(t, "10", st.Line.Limit)
}
