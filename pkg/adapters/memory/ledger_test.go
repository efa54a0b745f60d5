package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/tokenforge/pkg/adapters/memory"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*memory.Ledger, ports.Wallet, ports.Wallet) {
	t.Helper()
	ledger := memory.NewLedger()
	require.NoError(t, ledger.Connect(context.Background()))

	factory := memory.NewWalletFactory(memory.WithFunding(ledger, 100_000_000))
	issuer, _, err := factory.Generate(context.Background())
	require.NoError(t, err)
	receiver, _, err := factory.Generate(context.Background())
	require.NoError(t, err)
	return ledger, issuer, receiver
}

func submit(t *testing.T, ledger *memory.Ledger, w ports.Wallet, tx domain.Transaction) domain.SubmitResult {
	t.Helper()
	ctx := context.Background()
	filled, err := ledger.Autofill(ctx, tx)
	require.NoError(t, err)
	signed, err := w.Sign(ctx, filled)
	require.NoError(t, err)
	res, err := ledger.SubmitAndWait(ctx, signed)
	require.NoError(t, err)
	return res
}

func TestLedger_AccountInfo(t *testing.T) {
	ledger, issuer, _ := setup(t)
	ctx := context.Background()

	resp, err := ledger.Request(ctx, domain.AccountInfoRequest(issuer.Address()))
	require.NoError(t, err)
	data, ok := resp["account_data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, issuer.Address(), data["Account"])
	assert.Equal(t, "100000000", data["Balance"])

	_, err = ledger.Request(ctx, domain.AccountInfoRequest("rUnfundedAccount"))
	assert.True(t, domain.IsRPCError(err, domain.ErrorActNotFound))
}

func TestLedger_RequestWhenDisconnected(t *testing.T) {
	ledger, issuer, _ := setup(t)
	ledger.DropConnection()

	_, err := ledger.Request(context.Background(), domain.AccountInfoRequest(issuer.Address()))
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.False(t, ledger.IsConnected())
}

func TestLedger_SubmitWhenDisconnected(t *testing.T) {
	ledger, issuer, _ := setup(t)
	ctx := context.Background()
	tx, err := ledger.Autofill(ctx, domain.NewSetFlag(issuer.Address(), domain.FlagDefaultRipple))
	require.NoError(t, err)
	signed, err := issuer.Sign(ctx, tx)
	require.NoError(t, err)

	ledger.DropConnection()
	_, err = ledger.SubmitAndWait(ctx, signed)
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.Empty(t, ledger.Journal())
}

func TestLedger_IssuanceFlow(t *testing.T) {
	ledger, issuer, receiver := setup(t)

	// 1. Payment without a line fails
	res := submit(t, ledger, issuer, domain.NewPayment(issuer.Address(), receiver.Address(), "USD", "10"))
	assert.Equal(t, domain.ResultNoLine, res.Code)

	// 2. Trust line
	res = submit(t, ledger, receiver, domain.NewTrustSet(receiver.Address(), "USD", issuer.Address(), "100"))
	assert.True(t, res.Applied())
	assert.True(t, res.Validated)

	// 3. Issue within the limit
	res = submit(t, ledger, issuer, domain.NewPayment(issuer.Address(), receiver.Address(), "USD", "60"))
	assert.True(t, res.Applied())

	// 4. Exceeding the limit is partial
	res = submit(t, ledger, issuer, domain.NewPayment(issuer.Address(), receiver.Address(), "USD", "60"))
	assert.Equal(t, domain.ResultPathPartial, res.Code)

	resp, err := ledger.Request(context.Background(), domain.AccountLinesRequest(receiver.Address()))
	require.NoError(t, err)
	lines := resp["lines"].([]any)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, issuer.Address(), line["account"])
	assert.Equal(t, "60", line["balance"])
	assert.Equal(t, "100", line["limit"])

	assert.Equal(t, 4, len(ledger.Journal()))
	assert.Equal(t, 3, ledger.Count(domain.TxPayment))
}

func TestLedger_SequenceConsumedOnClaimedResults(t *testing.T) {
	ledger, issuer, receiver := setup(t)
	before, _ := ledger.Account(issuer.Address())

	res := submit(t, ledger, issuer, domain.NewPayment(issuer.Address(), receiver.Address(), "USD", "1"))
	assert.Equal(t, "tec", res.Code.Class())

	after, _ := ledger.Account(issuer.Address())
	assert.Equal(t, before.Sequence+1, after.Sequence)
	assert.Equal(t, "99999988", after.Balance)
}

func TestLedger_StaleSignedTransaction(t *testing.T) {
	ledger, _, receiver := setup(t)
	ctx := context.Background()

	tx, err := ledger.Autofill(ctx, domain.NewSetFlag(receiver.Address(), domain.FlagRequireDest))
	require.NoError(t, err)
	signed, err := receiver.Sign(ctx, tx)
	require.NoError(t, err)

	res, err := ledger.SubmitAndWait(ctx, signed)
	require.NoError(t, err)
	assert.True(t, res.Applied())

	// Resubmitting the same blob reuses a consumed sequence.
	res, err = ledger.SubmitAndWait(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, domain.ResultPastSeq, res.Code)
}

func TestLedger_MasterKeyRules(t *testing.T) {
	ledger, issuer, _ := setup(t)

	res := submit(t, ledger, issuer, domain.NewSetFlag(issuer.Address(), domain.FlagDisableMaster))
	assert.Equal(t, domain.ResultNoAlternativeKey, res.Code)

	res = submit(t, ledger, issuer, domain.NewSetRegularKey(issuer.Address(), domain.BlackHoleAddress))
	require.True(t, res.Applied())

	res = submit(t, ledger, issuer, domain.NewSetFlag(issuer.Address(), domain.FlagDisableMaster))
	require.True(t, res.Applied())

	acct, ok := ledger.Account(issuer.Address())
	require.True(t, ok)
	assert.True(t, acct.BlackHoled())
	assert.True(t, acct.MasterDisabled())

	// Master key can no longer sign.
	res = submit(t, ledger, issuer, domain.NewSetFlag(issuer.Address(), domain.FlagDefaultRipple))
	assert.Equal(t, domain.ResultMasterDisabled, res.Code)
}

func TestLedger_AccountSetFlags(t *testing.T) {
	ledger, issuer, receiver := setup(t)

	res := submit(t, ledger, issuer, domain.NewSetFlag(issuer.Address(), domain.FlagDefaultRipple))
	require.True(t, res.Applied())
	assert.True(t, ledger.HasFlag(issuer.Address(), domain.FlagDefaultRipple))

	res = submit(t, ledger, issuer, domain.NewClearFlag(issuer.Address(), domain.FlagDefaultRipple))
	require.True(t, res.Applied())
	assert.False(t, ledger.HasFlag(issuer.Address(), domain.FlagDefaultRipple))

	// RequireAuth is refused once the account owns trust lines.
	res = submit(t, ledger, receiver, domain.NewTrustSet(receiver.Address(), "USD", issuer.Address(), "5"))
	require.True(t, res.Applied())
	res = submit(t, ledger, issuer, domain.NewSetFlag(issuer.Address(), domain.FlagRequireAuth))
	assert.Equal(t, domain.EngineResult("tecOWNERS"), res.Code)
}

func TestLedger_InjectedFailures(t *testing.T) {
	ledger, issuer, receiver := setup(t)

	ledger.FailNext(domain.TxTrustSet, "tecINSUF_RESERVE_LINE")
	res := submit(t, ledger, receiver, domain.NewTrustSet(receiver.Address(), "USD", issuer.Address(), "5"))
	assert.Equal(t, domain.EngineResult("tecINSUF_RESERVE_LINE"), res.Code)

	ledger.ErrorNext(domain.TxTrustSet, domain.ErrSubmitTimeout)
	ctx := context.Background()
	tx, err := ledger.Autofill(ctx, domain.NewTrustSet(receiver.Address(), "USD", issuer.Address(), "5"))
	require.NoError(t, err)
	signed, err := receiver.Sign(ctx, tx)
	require.NoError(t, err)
	_, err = ledger.SubmitAndWait(ctx, signed)
	assert.ErrorIs(t, err, domain.ErrSubmitTimeout)
}

func TestLedger_FailedConnectsAndPings(t *testing.T) {
	ledger := memory.NewLedger()
	ctx := context.Background()

	ledger.FailConnects(1)
	assert.ErrorIs(t, ledger.Connect(ctx), domain.ErrTransientNetwork)
	require.NoError(t, ledger.Connect(ctx))

	ledger.FailPings(1)
	_, err := ledger.Request(ctx, domain.PingRequest())
	assert.ErrorIs(t, err, domain.ErrTransientNetwork)
	assert.False(t, ledger.IsConnected())
	assert.Equal(t, 2, ledger.Connects())
	assert.Equal(t, 1, ledger.Pings())
}
