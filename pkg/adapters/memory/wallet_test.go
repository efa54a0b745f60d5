package memory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tokenforge/pkg/adapters/memory"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletFactory_Deterministic(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewWalletFactory()

	w, secret, err := factory.Generate(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(secret, "s"))
	assert.True(t, strings.HasPrefix(w.Address(), "r"))

	again, err := factory.FromSecret(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), again.Address())

	_, err = factory.FromSecret(ctx, "not-a-seed")
	assert.Error(t, err)
}

func TestWallet_SignRequiresFilledOwnTransaction(t *testing.T) {
	ctx := context.Background()
	w, _, err := memory.NewWalletFactory().Generate(ctx)
	require.NoError(t, err)

	_, err = w.Sign(ctx, domain.NewSetFlag(w.Address(), domain.FlagDefaultRipple))
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)

	tx := domain.NewSetFlag("rSomeoneElse", domain.FlagDefaultRipple)
	tx.Sequence, tx.Fee, tx.LastLedgerSequence = 1, "12", 20
	_, err = w.Sign(ctx, tx)
	assert.ErrorIs(t, err, domain.ErrInvalidTransaction)
}

func TestWalletFactory_WithFunding(t *testing.T) {
	ledger := memory.NewLedger()
	factory := memory.NewWalletFactory(memory.WithFunding(ledger, 50))

	w, _, err := factory.Generate(context.Background())
	require.NoError(t, err)

	acct, ok := ledger.Account(w.Address())
	require.True(t, ok)
	assert.Equal(t, "50", acct.Balance)
}
