package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tokenforge/internal/runtime"
	"github.com/aretw0/tokenforge/pkg/adapters/memory"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/stretchr/testify/require"
)

const funding = 100_000_000

// fastPolicy keeps reconnect tests quick.
var fastPolicy = runtime.ReconnectPolicy{
	MaxAttempts:  3,
	InitialDelay: time.Millisecond,
	Multiplier:   2,
	MaxDelay:     5 * time.Millisecond,
}

type fixture struct {
	ledger   *memory.Ledger
	issuer   ports.Wallet
	receiver ports.Wallet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := memory.NewLedger()
	require.NoError(t, ledger.Connect(context.Background()))

	factory := memory.NewWalletFactory(memory.WithFunding(ledger, funding))
	issuer, _, err := factory.Generate(context.Background())
	require.NoError(t, err)
	receiver, _, err := factory.Generate(context.Background())
	require.NoError(t, err)
	return &fixture{ledger: ledger, issuer: issuer, receiver: receiver}
}

// unfundedWallet returns a wallet that does not exist on the ledger.
func unfundedWallet(t *testing.T) ports.Wallet {
	t.Helper()
	w, _, err := memory.NewWalletFactory().Generate(context.Background())
	require.NoError(t, err)
	return w
}

func (f *fixture) plan() runtime.Plan {
	return runtime.Plan{
		Issuer:   f.issuer,
		Receiver: f.receiver,
		Currency: "USD",
		Amount:   "1000",
	}
}

func (f *fixture) orchestrator(opts ...runtime.Option) *runtime.Orchestrator {
	opts = append([]runtime.Option{runtime.WithReconnectPolicy(fastPolicy)}, opts...)
	return runtime.NewOrchestrator(f.ledger, opts...)
}

func (f *fixture) components() (*runtime.PreconditionChecker, *runtime.TransactionPipeline) {
	env := runtime.Env{}
	monitor := runtime.NewConnectionMonitor(f.ledger, fastPolicy, env)
	return runtime.NewPreconditionChecker(f.ledger, env), runtime.NewTransactionPipeline(f.ledger, monitor, nil, env)
}

// accountSets returns the SetFlag/ClearFlag pairs of every AccountSet in the journal.
func accountSets(ledger *memory.Ledger) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range ledger.Journal() {
		if tx.TransactionType == domain.TxAccountSet {
			out = append(out, tx)
		}
	}
	return out
}
