package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/tokenforge/internal/config"
	"github.com/aretw0/tokenforge/pkg/adapters/jsonrpc"
	"github.com/aretw0/tokenforge/pkg/adapters/memory"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// SimulatedFunding is what every simulated wallet starts with, in drops.
const SimulatedFunding int64 = 100_000_000

// ledgerBackend pairs a ledger client with the wallet factory that signs for it.
type ledgerBackend struct {
	client  ports.LedgerClient
	wallets ports.WalletFactory
	ready   func() error
}

// checkWallets fails before any seed is read when the backend cannot sign.
func (b ledgerBackend) checkWallets() error {
	if b.ready == nil {
		return nil
	}
	if err := b.ready(); err != nil {
		return fmt.Errorf("%w; point --url at a local admin node or use --simulate", err)
	}
	return nil
}

// newBackend returns the in-memory ledger when simulate is set, the JSON-RPC node otherwise.
func newBackend(cfg config.Config, simulate bool, logger *slog.Logger) ledgerBackend {
	if simulate {
		ledger := memory.NewLedger()
		return ledgerBackend{
			client:  ledger,
			wallets: memory.NewWalletFactory(memory.WithFunding(ledger, SimulatedFunding)),
		}
	}
	client := jsonrpc.New(cfg.Network.URL,
		jsonrpc.WithHTTPClient(&http.Client{Timeout: cfg.Network.Timeout}),
		jsonrpc.WithLogger(logger),
		jsonrpc.WithPollInterval(cfg.Network.PollInterval),
		jsonrpc.WithLedgerOffset(cfg.Network.LedgerOffset),
	)
	wallets := jsonrpc.NewWalletFactory(client)
	return ledgerBackend{client: client, wallets: wallets, ready: wallets.Available}
}
