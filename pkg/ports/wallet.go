package ports

import (
	"context"

	"github.com/aretw0/tokenforge/pkg/domain"
)

// Wallet is an address with signing capability. Each wallet belongs to one role for the
// whole run.
type Wallet interface {
	Address() string
	// Sign produces the signed, single-use form of a filled transaction.
	Sign(ctx context.Context, tx domain.Transaction) (domain.SignedTransaction, error)
}

// WalletFactory obtains wallets.
type WalletFactory interface {
	// Generate creates a fresh keypair and returns the wallet and its secret seed.
	Generate(ctx context.Context) (Wallet, string, error)
	// FromSecret reconstructs a wallet from its secret seed.
	FromSecret(ctx context.Context, secret string) (Wallet, error)
}
