package memory

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// alphabet is the ledger's base58 dictionary.
const alphabet = "rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz"

// Wallet signs transactions into the simulated envelope format.
type Wallet struct {
	address string
	secret  string
}

var _ ports.Wallet = (*Wallet)(nil)

// Address returns the classic address derived from the secret.
func (w *Wallet) Address() string { return w.address }

// Sign wraps a filled transaction into a single-use signed envelope.
func (w *Wallet) Sign(ctx context.Context, tx domain.Transaction) (domain.SignedTransaction, error) {
	if tx.Account != w.address {
		return domain.SignedTransaction{}, fmt.Errorf("%w: wallet %s cannot sign for %s", domain.ErrInvalidTransaction, w.address, tx.Account)
	}
	if !tx.Filled() {
		return domain.SignedTransaction{}, fmt.Errorf("%w: %s is not filled", domain.ErrInvalidTransaction, tx.TransactionType)
	}
	blob, hash, err := encodeEnvelope(envelope{Tx: tx, Signer: w.address})
	if err != nil {
		return domain.SignedTransaction{}, err
	}
	return domain.NewSignedTransaction(tx, blob, hash), nil
}

// WalletFactory creates simulated wallets. With a funding ledger configured,
// every wallet it returns is activated on that ledger.
type WalletFactory struct {
	ledger *Ledger
	drops  int64
}

var _ ports.WalletFactory = (*WalletFactory)(nil)

// FactoryOption configures a WalletFactory.
type FactoryOption func(*WalletFactory)

// WithFunding activates every produced wallet on ledger with drops.
func WithFunding(ledger *Ledger, drops int64) FactoryOption {
	return func(f *WalletFactory) {
		f.ledger = ledger
		f.drops = drops
	}
}

// NewWalletFactory creates a factory.
func NewWalletFactory(opts ...FactoryOption) *WalletFactory {
	f := &WalletFactory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Generate creates a wallet from a random secret.
func (f *WalletFactory) Generate(ctx context.Context) (ports.Wallet, string, error) {
	entropy := make([]byte, 16)
	if _, err := rand.Read(entropy); err != nil {
		return nil, "", fmt.Errorf("failed to read entropy: %w", err)
	}
	secret := "s" + encode(entropy)[:28]
	w, err := f.FromSecret(ctx, secret)
	if err != nil {
		return nil, "", err
	}
	return w, secret, nil
}

// FromSecret derives the wallet for secret. The same secret always yields the same address.
func (f *WalletFactory) FromSecret(ctx context.Context, secret string) (ports.Wallet, error) {
	secret = strings.TrimSpace(secret)
	if !strings.HasPrefix(secret, "s") || len(secret) < 16 {
		return nil, fmt.Errorf("invalid secret: expected a family seed starting with 's'")
	}
	w := &Wallet{address: deriveAddress(secret), secret: secret}
	if f.ledger != nil {
		if _, ok := f.ledger.Account(w.address); !ok {
			f.ledger.Fund(w.address, f.drops)
		}
	}
	return w, nil
}

func deriveAddress(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return "r" + encode(sum[:])[:33]
}

// encode maps bytes onto the base58 dictionary. It is not a checksummed encoding.
func encode(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteByte(alphabet[int(c)%len(alphabet)])
		sb.WriteByte(alphabet[int(c)/len(alphabet)%len(alphabet)])
	}
	return sb.String()
}
