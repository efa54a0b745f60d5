package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// Wallet signs through the server's `sign` method in offline mode. The node must be a
// local admin endpoint; public servers disable `sign` and the seed never leaves the host.
type Wallet struct {
	client  *Client
	address string
	secret  string
}

var _ ports.Wallet = (*Wallet)(nil)

// Address returns the classic address.
func (w *Wallet) Address() string { return w.address }

// Sign returns the signed blob and hash for a filled transaction.
func (w *Wallet) Sign(ctx context.Context, tx domain.Transaction) (domain.SignedTransaction, error) {
	if tx.Account != w.address {
		return domain.SignedTransaction{}, fmt.Errorf("%w: wallet %s cannot sign for %s", domain.ErrInvalidTransaction, w.address, tx.Account)
	}
	if !tx.Filled() {
		return domain.SignedTransaction{}, fmt.Errorf("%w: %s is not filled", domain.ErrInvalidTransaction, tx.TransactionType)
	}

	raw, err := w.client.adminCall(ctx, "sign", map[string]any{
		"tx_json": tx,
		"secret":  w.secret,
		"offline": true,
	})
	if err != nil {
		return domain.SignedTransaction{}, fmt.Errorf("sign %s: %w", tx.TransactionType, err)
	}
	var reply struct {
		TxBlob string `json:"tx_blob"`
		TxJSON struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return domain.SignedTransaction{}, fmt.Errorf("sign %s: %w", tx.TransactionType, err)
	}
	return domain.NewSignedTransaction(tx, reply.TxBlob, reply.TxJSON.Hash), nil
}

// WalletFactory derives wallets with `wallet_propose`, an admin command.
type WalletFactory struct {
	client *Client
}

var _ ports.WalletFactory = (*WalletFactory)(nil)

// NewWalletFactory creates a factory backed by client.
func NewWalletFactory(client *Client) *WalletFactory {
	return &WalletFactory{client: client}
}

// Available fails with domain.ErrAdminNodeRequired when the endpoint cannot be trusted
// with seeds. It sends nothing.
func (f *WalletFactory) Available() error {
	return f.client.keyService("wallet_propose")
}

type proposal struct {
	AccountID  string `json:"account_id"`
	MasterSeed string `json:"master_seed"`
}

func (f *WalletFactory) propose(ctx context.Context, params map[string]any) (proposal, error) {
	var p proposal
	raw, err := f.client.adminCall(ctx, "wallet_propose", params)
	if err != nil {
		return p, fmt.Errorf("wallet_propose: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("wallet_propose: %w", err)
	}
	if p.AccountID == "" {
		return p, fmt.Errorf("wallet_propose: empty account_id")
	}
	return p, nil
}

// Generate asks the server for a fresh keypair.
func (f *WalletFactory) Generate(ctx context.Context) (ports.Wallet, string, error) {
	p, err := f.propose(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	return &Wallet{client: f.client, address: p.AccountID, secret: p.MasterSeed}, p.MasterSeed, nil
}

// FromSecret derives the address of an existing family seed.
func (f *WalletFactory) FromSecret(ctx context.Context, secret string) (ports.Wallet, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("empty secret")
	}
	p, err := f.propose(ctx, map[string]any{"seed": secret})
	if err != nil {
		return nil, err
	}
	return &Wallet{client: f.client, address: p.AccountID, secret: secret}, nil
}
