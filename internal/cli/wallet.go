package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/tokenforge/internal/config"
)

// WalletOptions configures the wallet command.
type WalletOptions struct {
	ConfigPath string
	URL        string
	Simulate   bool
}

// NewWallet generates a keypair and prints its address and seed.
func NewWallet(ctx context.Context, opts WalletOptions, s Streams) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.URL != "" {
		cfg.Network.URL = opts.URL
	}
	logger, err := createLogger(config.LogConfig{Level: "warn", Format: cfg.Log.Format}, false)
	if err != nil {
		return err
	}

	b := newBackend(cfg, opts.Simulate, logger)
	if err := b.checkWallets(); err != nil {
		return err
	}
	w, seed, err := b.wallets.Generate(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "address %s\nseed    %s\n", w.Address(), seed)
	return nil
}
