package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/tokenforge/pkg/ports"
)

// role names a wallet's part in a run.
type role struct {
	name   string
	envVar string
}

// acquireWallet resolves the wallet for r:
//  1. the secret in r.envVar, when set
//  2. a secret typed at the prompt, when interactive
//  3. a freshly generated wallet, whose seed is printed once
func acquireWallet(ctx context.Context, r role, factory ports.WalletFactory, prompter *Prompter, out io.Writer) (ports.Wallet, error) {
	secret := os.Getenv(r.envVar)
	if secret == "" && prompter != nil {
		answer, err := prompter.Secret(ctx, fmt.Sprintf("%s secret (blank to generate):", r.name))
		if err != nil {
			return nil, err
		}
		secret = answer
	}

	if secret != "" {
		w, err := factory.FromSecret(ctx, secret)
		if err != nil {
			return nil, fmt.Errorf("%s wallet: %w", r.name, err)
		}
		printSystemMessage(out, "%s: %s", r.name, w.Address())
		return w, nil
	}

	w, seed, err := factory.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate %s wallet: %w", r.name, err)
	}
	printSystemMessage(out, "%s: generated %s", r.name, w.Address())
	printSystemMessage(out, "%s seed: %s (store it now, it is not shown again)", r.name, seed)
	return w, nil
}
