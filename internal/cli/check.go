package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/tokenforge"
	"github.com/aretw0/tokenforge/internal/presentation/tui"
)

// CheckOptions configures the read-only check command.
type CheckOptions struct {
	ConfigPath string
	URL        string
	Address    string
	Currency   string
	Issuer     string
	Simulate   bool
	Debug      bool
	JSON       bool
}

// Check prints what the ledger reports for an account without submitting anything.
func Check(ctx context.Context, opts CheckOptions, s Streams) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.URL != "" {
		cfg.Network.URL = opts.URL
	}
	if opts.Currency == "" {
		opts.Currency = cfg.Token.Currency
	}
	logger, err := createLogger(cfg.Log, opts.Debug)
	if err != nil {
		return err
	}
	if opts.Issuer == "" {
		opts.Currency = ""
	}

	b := newBackend(cfg, opts.Simulate, logger)
	eng := tokenforge.New(b.client,
		tokenforge.WithLogger(logger),
		tokenforge.WithReconnectPolicy(cfg.ReconnectPolicy()),
	)
	status, err := eng.Check(ctx, opts.Address, opts.Currency, opts.Issuer)
	if err != nil {
		return err
	}

	if opts.JSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}
	printStatus(s, status, opts.Currency)
	return nil
}

func printStatus(s Streams, st tokenforge.AccountStatus, currency string) {
	tui.Section(s.Out, "Account "+st.Address)
	if !st.Activated {
		fmt.Fprintln(s.Out, "  not activated")
		return
	}
	fmt.Fprintf(s.Out, "  balance         %s drops\n", st.Balance)
	fmt.Fprintf(s.Out, "  sequence        %d\n", st.Sequence)
	if st.RegularKey != "" {
		fmt.Fprintf(s.Out, "  regular key     %s\n", st.RegularKey)
	}
	fmt.Fprintf(s.Out, "  master disabled %t\n", st.MasterDisabled)
	fmt.Fprintf(s.Out, "  black-holed     %t\n", st.BlackHoled)
	if currency == "" {
		return
	}
	if st.Line == nil {
		fmt.Fprintf(s.Out, "  no %s trust line\n", currency)
		return
	}
	fmt.Fprintf(s.Out, "  %s line        balance %s, limit %s\n", currency, st.Line.Balance, st.Line.Limit)
}
