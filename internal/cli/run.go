package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/tokenforge"
	"github.com/aretw0/tokenforge/internal/config"
	"github.com/aretw0/tokenforge/internal/presentation/tui"
	"github.com/aretw0/tokenforge/pkg/adapters/redis"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
)

// TestnetFaucet hands out test XRP for new accounts.
const TestnetFaucet = "https://faucet.altnet.rippletest.net"

// RunOptions contains all the configuration for the run command. Non-empty fields
// override the loaded config.
type RunOptions struct {
	ConfigPath  string
	URL         string
	Currency    string
	Amount      string
	MetricsAddr string
	RedisAddr   string
	LogLevel    string
	SetFlags    []string
	ClearFlags  []string
	BlackHole   bool
	Simulate    bool
	Debug       bool
	// Yes accepts the configured plan without questions. Secrets then come from the
	// environment or are generated.
	Yes         bool
	Interactive bool
}

// Streams are the terminal the command talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o RunOptions) apply(cfg *config.Config) {
	if o.URL != "" {
		cfg.Network.URL = o.URL
	}
	if o.Currency != "" {
		cfg.Token.Currency = o.Currency
	}
	if o.Amount != "" {
		cfg.Token.Amount = o.Amount
	}
	if o.MetricsAddr != "" {
		cfg.Metrics.Addr = o.MetricsAddr
	}
	if o.RedisAddr != "" {
		cfg.Redis.Addr = o.RedisAddr
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if len(o.SetFlags) > 0 {
		cfg.Flags.Set = o.SetFlags
	}
	if len(o.ClearFlags) > 0 {
		cfg.Flags.Clear = o.ClearFlags
	}
	if o.BlackHole {
		cfg.BlackHole = true
	}
}

// Execute runs the full provisioning workflow and prints its report.
func Execute(ctx context.Context, opts RunOptions, s Streams) error {
	// 1. Configuration
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := createLogger(cfg.Log, opts.Debug)
	if err != nil {
		return err
	}

	var prompter *Prompter
	if opts.Interactive && !opts.Yes {
		prompter = NewPrompter(s.In, s.Out)
	}

	// 2. Ledger and wallets
	b := newBackend(cfg, opts.Simulate, logger)
	if opts.Simulate {
		printSystemMessage(s.Out, "Simulating against an in-memory ledger.")
	}
	if err := b.checkWallets(); err != nil {
		return err
	}
	issuer, err := acquireWallet(ctx, role{name: "issuer", envVar: config.EnvIssuerSecret}, b.wallets, prompter, s.Out)
	if err != nil {
		return err
	}
	receiver, err := acquireWallet(ctx, role{name: "receiver", envVar: config.EnvReceiverSecret}, b.wallets, prompter, s.Out)
	if err != nil {
		return err
	}

	// 3. Plan
	plan, err := buildPlan(ctx, cfg, prompter, s.Out)
	if err != nil {
		return err
	}
	plan.Issuer, plan.Receiver = issuer, receiver
	tui.Section(s.Out, "Plan")
	for _, line := range planSummary(plan) {
		fmt.Fprintln(s.Out, "  "+line)
	}
	if prompter != nil {
		ok, err := prompter.Confirm(ctx, "Submit these transactions?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("plan not confirmed: %w", ErrInterrupted)
		}
	}

	// 4. Observability and locking
	engineOpts := []tokenforge.Option{
		tokenforge.WithLogger(logger),
		tokenforge.WithReconnectPolicy(cfg.ReconnectPolicy()),
	}
	hooks := observability.LoggingHooks(logger)
	if cfg.Metrics.Addr != "" {
		metrics := observability.NewMetrics(prometheus.NewRegistry())
		hooks = hooks.Merge(metrics.Hooks())
		serveCtx, stop := context.WithCancel(ctx)
		defer stop()
		go serveMetrics(serveCtx, cfg.Metrics.Addr, metrics, b, logger)
	}
	engineOpts = append(engineOpts, tokenforge.WithLifecycleHooks(hooks))

	if cfg.Redis.Addr != "" {
		locker, err := redis.DialWith(ctx, &goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, redis.WithPrefix(cfg.Redis.Prefix))
		if err != nil {
			return err
		}
		defer locker.Close()
		engineOpts = append(engineOpts, tokenforge.WithLocker(locker), tokenforge.WithLockTTL(cfg.Redis.LockTTL))
	}

	// 5. Run
	eng := tokenforge.New(b.client, engineOpts...)
	report, runErr := eng.Run(ctx, plan)
	tui.PrintReport(s.Out, report)
	if errors.Is(runErr, domain.ErrNotActivated) {
		printSystemMessage(s.Out, "Fund the account (testnet faucet: %s) and run again with its secret.", TestnetFaucet)
	}
	if runErr != nil {
		logger.Error("run failed", "err", runErr)
	}
	return runErr
}

func serveMetrics(ctx context.Context, addr string, m *observability.Metrics, b ledgerBackend, logger *slog.Logger) {
	health := func(context.Context) error {
		if !b.client.IsConnected() {
			return errors.New("ledger disconnected")
		}
		return nil
	}
	if err := observability.Serve(ctx, addr, observability.NewHandler(m.Registry, health), logger); err != nil {
		logger.Error("metrics server stopped", "err", err)
	}
}

// buildPlan fills whatever the config leaves open by asking, when interactive.
func buildPlan(ctx context.Context, cfg config.Config, prompter *Prompter, out io.Writer) (tokenforge.Plan, error) {
	plan := tokenforge.Plan{
		Currency:   cfg.Token.Currency,
		Amount:     cfg.Token.Amount,
		TrustLimit: cfg.Token.TrustLimit,
		BlackHole:  cfg.BlackHole,
	}

	var err error
	if plan.Currency == "" {
		if plan.Currency, err = askRequired(ctx, prompter, "Currency code (3 letters or 40 hex):", "token.currency"); err != nil {
			return plan, err
		}
	}
	if plan.Amount == "" {
		if plan.Amount, err = askRequired(ctx, prompter, "Amount to issue:", "token.amount"); err != nil {
			return plan, err
		}
	}

	if cfg.FlagsConfigured() || prompter == nil {
		if plan.Flags, err = cfg.FlagSelection(); err != nil {
			return plan, err
		}
	} else {
		tui.PrintNotes(out, tui.NewRenderer())
		if plan.Flags, err = prompter.SelectFlags(ctx); err != nil {
			return plan, err
		}
	}

	if prompter != nil {
		if !plan.BlackHole {
			if plan.BlackHole, err = prompter.Confirm(ctx, "Black-hole the issuer after issuing? This cannot be undone."); err != nil {
				return plan, err
			}
		} else {
			ok, err := prompter.Confirm(ctx, "The issuer will be black-holed and can never sign again. Continue?")
			if err != nil {
				return plan, err
			}
			if !ok {
				return plan, fmt.Errorf("black hole not confirmed: %w", ErrInterrupted)
			}
		}
	}
	return plan, nil
}

func askRequired(ctx context.Context, prompter *Prompter, question, key string) (string, error) {
	if prompter == nil {
		return "", fmt.Errorf("%s is required (set it in the config or the environment)", key)
	}
	for {
		answer, err := prompter.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

// planSummary is printed before submitting anything.
func planSummary(p tokenforge.Plan) []string {
	lines := []string{
		fmt.Sprintf("issue %s %s to %s", p.Amount, p.Currency, p.Receiver.Address()),
		fmt.Sprintf("trust limit %s", p.TrustLimit),
	}
	for _, f := range p.Flags.Set {
		lines = append(lines, "set "+f.String())
	}
	for _, f := range p.Flags.Clear {
		lines = append(lines, "clear "+f.String())
	}
	if p.BlackHole {
		lines = append(lines, "black-hole "+p.Issuer.Address()+" ("+domain.BlackHoleAddress+")")
	}
	return lines
}
