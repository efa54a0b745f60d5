// Package config loads tokenforge settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/aretw0/tokenforge/internal/runtime"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Environment variables. Secrets are only ever read from the environment or a prompt.
const (
	EnvPrefix         = "TOKENFORGE_"
	EnvIssuerSecret   = EnvPrefix + "ISSUER_SECRET"
	EnvReceiverSecret = EnvPrefix + "RECEIVER_SECRET"
)

// Config is the full set of run settings.
type Config struct {
	Network   NetworkConfig `mapstructure:"network" yaml:"network"`
	Token     TokenConfig   `mapstructure:"token" yaml:"token"`
	Flags     FlagsConfig   `mapstructure:"flags" yaml:"flags"`
	BlackHole bool          `mapstructure:"blackhole" yaml:"blackhole"`
	Redis     RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Metrics   MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log       LogConfig     `mapstructure:"log" yaml:"log"`
}

// NetworkConfig points at the ledger.
type NetworkConfig struct {
	URL          string          `mapstructure:"url" yaml:"url"`
	Timeout      time.Duration   `mapstructure:"timeout" yaml:"timeout"`
	PollInterval time.Duration   `mapstructure:"poll_interval" yaml:"poll_interval"`
	LedgerOffset uint32          `mapstructure:"ledger_offset" yaml:"ledger_offset"`
	Reconnect    ReconnectConfig `mapstructure:"reconnect" yaml:"reconnect"`
}

// ReconnectConfig mirrors runtime.ReconnectPolicy.
type ReconnectConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay" yaml:"initial_delay"`
	Multiplier   float64       `mapstructure:"multiplier" yaml:"multiplier"`
	MaxDelay     time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	Jitter       bool          `mapstructure:"jitter" yaml:"jitter"`
}

// TokenConfig describes what is issued.
type TokenConfig struct {
	Currency   string `mapstructure:"currency" yaml:"currency"`
	Amount     string `mapstructure:"amount" yaml:"amount"`
	TrustLimit string `mapstructure:"trust_limit" yaml:"trust_limit"`
}

// FlagsConfig lists issuer flags by name (e.g. "asfDefaultRipple" or "default-rippling").
type FlagsConfig struct {
	Set   []string `mapstructure:"set" yaml:"set"`
	Clear []string `mapstructure:"clear" yaml:"clear"`
}

// RedisConfig enables the distributed account lock when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" yaml:"lock_ttl"`
}

// MetricsConfig enables the metrics endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig selects level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultURL is a local admin node. Wallets are derived and signed by the node, which
// public servers refuse.
const DefaultURL = "http://127.0.0.1:5005"

// Default returns the built-in settings.
func Default() Config {
	p := runtime.DefaultReconnectPolicy()
	return Config{
		Network: NetworkConfig{
			URL:          DefaultURL,
			Timeout:      20 * time.Second,
			PollInterval: time.Second,
			LedgerOffset: 20,
			Reconnect: ReconnectConfig{
				MaxAttempts:  p.MaxAttempts,
				InitialDelay: p.InitialDelay,
				Multiplier:   p.Multiplier,
				MaxDelay:     p.MaxDelay,
				Jitter:       p.Jitter,
			},
		},
		Token: TokenConfig{TrustLimit: domain.DefaultTrustLimit},
		Redis: RedisConfig{Prefix: "tokenforge:", LockTTL: 2 * time.Minute},
		Log:   LogConfig{Level: "info", Format: string(logging.FormatText)},
	}
}

// Load applies the file at path (optional) and then the environment on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := decode(tree, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if err := decode(envTree(os.LookupEnv), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// envBindings maps TOKENFORGE_* variables onto config paths.
var envBindings = map[string][]string{
	"URL":            {"network", "url"},
	"TIMEOUT":        {"network", "timeout"},
	"POLL_INTERVAL":  {"network", "poll_interval"},
	"CURRENCY":       {"token", "currency"},
	"AMOUNT":         {"token", "amount"},
	"TRUST_LIMIT":    {"token", "trust_limit"},
	"SET_FLAGS":      {"flags", "set"},
	"CLEAR_FLAGS":    {"flags", "clear"},
	"BLACKHOLE":      {"blackhole"},
	"REDIS_ADDR":     {"redis", "addr"},
	"REDIS_PASSWORD": {"redis", "password"},
	"METRICS_ADDR":   {"metrics", "addr"},
	"LOG_LEVEL":      {"log", "level"},
	"LOG_FORMAT":     {"log", "format"},
}

func envTree(lookup func(string) (string, bool)) map[string]any {
	tree := map[string]any{}
	for name, path := range envBindings {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		node := tree
		for _, key := range path[:len(path)-1] {
			child, ok := node[key].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[key] = child
			}
			node = child
		}
		node[path[len(path)-1]] = v
	}
	return tree
}

func decode(in map[string]any, out *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// Validate checks values that do not depend on the network.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	if sel, err := c.FlagSelection(); err != nil {
		errs = append(errs, err)
	} else if sel.Contains(domain.FlagDisableMaster) {
		errs = append(errs, fmt.Errorf("flags.set: %w: use blackhole to disable the master key", domain.ErrReservedFlag))
	}
	if c.Network.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("network.timeout must be positive"))
	}
	if c.Token.Currency != "" {
		if _, err := domain.NormalizeCurrency(c.Token.Currency); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Token.Amount != "" {
		if _, err := domain.ParseValue(c.Token.Amount); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FlagSelection parses the configured flag names.
func (c Config) FlagSelection() (domain.FlagSelection, error) {
	set, err := domain.ParseAccountFlags(trimAll(c.Flags.Set))
	if err != nil {
		return domain.FlagSelection{}, fmt.Errorf("flags.set: %w", err)
	}
	unset, err := domain.ParseAccountFlags(trimAll(c.Flags.Clear))
	if err != nil {
		return domain.FlagSelection{}, fmt.Errorf("flags.clear: %w", err)
	}
	return domain.NewFlagSelection(set, unset)
}

// FlagsConfigured reports whether any flag is named in the config.
func (c Config) FlagsConfigured() bool {
	return len(trimAll(c.Flags.Set))+len(trimAll(c.Flags.Clear)) > 0
}

// ReconnectPolicy converts the reconnect section.
func (c Config) ReconnectPolicy() runtime.ReconnectPolicy {
	r := c.Network.Reconnect
	return runtime.ReconnectPolicy{
		MaxAttempts:  r.MaxAttempts,
		InitialDelay: r.InitialDelay,
		Multiplier:   r.Multiplier,
		MaxDelay:     r.MaxDelay,
		Jitter:       r.Jitter,
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
