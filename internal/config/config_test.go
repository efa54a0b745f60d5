package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/tokenforge/internal/config"
	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tokenforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultTrustLimit, cfg.Token.TrustLimit)
	assert.Equal(t, config.DefaultURL, cfg.Network.URL)
	assert.Equal(t, 20*time.Second, cfg.Network.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.BlackHole)
	assert.False(t, cfg.FlagsConfigured())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
network:
  url: http://localhost:5005
  poll_interval: 250ms
  reconnect:
    max_attempts: 0
    initial_delay: 1s
token:
  currency: FORGE
  amount: "500"
flags:
  set: [asfDefaultRipple, require-destination-tag]
  clear: [disallow-base-asset]
blackhole: true
redis:
  addr: localhost:6379
  lock_ttl: 30s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5005", cfg.Network.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Network.PollInterval)
	assert.Equal(t, 20*time.Second, cfg.Network.Timeout, "unset keys keep defaults")
	assert.Equal(t, "FORGE", cfg.Token.Currency)
	assert.True(t, cfg.BlackHole)
	assert.Equal(t, 30*time.Second, cfg.Redis.LockTTL)

	policy := cfg.ReconnectPolicy()
	assert.Equal(t, 0, policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.InitialDelay)

	sel, err := cfg.FlagSelection()
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountFlag{domain.FlagDefaultRipple, domain.FlagRequireDest}, sel.Set)
	assert.Equal(t, []domain.AccountFlag{domain.FlagDisallowXRP}, sel.Clear)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "token:\n  currency: USD\n  amount: \"1\"\n")
	t.Setenv("TOKENFORGE_AMOUNT", "42")
	t.Setenv("TOKENFORGE_BLACKHOLE", "true")
	t.Setenv("TOKENFORGE_SET_FLAGS", "default-rippling,asfRequireDest")
	t.Setenv("TOKENFORGE_TIMEOUT", "5s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Token.Currency)
	assert.Equal(t, "42", cfg.Token.Amount)
	assert.True(t, cfg.BlackHole)
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)
	assert.Equal(t, []string{"default-rippling", "asfRequireDest"}, cfg.Flags.Set)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "network: [not, a, map]\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "unknown_section: 1\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "flags:\n  set: [asfNotAFlag]\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "flags:\n  set: [default-rippling]\n  clear: [asfDefaultRipple]\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "log:\n  level: loud\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "token:\n  currency: XRP\n"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "flags:\n  set: [disable-master-key]\n"))
	assert.ErrorIs(t, err, domain.ErrReservedFlag)
}
