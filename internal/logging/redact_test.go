package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/tokenforge/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_MasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo, logging.FormatText)

	logger.Info("wallet", "issuer_secret", "sEdTM1uX8pu2do5XvTnutH6HsouMaM2", "address", "rIssuer",
		slog.Group("req", "seed", "sn3nxiW7v8KXzPzAqzyHXbSSKNuN9"))

	out := buf.String()
	assert.NotContains(t, out, "sEdTM1uX8pu2do5XvTnutH6HsouMaM2")
	assert.NotContains(t, out, "sn3nxiW7v8KXzPzAqzyHXbSSKNuN9")
	assert.Contains(t, out, "issuer_secret=***")
	assert.Contains(t, out, "address=rIssuer")
}

func TestRedactor_Map(t *testing.T) {
	r := logging.NewRedactor(logging.DefaultRedactPatterns)
	in := map[string]any{
		"method": "sign",
		"params": map[string]any{"secret": "s123", "offline": true},
	}

	out := r.Map(in)
	assert.Equal(t, logging.Masked, out["params"].(map[string]any)["secret"])
	assert.Equal(t, true, out["params"].(map[string]any)["offline"])
	assert.Equal(t, "s123", in["params"].(map[string]any)["secret"], "input is not modified")
}
