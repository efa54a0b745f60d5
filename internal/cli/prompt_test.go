package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_SelectFlags(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("8, no-freeze\nRequireAuth\n"), &out)

	sel, err := p.SelectFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountFlag{domain.FlagDefaultRipple, domain.FlagNoFreeze}, sel.Set)
	assert.Equal(t, []domain.AccountFlag{domain.FlagRequireAuth}, sel.Clear)
	assert.Contains(t, out.String(), "asfDisallowIncomingTrustline")
}

func TestPrompter_SelectFlags_RetriesInvalidAnswers(t *testing.T) {
	var out bytes.Buffer
	// bogus name, then an overlap between set and clear, then a valid pair.
	input := "bogus\nasfGlobalFreeze\nasfGlobalFreeze\nasfGlobalFreeze\n\n"
	p := NewPrompter(strings.NewReader(input), &out)

	sel, err := p.SelectFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountFlag{domain.FlagGlobalFreeze}, sel.Set)
	assert.Empty(t, sel.Clear)
	assert.Contains(t, out.String(), `unknown account flag "bogus"`)
	assert.Contains(t, out.String(), "invalid selection")
}

func TestPrompter_SelectFlags_RefusesDisableMaster(t *testing.T) {
	var out bytes.Buffer
	input := "asfDisableMaster\n\nasfDefaultRipple\n\n"
	p := NewPrompter(strings.NewReader(input), &out)

	sel, err := p.SelectFlags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountFlag{domain.FlagDefaultRipple}, sel.Set)
	assert.Contains(t, out.String(), "black hole step")
}

func TestPrompter_EOFIsInterrupt(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Ask(context.Background(), "?")
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.True(t, isInterrupted(err))
}

func TestPrompter_LastLineWithoutNewline(t *testing.T) {
	p := NewPrompter(strings.NewReader("yes"), &bytes.Buffer{})
	ok, err := p.Confirm(context.Background(), "sure?")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	_, err := p.Confirm(ctx, "sure?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFlagAnswer(t *testing.T) {
	menu := domain.AllFlags()

	flags, err := parseFlagAnswer("", menu)
	require.NoError(t, err)
	assert.Empty(t, flags)

	_, err = parseFlagAnswer("99", menu)
	assert.Error(t, err)

	flags, err = parseFlagAnswer("1 asfNoFreeze", menu)
	require.NoError(t, err)
	assert.Equal(t, []domain.AccountFlag{menu[0], domain.FlagNoFreeze}, flags)
}

func TestHandleExecutionError(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, HandleExecutionError(&out, context.Canceled, nil))
	assert.Contains(t, out.String(), "Interrupted.")

	boom := assert.AnError
	assert.ErrorIs(t, HandleExecutionError(&out, boom, nil), boom)
	assert.NoError(t, HandleExecutionError(&out, nil, nil))
}
