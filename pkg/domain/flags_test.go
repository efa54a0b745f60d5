package domain_test

import (
	"testing"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountFlag_Codes(t *testing.T) {
	assert.Equal(t, uint32(4), domain.FlagDisableMaster.Code())
	assert.Equal(t, uint32(8), domain.FlagDefaultRipple.Code())
	assert.Equal(t, uint32(16), domain.FlagAllowTrustLineClawback.Code())
	assert.Len(t, domain.AllFlags(), 15)
}

func TestParseAccountFlag(t *testing.T) {
	cases := map[string]domain.AccountFlag{
		"asfDefaultRipple":            domain.FlagDefaultRipple,
		"DefaultRipple":               domain.FlagDefaultRipple,
		"default-rippling":            domain.FlagDefaultRipple,
		" ASFREQUIREAUTH ":            domain.FlagRequireAuth,
		"disallow-incoming-trustline": domain.FlagDisallowIncomingTrustline,
	}
	for in, want := range cases {
		got, err := domain.ParseAccountFlag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := domain.ParseAccountFlag("asfNope")
	assert.Error(t, err)
	_, err = domain.ParseAccountFlag("")
	assert.Error(t, err)
}

func TestAccountFlag_String(t *testing.T) {
	assert.Equal(t, "asfNoFreeze", domain.FlagNoFreeze.String())
	assert.Equal(t, "no-freeze", domain.FlagNoFreeze.Slug())
	assert.False(t, domain.AccountFlag(11).Valid(), "11 is not a settable flag")
	assert.Contains(t, domain.AccountFlag(11).String(), "Unknown")
}

func TestNewFlagSelection(t *testing.T) {
	t.Run("Dedupes keeping first occurrence", func(t *testing.T) {
		sel, err := domain.NewFlagSelection(
			[]domain.AccountFlag{domain.FlagDefaultRipple, domain.FlagNoFreeze, domain.FlagDefaultRipple},
			[]domain.AccountFlag{domain.FlagRequireDest},
		)
		require.NoError(t, err)
		assert.Equal(t, []domain.AccountFlag{domain.FlagDefaultRipple, domain.FlagNoFreeze}, sel.Set)
		assert.Equal(t, []domain.AccountFlag{domain.FlagRequireDest}, sel.Clear)
		assert.True(t, sel.Contains(domain.FlagNoFreeze))
	})

	t.Run("Rejects overlap", func(t *testing.T) {
		_, err := domain.NewFlagSelection(
			[]domain.AccountFlag{domain.FlagDefaultRipple},
			[]domain.AccountFlag{domain.FlagDefaultRipple},
		)
		assert.Error(t, err)
	})

	t.Run("Rejects unknown codes", func(t *testing.T) {
		_, err := domain.NewFlagSelection([]domain.AccountFlag{11}, nil)
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		sel, err := domain.NewFlagSelection(nil, nil)
		require.NoError(t, err)
		assert.True(t, sel.Empty())
	})
}
