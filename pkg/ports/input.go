package ports

import (
	"context"

	"github.com/aretw0/tokenforge/pkg/domain"
)

// FlagSelector collects which issuer flags to set and clear. Implementations return a
// selection already validated by domain.NewFlagSelection.
type FlagSelector interface {
	SelectFlags(ctx context.Context) (domain.FlagSelection, error)
}

// StaticFlags is a FlagSelector returning a fixed selection.
type StaticFlags domain.FlagSelection

// SelectFlags validates and returns the fixed selection.
func (s StaticFlags) SelectFlags(context.Context) (domain.FlagSelection, error) {
	return domain.NewFlagSelection(s.Set, s.Clear)
}
