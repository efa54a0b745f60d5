package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

// PreconditionChecker runs side-effect-free reads against the validated ledger.
// Nothing is cached: every answer comes from a fresh request.
type PreconditionChecker struct {
	client ports.LedgerClient
	logger *slog.Logger
}

// NewPreconditionChecker creates a checker backed by client.
func NewPreconditionChecker(client ports.LedgerClient, env Env) *PreconditionChecker {
	return &PreconditionChecker{client: client, logger: env.logger()}
}

// AccountRoot fetches the validated AccountRoot of address.
func (c *PreconditionChecker) AccountRoot(ctx context.Context, address string) (domain.AccountRoot, error) {
	var acct domain.AccountRoot
	resp, err := c.client.Request(ctx, domain.AccountInfoRequest(address))
	if err != nil {
		return acct, err
	}
	data, ok := resp["account_data"]
	if !ok {
		return acct, fmt.Errorf("account_info %s: response without account_data", address)
	}
	if err := decode(data, &acct); err != nil {
		return acct, fmt.Errorf("account_info %s: %w", address, err)
	}
	return acct, nil
}

// IsAccountActivated reports whether address exists on the validated ledger.
// actNotFound means false; any other failure is returned.
func (c *PreconditionChecker) IsAccountActivated(ctx context.Context, address string) (bool, error) {
	_, err := c.AccountRoot(ctx, address)
	switch {
	case err == nil:
		return true, nil
	case domain.IsRPCError(err, domain.ErrorActNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check activation of %s: %w", address, err)
	}
}

// IsRegularKeySetToBlackHole reports whether the regular key is the black hole address.
func (c *PreconditionChecker) IsRegularKeySetToBlackHole(ctx context.Context, address string) (bool, error) {
	acct, err := c.AccountRoot(ctx, address)
	if err != nil {
		return false, fmt.Errorf("check regular key of %s: %w", address, err)
	}
	return acct.BlackHoled(), nil
}

// IsMasterKeyDisabled reports whether lsfDisableMaster is set.
func (c *PreconditionChecker) IsMasterKeyDisabled(ctx context.Context, address string) (bool, error) {
	acct, err := c.AccountRoot(ctx, address)
	if err != nil {
		return false, fmt.Errorf("check master key of %s: %w", address, err)
	}
	return acct.MasterDisabled(), nil
}

// TrustLines lists every line held by address, following pagination markers.
func (c *PreconditionChecker) TrustLines(ctx context.Context, address string) ([]domain.TrustLine, error) {
	var out []domain.TrustLine
	req := domain.AccountLinesRequest(address)
	for {
		resp, err := c.client.Request(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list trust lines of %s: %w", address, err)
		}
		var page struct {
			Lines  []domain.TrustLine `mapstructure:"lines"`
			Marker any                `mapstructure:"marker"`
		}
		if err := decode(map[string]any(resp), &page); err != nil {
			return nil, fmt.Errorf("list trust lines of %s: %w", address, err)
		}
		out = append(out, page.Lines...)
		if page.Marker == nil {
			return out, nil
		}
		req.Params["marker"] = page.Marker
	}
}

// TrustLineExists reports whether account holds a line for currency issued by issuer.
func (c *PreconditionChecker) TrustLineExists(ctx context.Context, account, currency, issuer string) (bool, error) {
	_, ok, err := c.findLine(ctx, account, currency, issuer)
	return ok, err
}

// TrustLineBalance returns the holder-side balance of the matching line.
func (c *PreconditionChecker) TrustLineBalance(ctx context.Context, account, currency, issuer string) (decimal.Decimal, error) {
	line, ok, err := c.findLine(ctx, account, currency, issuer)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("%s holds no %s line from %s", account, currency, issuer)
	}
	bal, err := decimal.NewFromString(line.Balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid balance %q: %w", line.Balance, err)
	}
	return bal, nil
}

func (c *PreconditionChecker) findLine(ctx context.Context, account, currency, issuer string) (domain.TrustLine, bool, error) {
	lines, err := c.TrustLines(ctx, account)
	if err != nil {
		return domain.TrustLine{}, false, err
	}
	for _, l := range lines {
		if l.Matches(currency, issuer) {
			return l, true, nil
		}
	}
	return domain.TrustLine{}, false, nil
}

// AccountStatus is the read-only summary printed by `tokenforge check`.
type AccountStatus struct {
	Address        string
	Activated      bool
	Balance        string
	Sequence       uint32
	RegularKey     string
	BlackHoled     bool
	MasterDisabled bool
	// Line is set when a currency and issuer were asked about and the line exists.
	Line *domain.TrustLine
}

// Inspect gathers the status of address and, when currency and issuer are not empty,
// its trust line for that token.
func (c *PreconditionChecker) Inspect(ctx context.Context, address, currency, issuer string) (AccountStatus, error) {
	st := AccountStatus{Address: address}
	acct, err := c.AccountRoot(ctx, address)
	if domain.IsRPCError(err, domain.ErrorActNotFound) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("inspect %s: %w", address, err)
	}
	st.Activated = true
	st.Balance = acct.Balance
	st.Sequence = acct.Sequence
	st.RegularKey = acct.RegularKey
	st.BlackHoled = acct.BlackHoled()
	st.MasterDisabled = acct.MasterDisabled()

	if currency == "" || issuer == "" {
		return st, nil
	}
	line, ok, err := c.findLine(ctx, address, currency, issuer)
	if err != nil {
		return st, err
	}
	if ok {
		st.Line = &line
	}
	return st, nil
}

// decode maps a loosely typed JSON object onto out. Numbers may arrive as strings
// or floats depending on the transport.
func decode(in any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
