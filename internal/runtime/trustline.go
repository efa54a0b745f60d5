package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// TrustLineOutcome reports what SetTrustLine did.
type TrustLineOutcome struct {
	// Skipped is set when the line already existed and nothing was submitted.
	Skipped bool
	Result  *domain.SubmitResult
}

// TrustLineManager creates holder-side trust lines.
type TrustLineManager struct {
	checker  *PreconditionChecker
	pipeline *TransactionPipeline
	logger   *slog.Logger
}

// NewTrustLineManager creates a manager.
func NewTrustLineManager(checker *PreconditionChecker, pipeline *TransactionPipeline, env Env) *TrustLineManager {
	return &TrustLineManager{checker: checker, pipeline: pipeline, logger: env.logger()}
}

// SetTrustLine authorizes holder to hold up to limit of currency issued by issuer.
// An existing line is left untouched.
func (m *TrustLineManager) SetTrustLine(ctx context.Context, currency, issuer string, holder ports.Wallet, limit string) (TrustLineOutcome, error) {
	exists, err := m.checker.TrustLineExists(ctx, holder.Address(), currency, issuer)
	if err != nil {
		return TrustLineOutcome{}, err
	}
	if exists {
		m.logger.Info("trust line already exists",
			"holder", holder.Address(), "currency", currency, "issuer", issuer,
			"reason", domain.ErrPreconditionSatisfied)
		return TrustLineOutcome{Skipped: true}, nil
	}

	res, err := m.pipeline.Submit(ctx, domain.NewTrustSet(holder.Address(), currency, issuer, limit), holder)
	if err != nil {
		return TrustLineOutcome{}, fmt.Errorf("set trust line: %w", err)
	}
	return TrustLineOutcome{Result: &res}, nil
}
