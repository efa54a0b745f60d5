package runtime

import (
	"context"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

// IssuanceManager sends freshly issued tokens to a holder.
type IssuanceManager struct {
	pipeline *TransactionPipeline
}

// NewIssuanceManager creates a manager.
func NewIssuanceManager(pipeline *TransactionPipeline, env Env) *IssuanceManager {
	return &IssuanceManager{pipeline: pipeline}
}

// IssueToken pays amount of currency, issued by issuer, to receiver. The ledger
// enforces the receiver's trust limit.
func (m *IssuanceManager) IssueToken(ctx context.Context, currency string, issuer ports.Wallet, receiver, amount string) (domain.SubmitResult, error) {
	return m.pipeline.Submit(ctx, domain.NewPayment(issuer.Address(), receiver, currency, amount), issuer)
}
