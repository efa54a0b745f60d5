package ports

import (
	"context"

	"github.com/aretw0/tokenforge/pkg/domain"
)

// LedgerClient is the network collaborator. Implementations own the wire protocol.
type LedgerClient interface {
	// Connect opens (or reopens) the session.
	Connect(ctx context.Context) error
	// Disconnect closes the session. It is safe to call on a closed session.
	Disconnect(ctx context.Context) error
	// IsConnected reports the session state as last observed.
	IsConnected() bool

	// Request runs a generic command (ping, account_info, account_lines, ...).
	// Ledger error tokens are returned as *domain.RPCError; connection failures wrap
	// domain.ErrTransientNetwork.
	Request(ctx context.Context, req domain.Request) (domain.Response, error)

	// Autofill completes a template with live Sequence, Fee and LastLedgerSequence.
	Autofill(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)

	// SubmitAndWait submits a signed transaction and blocks until it is validated or
	// can no longer be. Engine rejections are returned in the result, not as errors.
	SubmitAndWait(ctx context.Context, signed domain.SignedTransaction) (domain.SubmitResult, error)
}
