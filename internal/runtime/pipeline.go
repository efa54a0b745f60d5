package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
	"github.com/aretw0/tokenforge/pkg/session"
)

// TransactionPipeline turns a transaction template into a validated ledger outcome.
type TransactionPipeline struct {
	client  ports.LedgerClient
	monitor *ConnectionMonitor
	locks   *session.Manager
	env     Env
	logger  *slog.Logger
}

// NewTransactionPipeline creates a pipeline. A nil locks gets an in-process manager.
func NewTransactionPipeline(client ports.LedgerClient, monitor *ConnectionMonitor, locks *session.Manager, env Env) *TransactionPipeline {
	if locks == nil {
		locks = session.NewManager(session.WithLogger(env.logger()))
	}
	return &TransactionPipeline{
		client:  client,
		monitor: monitor,
		locks:   locks,
		env:     env,
		logger:  env.logger(),
	}
}

// Submit validates, fills, signs and submits tx with wallet, then waits for the outcome.
// Engine rejections come back in the result with a nil error. The signed blob is
// submitted exactly once.
func (p *TransactionPipeline) Submit(ctx context.Context, tx domain.Transaction, wallet ports.Wallet) (domain.SubmitResult, error) {
	result := domain.SubmitResult{TxType: tx.TransactionType}
	if err := tx.Validate(); err != nil {
		return result, err
	}
	if tx.Account != wallet.Address() {
		return result, fmt.Errorf("%w: %s signed by %s", domain.ErrInvalidTransaction, tx.Account, wallet.Address())
	}

	err := p.locks.WithLock(ctx, tx.Account, func(ctx context.Context) error {
		// 1. Fill from the live ledger
		filled, err := p.client.Autofill(ctx, tx)
		if err != nil {
			return fmt.Errorf("fill %s: %w", tx.TransactionType, err)
		}

		// 2. Sign
		signed, err := wallet.Sign(ctx, filled)
		if err != nil {
			return fmt.Errorf("sign %s: %w", tx.TransactionType, err)
		}

		// 3. Session check right before the network sees the blob
		p.monitor.EnsureConnection(ctx)

		// 4. Submit once and wait
		p.env.submit(ctx, filled)
		start := time.Now()
		res, err := p.client.SubmitAndWait(ctx, signed)
		p.env.result(ctx, filled, res.Code, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("submit %s: %w", tx.TransactionType, err)
		}
		result = res

		p.logger.Info("transaction result",
			"tx_type", res.TxType,
			"account", tx.Account,
			"sequence", filled.Sequence,
			"hash", res.Hash,
			"engine_result", res.Code,
			"validated", res.Validated,
		)
		return nil
	})
	return result, err
}
