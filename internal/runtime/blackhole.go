package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/tokenforge/pkg/domain"
	"github.com/aretw0/tokenforge/pkg/ports"
)

const stepBlackHole = "blackhole"

// BlackHoleReport records the two finalization transactions.
type BlackHoleReport struct {
	RegularKey    *domain.SubmitResult
	DisableMaster *domain.SubmitResult
	// AlreadyFinalized is set when the master key was found disabled before step two.
	AlreadyFinalized bool
}

// Results returns the submitted results in order.
func (r BlackHoleReport) Results() []domain.SubmitResult {
	var out []domain.SubmitResult
	if r.RegularKey != nil {
		out = append(out, *r.RegularKey)
	}
	if r.DisableMaster != nil {
		out = append(out, *r.DisableMaster)
	}
	return out
}

// BlackHoleFinalizer makes an issuer permanently unable to sign.
type BlackHoleFinalizer struct {
	checker  *PreconditionChecker
	pipeline *TransactionPipeline
	logger   *slog.Logger
}

// NewBlackHoleFinalizer creates a finalizer.
func NewBlackHoleFinalizer(checker *PreconditionChecker, pipeline *TransactionPipeline, env Env) *BlackHoleFinalizer {
	return &BlackHoleFinalizer{checker: checker, pipeline: pipeline, logger: env.logger()}
}

// BlackHoleIssuer sets the regular key to the black hole address and then disables the
// master key. The second transaction is only sent after the first validated with
// tesSUCCESS and the ledger shows the black hole key in place.
func (f *BlackHoleFinalizer) BlackHoleIssuer(ctx context.Context, issuer ports.Wallet) (BlackHoleReport, error) {
	var report BlackHoleReport
	address := issuer.Address()

	// 1. Regular key
	res, err := f.pipeline.Submit(ctx, domain.NewSetRegularKey(address, domain.BlackHoleAddress), issuer)
	if err != nil {
		return report, fmt.Errorf("set regular key: %w", err)
	}
	report.RegularKey = &res
	if !res.Applied() {
		return report, &domain.EngineRejection{Step: stepBlackHole, TxType: res.TxType, Code: res.Code, Hash: res.Hash}
	}

	// 2. Re-read right before disabling the master key
	disabled, err := f.checker.IsMasterKeyDisabled(ctx, address)
	if err != nil {
		return report, err
	}
	if disabled {
		f.logger.Info("master key already disabled", "account", address, "reason", domain.ErrAlreadyFinalized)
		report.AlreadyFinalized = true
		return report, nil
	}
	blackHoled, err := f.checker.IsRegularKeySetToBlackHole(ctx, address)
	if err != nil {
		return report, err
	}
	if !blackHoled {
		return report, fmt.Errorf("%w: regular key of %s is not %s", domain.ErrPostcondition, address, domain.BlackHoleAddress)
	}

	// 3. Master key
	res, err = f.pipeline.Submit(ctx, domain.NewSetFlag(address, domain.FlagDisableMaster), issuer)
	if err != nil {
		return report, fmt.Errorf("disable master key: %w", err)
	}
	report.DisableMaster = &res
	if !res.Applied() {
		return report, &domain.EngineRejection{Step: stepBlackHole, TxType: res.TxType, Code: res.Code, Hash: res.Hash}
	}
	return report, nil
}
