package domain

import (
	"errors"
	"fmt"
)

// ErrNotActivated is returned when an account has not been funded on the ledger.
// The run halts; the user must fund the account externally.
var ErrNotActivated = errors.New("account not activated")

// ErrAlreadyFinalized marks an issuer that is already black-holed or has its master key
// disabled. It is treated as an idempotent success that halts further finalization.
var ErrAlreadyFinalized = errors.New("issuer already finalized")

// ErrTransientNetwork wraps connection-level failures. It triggers a session reconnect,
// never a resubmission of an already-signed transaction.
var ErrTransientNetwork = errors.New("transient network failure")

// ErrPreconditionSatisfied is reported when a step's goal already holds (e.g. the trust
// line exists). It is logged and the workflow continues.
var ErrPreconditionSatisfied = errors.New("precondition already satisfied")

// ErrInvalidTransaction is returned when a transaction template misses required fields.
var ErrInvalidTransaction = errors.New("invalid transaction")

// ErrSubmitTimeout is returned when a submission is not validated before its
// LastLedgerSequence passes. It is handled like a non-success engine result.
var ErrSubmitTimeout = errors.New("submission not validated in time")

// ErrPostcondition is returned when a step applied but the ledger does not reflect it.
var ErrPostcondition = errors.New("postcondition failed")

// ErrReservedFlag is returned when a flag selection names a flag that only a dedicated
// step may submit.
var ErrReservedFlag = errors.New("reserved account flag")

// ErrAdminNodeRequired is returned by key operations against an endpoint that is not a
// local admin node. Seeds are never sent to a remote server.
var ErrAdminNodeRequired = errors.New("admin node required")

// EngineRejection is a well-formed transaction declined by the network. The code is kept
// verbatim; rejections are never retried because a retry needs a fresh sequence.
type EngineRejection struct {
	Step   string
	TxType TransactionType
	Code   EngineResult
	Hash   string
}

func (e *EngineRejection) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s rejected with %s", e.Step, e.TxType, e.Code)
	}
	return fmt.Sprintf("%s rejected with %s", e.TxType, e.Code)
}

// RPCError is an error token returned by the ledger for a request (e.g. actNotFound).
type RPCError struct {
	Command string
	Code    string
	Message string
}

func (e *RPCError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Command, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Command, e.Code)
}

// IsRPCError reports whether err carries the given ledger error token.
func IsRPCError(err error, code string) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == code
}
