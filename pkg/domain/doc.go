/*
Package domain contains the core ledger models used by the tokenforge workflow.

It defines accounts, trust lines, the transaction variants the workflow submits, engine
results, the account flag enumeration, and the per-run workflow state. The package is
kept pure and free of I/O so every adapter and the runtime can share it.

# Key Entities

  - AccountRoot: the validated view of an account (sequence, flags, regular key).
  - TrustLine: a holder's authorization of a credit limit for one currency and issuer.
  - Transaction: TrustSet, Payment, AccountSet or SetRegularKey with XRPL field names.
  - SignedTransaction: an immutable, single-use signed blob.
  - SubmitResult: the engine verdict; only tesSUCCESS counts as applied.
  - AccountFlag / FlagSelection: the closed set of asf flags and an ordered selection.
  - State: the orchestrator-owned snapshot of one run.
*/
package domain
