/*
Package ports defines the driven ports (interfaces) of the tokenforge workflow.

These interfaces decouple the orchestration core from the ledger network, key handling,
user interaction and cross-process coordination.

# Key Interfaces

  - LedgerClient: session control, generic requests, fill and submit-and-wait.
  - Wallet / WalletFactory: an address with signing capability, and how to obtain one.
  - DistributedLocker: cross-process mutual exclusion on an account's sequence.
  - FlagSelector: collects a validated flag selection from the user (or a fixed plan).
*/
package ports
