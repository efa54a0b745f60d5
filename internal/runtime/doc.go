/*
Package runtime implements the token provisioning workflow.

The components mirror the stages of a run:

  - ConnectionMonitor keeps the ledger session alive before every submission.
  - PreconditionChecker answers read-only questions about accounts at the validated ledger.
  - TransactionPipeline validates, fills, signs and submits one transaction at a time.
  - TrustLineManager, FlagManager and IssuanceManager each own one kind of mutation.
  - BlackHoleFinalizer assigns the black hole regular key and disables the master key.
  - Orchestrator runs the ordered steps and records what each one did.

Every mutation is gated on a fresh read and only a validated tesSUCCESS lets the run
move on.
*/
package runtime
