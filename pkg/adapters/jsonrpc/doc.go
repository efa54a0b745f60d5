/*
Package jsonrpc implements the ledger ports against a rippled JSON-RPC endpoint.

The Client speaks the plain HTTP JSON-RPC interface (`{"method": ..., "params": [{...}]}`).
Fill reads the account sequence, the open ledger fee and the current ledger index;
SubmitAndWait submits a blob and polls `tx` until the transaction is validated or its
LastLedgerSequence has passed.

Key handling stays on the server: WalletFactory uses `wallet_propose` and a Wallet signs
with `sign` in offline mode. Point it at a node you control (or a test network).
*/
package jsonrpc
