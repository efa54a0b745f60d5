// Package memory provides an in-memory ledger and wallets implementing the ports.
//
// The Ledger simulates the parts of the XRP Ledger the workflow depends on: account
// sequence accounting, fees, trust line limits, issued balances, account flags, regular
// keys and the master-key rules. It records every submitted transaction and supports
// failure injection, which makes it the backbone of the runtime tests and of
// `tokenforge run --simulate`.
package memory
