/*
Package session serializes work per ledger account.

Every account has one monotonically increasing sequence counter, so two submissions
from the same account must never be in flight at once. The Manager hands out
reference-counted in-process locks keyed by account address and, when configured,
also holds a distributed lock so separate processes are excluded too.
*/
package session
