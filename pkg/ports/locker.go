package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker provides mutual exclusion across processes. The account lock
// manager uses it so two tokenforge instances never race on one account's sequence.
type DistributedLocker interface {
	// Lock blocks until the lock for key is held or ctx ends. The lock expires after ttl
	// if never released. The returned UnlockFunc MUST be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
