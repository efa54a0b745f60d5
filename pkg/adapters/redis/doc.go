// Package redis provides a Redis-backed ports.DistributedLocker.
package redis
