package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error)
	ReleaseOrderLock(ctx context.Context, orderID string) error
}

// CacheStoreInterface defines the interface for ticket list caching.
type CacheStoreInterface interface {
	GetUserTickets(ctx context.Context, userID string) ([]CachedTicket, error)
	SetUserTickets(ctx context.Context, userID string, tickets []CachedTicket) error
	InvalidateUserTickets(ctx context.Context, userID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
