package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises work on one episode across errand replicas
// that share a store.
type DistributedLocker interface {
	// Lock blocks until the episode key is held or ctx is done. The lock expires
	// after ttl if the holder never calls the returned UnlockFunc.
	Lock(ctx context.Context, episodeKey string, ttl time.Duration) (UnlockFunc, error)
}
