package service

import "context"

// Locker serializes work on a key. The returned func releases the lock
// and is safe to call once.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
