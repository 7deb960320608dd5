package lock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
)

const (
	ModeNone  = "none"
	ModeLocal = "local"
	ModeRedis = "redis"
)

// New returns the locker for mode. ModeRedis needs a client.
func New(mode string, client *redis.Client) (service.Locker, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeNone:
		return NewNoop(), nil
	case ModeLocal:
		return NewLocal(), nil
	case ModeRedis:
		if client == nil {
			return nil, fmt.Errorf("lock mode %q requires a redis client", mode)
		}
		return NewRedis(client), nil
	}
	return nil, fmt.Errorf("unknown lock mode %q", mode)
}

type noopLocker struct{}

// NewNoop returns a locker that never blocks. Concurrent writers to the
// same key race and the last write wins.
func NewNoop() service.Locker { return noopLocker{} }

func (noopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// localLocker serializes callers per key inside one process.
type localLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewLocal() service.Locker {
	return &localLocker{locks: make(map[string]*keyLock)}
}

func (l *localLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, kl, true) })
	}, nil
}

func (l *localLocker) release(key string, kl *keyLock, held bool) {
	if held {
		<-kl.ch
	}
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}
