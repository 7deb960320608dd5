package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
)

const (
	defaultLockTTL  = 10 * time.Second
	defaultPollWait = 25 * time.Millisecond
	keyPrefix       = "lock:"
)

// releaseScript deletes the key only while it still holds our token, so
// an expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker is a single-instance SET NX PX lock shared by every API
// process that talks to the same Redis.
type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	poll   time.Duration
}

func NewRedis(client *redis.Client) service.Locker {
	return &redisLocker{client: client, ttl: defaultLockTTL, poll: defaultPollWait}
}

func (l *redisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.poll):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = releaseScript.Run(context.Background(), l.client, []string{k}, token).Err()
		})
	}, nil
}
