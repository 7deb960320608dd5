package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartikeya-dewal/devConnector/internal/application/service"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewSelectsMode(t *testing.T) {
	l, err := New("", nil)
	require.NoError(t, err)
	assert.IsType(t, noopLocker{}, l)

	l, err = New("local", nil)
	require.NoError(t, err)
	assert.IsType(t, &localLocker{}, l)

	_, err = New("redis", nil)
	assert.Error(t, err)

	_, err = New("zookeeper", nil)
	assert.Error(t, err)
}

func assertSerializes(t *testing.T, l service.Locker) {
	t.Helper()
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock(context.Background(), "profile:u1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLockerSerializesPerKey(t *testing.T) {
	assertSerializes(t, NewLocal())
}

func TestLocalLockerKeysAreIndependent(t *testing.T) {
	l := NewLocal()
	unlockA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Empty(t, l.(*localLocker).locks)
}

func TestRedisLockerSerializes(t *testing.T) {
	_, client := newMiniRedis(t)
	assertSerializes(t, NewRedis(client))
}

func TestRedisLockerReleaseOnlyOwnToken(t *testing.T) {
	mr, client := newMiniRedis(t)
	l := NewRedis(client)

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyPrefix+"k"))

	// Simulate expiry and takeover by another process.
	mr.Del(keyPrefix + "k")
	require.NoError(t, mr.Set(keyPrefix+"k", "someone-else"))

	unlock()
	got, err := mr.Get(keyPrefix + "k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLockerTimesOut(t *testing.T) {
	mr, client := newMiniRedis(t)
	require.NoError(t, mr.Set(keyPrefix+"k", "held"))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err := NewRedis(client).Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
