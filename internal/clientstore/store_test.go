package clientstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "vp_cart:c1")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "vp_cart:c1", `["a"]`))
	v, err := s.Get(ctx, "vp_cart:c1")
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, v)

	require.NoError(t, s.Set(ctx, "vp_cart:c1", `[]`))
	v, err = s.Get(ctx, "vp_cart:c1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.Del(ctx, "vp_cart:c1"))
	_, err = s.Get(ctx, "vp_cart:c1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestRedisStoreNamespacesAndTTL(t *testing.T) {
	fake := newFakeRedis()
	exerciseStore(t, newRedisWith(fake, time.Hour))

	s := newRedisWith(fake, time.Hour)
	require.NoError(t, s.Set(context.Background(), Key("vp_session", "c2"), "{}"))
	assert.Contains(t, fake.data, "storefront:vp_session:c2")
	assert.Equal(t, time.Hour, fake.ttls["storefront:vp_session:c2"])
}

func TestKey(t *testing.T) {
	assert.Equal(t, "vp_cart:abc", Key("vp_cart", "abc"))
}
