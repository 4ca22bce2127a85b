package credstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisBackend(client, ttl), mr
}

func TestRedisStoreWritesBothKeysWithTTL(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupRedisBackend(t, 30*time.Minute)
	store := backend.Session("abc")

	require.NoError(t, store.Set(ctx,
		Entry{Key: TokenKey, Value: []byte("tok")},
		Entry{Key: UserKey, Value: []byte(`{"username":"nurse"}`)},
	))

	assert.True(t, mr.Exists("portal:session:abc:authToken"))
	assert.True(t, mr.Exists("portal:session:abc:currentUser"))
	assert.Equal(t, 30*time.Minute, mr.TTL("portal:session:abc:authToken"))

	got := store.Get(ctx, UserKey)
	assert.Equal(t, Present, got.State)
	assert.JSONEq(t, `{"username":"nurse"}`, string(got.Value))
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupRedisBackend(t, time.Minute)
	store := backend.Session("abc")

	require.NoError(t, store.Set(ctx, Entry{Key: TokenKey, Value: []byte("tok")}))
	mr.FastForward(2 * time.Minute)

	assert.Equal(t, Absent, store.Get(ctx, TokenKey).State)
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupRedisBackend(t, time.Minute)
	store := backend.Session("abc")

	require.NoError(t, store.Set(ctx,
		Entry{Key: TokenKey, Value: []byte("tok")},
		Entry{Key: UserKey, Value: []byte("{}")},
	))
	require.NoError(t, store.Delete(ctx, TokenKey, UserKey))

	assert.False(t, mr.Exists("portal:session:abc:authToken"))
	assert.False(t, mr.Exists("portal:session:abc:currentUser"))
	assert.NoError(t, store.Delete(ctx))
}

func TestRedisStoreSessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend, _ := setupRedisBackend(t, time.Minute)

	require.NoError(t, backend.Session("a").Set(ctx, Entry{Key: TokenKey, Value: []byte("a")}))
	assert.Equal(t, Absent, backend.Session("b").Get(ctx, TokenKey).State)
}

func TestRedisStoreFailureIsUnavailable(t *testing.T) {
	ctx := context.Background()
	backend, mr := setupRedisBackend(t, time.Minute)
	store := backend.Session("abc")

	mr.SetError("ERR backend offline")

	got := store.Get(ctx, TokenKey)
	assert.Equal(t, Unavailable, got.State)
	assert.Error(t, got.Err)
	assert.Error(t, store.Set(ctx, Entry{Key: TokenKey, Value: []byte("tok")}))
	assert.Error(t, backend.Ping(ctx))
}

func TestRedisBackendWithoutClient(t *testing.T) {
	backend := NewRedisBackend(nil, time.Minute)

	assert.Equal(t, Unavailable, backend.Session("abc").Get(context.Background(), TokenKey).State)
	assert.Error(t, backend.Ping(context.Background()))
}
