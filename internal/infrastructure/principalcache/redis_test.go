package principalcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/basket-api/internal/domain/user"
	"github.com/riskibarqy/basket-api/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

type fakeCommands struct {
	values  map[string]string
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	setKeys []string
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.setKeys = append(f.setKeys, key)
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedis_SetThenGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeCommands()
	cache := NewRedis(fake, "", time.Minute, logging.NewNop())

	cache.Set(ctx, "hash-1", user.Principal{UserID: "u-1", Email: "a@example.com", IsAdmin: true})

	require.Equal(t, []string{"basket-api:principal:hash-1"}, fake.setKeys)
	require.Equal(t, time.Minute, fake.ttls["basket-api:principal:hash-1"])

	got, ok := cache.Get(ctx, "hash-1")
	require.True(t, ok)
	require.Equal(t, user.Principal{UserID: "u-1", Email: "a@example.com", IsAdmin: true}, got)
}

func TestRedis_MissAndErrorsAreMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fake := newFakeCommands()
	cache := NewRedis(fake, "test:", time.Minute, logging.NewNop())

	_, ok := cache.Get(ctx, "absent")
	require.False(t, ok)

	fake.values["test:corrupt"] = "{not-json"
	_, ok = cache.Get(ctx, "corrupt")
	require.False(t, ok)

	fake.getErr = errors.New("connection refused")
	_, ok = cache.Get(ctx, "absent")
	require.False(t, ok)
}

func TestRedis_SetErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	fake := newFakeCommands()
	fake.setErr = errors.New("readonly replica")
	cache := NewRedis(fake, "", time.Minute, logging.NewNop())

	cache.Set(context.Background(), "hash-1", user.Principal{UserID: "u-1"})
	require.Len(t, fake.setKeys, 1)
}

func TestRedis_ZeroTTLSkipsWrites(t *testing.T) {
	t.Parallel()

	fake := newFakeCommands()
	cache := NewRedis(fake, "", 0, logging.NewNop())

	cache.Set(context.Background(), "hash-1", user.Principal{UserID: "u-1"})
	require.Empty(t, fake.setKeys)
}
