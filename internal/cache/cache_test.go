package cache

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-analytics/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	a := Key([]byte(`{"serviceCharge":2000,"term":25}`))
	b := Key([]byte(`{"serviceCharge":2000,"term":25}`))
	c := Key([]byte(`{"serviceCharge":2000,"term":30}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, constants.CacheKeyPrefix))
	assert.Len(t, a, len(constants.CacheKeyPrefix)+16)
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, 0)

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	value := []byte("surface")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'X'

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("surface"), got, "stored values are copied")
	assert.Equal(t, 1, m.Len())
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v")))

	now = now.Add(30 * time.Second)
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Hour, 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key([]byte{byte(i)})
			_ = m.Set(ctx, key, []byte{byte(i)})
			_, _, _ = m.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, m.Len())
}

func TestMemoryDropsExpiredEntriesOnSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, m.Set(ctx, Key([]byte{byte(i), byte(i >> 8)}), []byte("surface")))
		now = now.Add(time.Hour)
	}
	assert.Equal(t, 1, m.Len(), "keys that are never read again must not accumulate")
}

func TestMemoryEvictsOldestAtCapacity(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(0, 3)
	m.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Set(ctx, key, []byte(key)))
		now = now.Add(time.Second)
	}
	assert.Equal(t, 3, m.Len())

	_, ok, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "oldest entry is evicted first")
	for _, key := range []string{"b", "c", "d"} {
		_, ok, err := m.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, key)
	}

	// Overwriting an existing key never evicts.
	require.NoError(t, m.Set(ctx, "d", []byte("d2")))
	assert.Equal(t, 3, m.Len())
}

func TestMemoryDefaultCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0, -1)

	for i := 0; i < constants.DefaultCacheMaxEntries+10; i++ {
		require.NoError(t, m.Set(ctx, Key([]byte{byte(i)}), []byte{byte(i)}))
	}
	assert.Equal(t, constants.DefaultCacheMaxEntries, m.Len())
}

func TestMemoryKeepsValueStoredAfterExpiredRead(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(time.Minute, 0)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("old")))
	readAt := now.Add(2 * time.Minute)

	// A reader saw the old entry expire at readAt, then a writer stored a
	// fresh value before the reader took the write lock.
	now = readAt
	require.NoError(t, m.Set(ctx, "k", []byte("new")))
	m.dropExpired("k", readAt)

	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestNewRedisIsLazy(t *testing.T) {
	r := NewRedis("127.0.0.1:0", time.Minute)
	require.NotNil(t, r)
	assert.NoError(t, r.Close())
}

var (
	_ Cache = (*Memory)(nil)
	_ Cache = (*Redis)(nil)
)
