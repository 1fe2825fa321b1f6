package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/ledger/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryIdempotencyStore_RememberAndLookup(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := newInMemoryIdempotencyStore(time.Hour, clock.Now)
	defer store.Close()
	ctx := context.Background()

	t.Run("new key is stored", func(t *testing.T) {
		isNew, err := store.Remember(ctx, "till-1", "payment-a", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)

		id, found, err := store.Lookup(ctx, "till-1")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "payment-a", id)
	})

	t.Run("existing key keeps its first result", func(t *testing.T) {
		isNew, err := store.Remember(ctx, "till-1", "payment-b", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)

		id, _, err := store.Lookup(ctx, "till-1")
		require.NoError(t, err)
		assert.Equal(t, "payment-a", id)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, found, err := store.Lookup(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired key is forgotten and can be reused", func(t *testing.T) {
		_, err := store.Remember(ctx, "till-2", "payment-c", time.Minute)
		require.NoError(t, err)
		clock.Advance(time.Minute)

		_, found, err := store.Lookup(ctx, "till-2")
		require.NoError(t, err)
		assert.False(t, found)

		isNew, err := store.Remember(ctx, "till-2", "payment-d", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	store := newInMemoryIdempotencyStore(time.Hour, clock.Now)
	defer store.Close()
	ctx := context.Background()

	for i := range 5 {
		_, err := store.Remember(ctx, fmt.Sprintf("k-%d", i), "r", time.Duration(i+1)*time.Minute)
		require.NoError(t, err)
	}
	clock.Advance(3 * time.Minute)
	store.cleanup()
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_ConcurrentRemember(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := store.Remember(context.Background(), "same-key", fmt.Sprint(i), time.Hour)
			assert.NoError(t, err)
			if isNew {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}

func TestIdempotencyStoreFactory(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{}, config.IdempotencyConfig{Backend: "memory"})
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("redis unreachable falls back", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachable, config.IdempotencyConfig{Backend: "redis"})
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("redis required", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(unreachable, config.IdempotencyConfig{Backend: "redis"}, WithInMemoryFallback(false))
		_, err := f.CreateStore(ctx)
		assert.Error(t, err)
	})
}
