package cooldown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_FirstReserveWins(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(60 * time.Second)
	key := "6f1c2a1e-8c1b-4d7e-9a55-0b1d2f3e4a5b:0912345678"

	left, err := l.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, left, "первый запрос занимает окно")

	left, err = l.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Greater(t, left, 50*time.Second)
	assert.LessOrEqual(t, left, 61*time.Second)
}

func TestLimiter_ConcurrentReserveGrantsOneWindow(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(60 * time.Second)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			left, err := l.Reserve(ctx, "a:0912345678")
			assert.NoError(t, err)
			if err == nil && left == 0 {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, granted)
}

func TestLimiter_ReleaseAllowsImmediateRetry(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(60 * time.Second)
	key := "a:0912345678"

	left, err := l.Reserve(ctx, key)
	require.NoError(t, err)
	require.Zero(t, left)

	require.NoError(t, l.Release(ctx, key))

	left, err = l.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(60 * time.Second)

	_, err := l.Reserve(ctx, "a:0912345678")
	require.NoError(t, err)

	left, err := l.Reserve(ctx, "a:0987654321")
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestLimiter_Expires(t *testing.T) {
	ctx := context.Background()
	l := NewMemory(time.Second)
	key := "a:0912345678"

	_, err := l.Reserve(ctx, key)
	require.NoError(t, err)
	left, err := l.Reserve(ctx, key)
	require.NoError(t, err)
	assert.NotZero(t, left)

	time.Sleep(1100 * time.Millisecond)

	left, err = l.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestDisabled(t *testing.T) {
	var d Disabled
	for i := 0; i < 2; i++ {
		left, err := d.Reserve(context.Background(), "k")
		require.NoError(t, err)
		assert.Zero(t, left)
	}
	require.NoError(t, d.Release(context.Background(), "k"))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("test mode disables window", func(t *testing.T) {
		w, err := New(true, 60*time.Second, nil)
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, w)

		for i := 0; i < 2; i++ {
			left, err := w.Reserve(ctx, "k")
			require.NoError(t, err)
			assert.Zero(t, left)
		}
	})

	t.Run("zero interval disables window", func(t *testing.T) {
		w, err := New(false, 0, nil)
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, w)
	})

	t.Run("memory store without redis", func(t *testing.T) {
		w, err := New(false, 60*time.Second, nil)
		require.NoError(t, err)
		require.IsType(t, &Limiter{}, w)

		left, err := w.Reserve(ctx, "k")
		require.NoError(t, err)
		assert.Zero(t, left)
		left, err = w.Reserve(ctx, "k")
		require.NoError(t, err)
		assert.NotZero(t, left)
	})

	t.Run("redis store when client given", func(t *testing.T) {
		// Хранилище Redis загружает скрипты при создании, поэтому
		// недоступный сервер виден сразу.
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer client.Close()

		w, err := New(false, 60*time.Second, client)
		require.Error(t, err)
		assert.Nil(t, w)
		assert.Contains(t, err.Error(), "cooldown: redis store")
	})
}
