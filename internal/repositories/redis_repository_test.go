package repository

import (
	"testing"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func setupRateLimiter(t *testing.T, max int64, window time.Duration) (*redisRepository, *fakeClock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	repo := newRateLimitRepo(client, config.RateConfig{MaxAttempts: max, WindowSize: window}, clk.Now)
	return repo, clk, mr
}

func TestAllow(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Requests within the limit", func(t *testing.T) {
		// Arrange
		repo, _, _ := setupRateLimiter(t, 3, time.Minute)

		// Act & Assert
		for want := 2; want >= 0; want-- {
			allowed, remaining, retry, err := repo.Allow(ctx, "sess-1")
			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, want, remaining)
			assert.Zero(t, retry)
		}
	})

	t.Run("Failure - Over the limit reports when to retry", func(t *testing.T) {
		repo, clk, _ := setupRateLimiter(t, 2, time.Minute)
		_, _, _, err := repo.Allow(ctx, "sess-1")
		require.NoError(t, err)
		clk.now = clk.now.Add(10 * time.Second)
		_, _, _, err = repo.Allow(ctx, "sess-1")
		require.NoError(t, err)
		clk.now = clk.now.Add(5 * time.Second)

		allowed, remaining, retry, err := repo.Allow(ctx, "sess-1")

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 45*time.Second, retry)
	})

	t.Run("Success - Same instant requests are all counted", func(t *testing.T) {
		repo, _, _ := setupRateLimiter(t, 2, time.Minute)

		var results []bool
		for range 3 {
			allowed, _, _, err := repo.Allow(ctx, "burst")
			require.NoError(t, err)
			results = append(results, allowed)
		}

		assert.Equal(t, []bool{true, true, false}, results)
	})

	t.Run("Success - Window slides", func(t *testing.T) {
		repo, clk, _ := setupRateLimiter(t, 1, time.Minute)
		allowed, _, _, err := repo.Allow(ctx, "sess-1")
		require.NoError(t, err)
		require.True(t, allowed)

		clk.now = clk.now.Add(61 * time.Second)
		allowed, _, _, err = repo.Allow(ctx, "sess-1")

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Success - Keys are independent", func(t *testing.T) {
		repo, _, _ := setupRateLimiter(t, 1, time.Minute)
		_, _, _, _ = repo.Allow(ctx, "a")

		allowed, _, _, err := repo.Allow(ctx, "b")

		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("Success - Key expires with the window", func(t *testing.T) {
		repo, _, mr := setupRateLimiter(t, 5, time.Minute)
		_, _, _, err := repo.Allow(ctx, "sess-1")
		require.NoError(t, err)

		assert.Equal(t, time.Minute, mr.TTL("prompt_rate:sess-1"))
	})

	t.Run("Failure - Redis unavailable", func(t *testing.T) {
		repo, _, mr := setupRateLimiter(t, 5, time.Minute)
		mr.Close()

		allowed, _, _, err := repo.Allow(ctx, "sess-1")

		assert.Error(t, err)
		assert.False(t, allowed)
	})
}
