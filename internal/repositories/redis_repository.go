package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/api/middleware"
	"github.com/Gsweya/hweibo-prototype/internal/config"
	"github.com/redis/go-redis/v9"
)

// RateLimitRepository counts requests per caller in a sliding window.
type RateLimitRepository interface {
	// Allow records one request for key and reports whether it is within the
	// limit, how many remain, and how long to wait when it is not.
	Allow(ctx context.Context, key string) (allowed bool, remaining int, retryAfter time.Duration, err error)
}

type redisRepository struct {
	client *redis.Client
	cfg    config.RateConfig
	now    func() time.Time
	seq    atomic.Uint64
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	redisURL := cfg.RedisConnect.GetDSN()
	slog.Info("Connecting to Redis", slog.String("url", fmt.Sprintf("redis://%s:<password>@%s:%s", cfg.RedisConnect.Username, cfg.RedisConnect.Host, cfg.RedisConnect.Port)))

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis")
	return client, nil

}

func NewRateLimitRepo(client *redis.Client, cfg config.RateConfig) RateLimitRepository {
	return newRateLimitRepo(client, cfg, time.Now)
}

func newRateLimitRepo(client *redis.Client, cfg config.RateConfig, now func() time.Time) *redisRepository {
	return &redisRepository{client: client, cfg: cfg, now: now}
}

func (r *redisRepository) Allow(ctx context.Context, key string) (bool, int, time.Duration, error) {

	logger := middleware.LoggerFromContext(ctx)

	redisKey := "prompt_rate:" + key

	now := r.now()
	nowMs := now.UnixMilli()
	windowStart := nowMs - r.cfg.WindowSize.Milliseconds()

	// Members must be unique or requests in the same millisecond collapse.
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatUint(r.seq.Add(1), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(nowMs), Member: member})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, r.cfg.WindowSize)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", redisKey), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	if attempts <= r.cfg.MaxAttempts {
		remaining := int(r.cfg.MaxAttempts - attempts)
		logger.Debug("Rate limit check passed", slog.String("key", redisKey), slog.Int64("attempts", attempts), slog.Int("remaining", remaining))
		return true, remaining, 0, nil
	}

	oldest, err := r.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil {
		logger.Error("Failed to get oldest request time for rate limit", slog.String("key", redisKey), slog.Any("error", err))
		return false, 0, r.cfg.WindowSize, fmt.Errorf("failed to get oldest request time: %w", err)
	}
	if len(oldest) == 0 {
		return false, 0, r.cfg.WindowSize, nil
	}

	retryAfter := max(time.Duration(int64(oldest[0].Score)+r.cfg.WindowSize.Milliseconds()-nowMs)*time.Millisecond, 0)

	logger.Warn("Rate limit exceeded", slog.String("key", redisKey), slog.Int64("attempts", attempts))
	return false, 0, retryAfter, nil
}
