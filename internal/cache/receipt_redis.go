package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gsweya/hweibo-prototype/internal/models"
	"github.com/redis/go-redis/v9"
)

type redisReceiptCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReceiptCache(client *redis.Client, ttl time.Duration) ReceiptCache {
	if ttl <= 0 {
		ttl = DefaultReceiptTTL
	}
	return &redisReceiptCache{client: client, ttl: ttl}
}

func (r *redisReceiptCache) Put(ctx context.Context, sessionID string, receipt *models.OrderReceipt) error {
	key := Key(ReceiptKeyPrefix, sessionID, receipt.OrderID)

	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt %s: %w", receipt.OrderID, err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s in redis: %w", key, err)
	}

	return nil
}

func (r *redisReceiptCache) Get(ctx context.Context, sessionID, orderID string) (*models.OrderReceipt, bool, error) {
	key := Key(ReceiptKeyPrefix, sessionID, orderID)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get key %s from redis: %w", key, err)
	}

	var receipt models.OrderReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal receipt for key %s: %w", key, err)
	}

	return &receipt, true, nil
}

// Close is a no-op; the client is shared and closed by its owner.
func (r *redisReceiptCache) Close() error {
	return nil
}
