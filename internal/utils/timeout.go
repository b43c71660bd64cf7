package utils

import (
	"context"
	"time"
)

// DefaultCacheTimeout bounds a single receipt cache round trip.
const DefaultCacheTimeout = 2 * time.Second

func WithCacheTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultCacheTimeout)
}
