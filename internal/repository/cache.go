package repository

import (
	"context"
	"time"
)

// CacheRepository caches rendered analytics payloads. Prediction calls are
// never cached; each submission is an independent exchange with the model
// service.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
