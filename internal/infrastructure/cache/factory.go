package cache

import (
	"fmt"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/financas/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore creates an idempotency store for the deployment.
// Redis is preferred; when it is unreachable the store falls back to the
// in-memory implementation, which is enough for a single instance.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err == nil {
		logger.Info("using Redis idempotency store", zap.String("addr", cfg.Addr()))
		return store, nil
	}

	logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// NewRequiredRedisStore creates a Redis store and fails if Redis is unreachable
func NewRequiredRedisStore(cfg config.RedisConfig) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}
	return store, nil
}
