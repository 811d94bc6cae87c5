package middleware

import (
	"net/http"
	"time"

	"github.com/financas/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader carries the client-chosen key for deduplicating
// retried mutations.
const IdempotencyKeyHeader = "Idempotency-Key"

// MaxIdempotencyKeyLength caps the accepted key length.
const MaxIdempotencyKeyLength = 128

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a mutation whose Idempotency-Key was already processed
// within the TTL. The key is optional: requests without one pass through.
// Keys are scoped per user so clients cannot collide across accounts.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_IDEMPOTENCY_KEY",
					"message": "Idempotency key is too long",
				},
			})
			return
		}

		scoped := GetJWTUserID(c) + ":" + key

		fresh, err := cfg.Store.MarkProcessed(c.Request.Context(), scoped, ttl)
		if err != nil {
			// The store being down must not block financial writes
			if cfg.Logger != nil {
				cfg.Logger.Warn("idempotency check failed, letting request through",
					zap.Error(err),
				)
			}
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DUPLICATE_REQUEST",
					"message": "Request with this idempotency key was already processed",
				},
			})
			return
		}

		c.Next()
	}
}
