package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/financas/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type failingStore struct{}

func (failingStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("store unavailable")
}

func (failingStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("store unavailable")
}

func (failingStore) Close() error { return nil }

func newIdempotencyRouter(cfg IdempotencyConfig) *gin.Engine {
	router := gin.New()
	router.Use(Idempotency(cfg))
	router.POST("/movements", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	})
	router.GET("/movements", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestIdempotency_DuplicateKeyRejected(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	router := newIdempotencyRouter(IdempotencyConfig{Store: store})

	req := httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_REQUEST")
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	router := newIdempotencyRouter(IdempotencyConfig{Store: store})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/movements", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestIdempotency_ReadsIgnored(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	router := newIdempotencyRouter(IdempotencyConfig{Store: store})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/movements", nil)
		req.Header.Set(IdempotencyKeyHeader, "same-key")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestIdempotency_OversizeKeyRejected(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	router := newIdempotencyRouter(IdempotencyConfig{Store: store})

	req := httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, strings.Repeat("k", MaxIdempotencyKeyLength+1))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_IDEMPOTENCY_KEY")
}

func TestIdempotency_StoreFailureFailsOpen(t *testing.T) {
	router := newIdempotencyRouter(IdempotencyConfig{
		Store:  failingStore{},
		Logger: zap.NewNop(),
	})

	req := httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestIdempotency_KeysScopedPerUser(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	defer store.Close()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(JWTUserIDKey, c.GetHeader("X-Test-User"))
	})
	router.Use(Idempotency(IdempotencyConfig{Store: store}))
	router.POST("/movements", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"status": "created"})
	})

	req := httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, "shared-key")
	req.Header.Set("X-Test-User", "user-a")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Same key from a different user must not collide
	req = httptest.NewRequest(http.MethodPost, "/movements", nil)
	req.Header.Set(IdempotencyKeyHeader, "shared-key")
	req.Header.Set("X-Test-User", "user-b")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
