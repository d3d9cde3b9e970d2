package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/agrisupply/backend/internal/infrastructure/cache"
)

func newIdempotencyRouter(store cache.IdempotencyStore, ttl time.Duration) *gin.Engine {
	router := gin.New()
	router.POST("/submit", Idempotency(store, ttl), func(c *gin.Context) {
		c.String(http.StatusCreated, "created")
	})
	return router
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("passes through without header", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		router := newIdempotencyRouter(store, time.Hour)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("accepts first request with key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		router := newIdempotencyRouter(store, time.Hour)

		req := httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rejects replay with same key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		router := newIdempotencyRouter(store, time.Hour)

		req := httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		req = httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "abc-123")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "DUPLICATE_REQUEST")
	})

	t.Run("different keys are independent", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		router := newIdempotencyRouter(store, time.Hour)

		for _, key := range []string{"key-a", "key-b"} {
			req := httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
			req.Header.Set(IdempotencyKeyHeader, key)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusCreated, w.Code)
		}
	})

	t.Run("allows retry after TTL expires", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		router := newIdempotencyRouter(store, 10*time.Millisecond)

		req := httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "expiring")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)

		time.Sleep(20 * time.Millisecond)

		req = httptest.NewRequest("POST", "/submit", strings.NewReader("{}"))
		req.Header.Set(IdempotencyKeyHeader, "expiring")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
