package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agrisupply/backend/internal/infrastructure/cache"
	"github.com/agrisupply/backend/internal/infrastructure/logger"
	"github.com/agrisupply/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader is the request header clients send to make a
// mutating request safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects repeated requests carrying the same Idempotency-Key
// within the given TTL. Requests without the header pass through untouched.
// A store failure fails open: losing duplicate protection is preferable to
// rejecting a legitimate submission.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		scopedKey := c.Request.Method + ":" + c.FullPath() + ":" + key
		isNew, err := store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			logger.GetGinLogger(c).Warn("idempotency store unavailable, allowing request",
				zap.String("idempotency_key", key),
				zap.Error(err))
			c.Next()
			return
		}

		if !isNew {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponseWithRequestID("DUPLICATE_REQUEST",
					"a request with this idempotency key was already processed", requestID))
			return
		}

		c.Next()
	}
}
