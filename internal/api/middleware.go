package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saxenaaman628/wfh-poll/internal/logging"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs its start and end.
// The tagged logger is stored in the request context for handlers to use.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		log := slog.Default().With("request_id", requestID)
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), log))

		log.Info("request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"remote", c.ClientIP(),
		)

		c.Next()

		log.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
