// Package middleware provides the gin middleware stack for the HTTP
// surface: request-id propagation, structured access logging, and
// JSON-envelope panic recovery.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/ocr-service/internal/common"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns (or propagates) a request id and attaches it to
// the request context for downstream components to log with.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, reqID)
		ctx := common.WithRequestID(c.Request.Context(), reqID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AccessLog emits one structured line per request, with the
// component/duration_ms field convention shared with
// every other component.
func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			"component", "httpapi",
			"request_id", common.RequestIDFromContext(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Recovery converts a panic in a handler into a 500 JSON error rather
// than letting gin's default recovery dump a bare-text stack trace,
// matching the {error} envelope every other failure path in this
// surface uses.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", "component", "httpapi", "panic", r, "path", c.FullPath())
				c.AbortWithStatusJSON(500, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
