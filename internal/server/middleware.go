// internal/server/middleware.go
package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voice-order-gateway/internal/common/metrics"
	"voice-order-gateway/internal/common/observability"
)

// RequestIDMiddleware attaches a correlation id to every request,
// preferring one supplied by the caller.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// MetricsMiddleware records request counts and durations per endpoint.
func MetricsMiddleware(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(endpoint, status).Inc()
		if obs != nil {
			obs.RecordRequest(c.Request.Context(), endpoint, status)
			obs.RecordRequestDuration(c.Request.Context(), endpoint, time.Since(start))
		}
	}
}
