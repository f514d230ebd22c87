package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clearpay-api/internal/logger"
	"clearpay-api/internal/utils"
)

const traceKey = "trace_id"

// maxAuditBody bounds what gets copied into the audit log; callback bodies
// from the gateway can be large and partly sensitive.
const maxAuditBody = 2048

// TraceAudit assigns every request a trace id and writes one audit line per
// request: method, path, client ip, latency, truncated body. The trace id is
// echoed in X-Trace-ID so support can correlate user reports with the trail.
func TraceAudit() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.New().String()
		c.Set(traceKey, traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)

		var body string
		if c.Request.Body != nil {
			b, _ := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(b))
			body = utils.Truncate(string(b), maxAuditBody)
		}

		start := time.Now()
		c.Next()

		if logger.Audit == nil {
			return
		}
		logger.Audit.WithFields(map[string]interface{}{
			"trace_id":   traceID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"ip":         utils.GetClientIP(c),
			"latency_ms": time.Since(start).Milliseconds(),
			"body":       body,
		}).Info("request")
	}
}

// TraceID returns the request trace id, or a fresh one outside a request.
func TraceID(c *gin.Context) string {
	if v, ok := c.Get(traceKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
