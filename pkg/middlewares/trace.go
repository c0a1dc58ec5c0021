package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nimeshabuddhika/credit-approval-web/pkg"
	"github.com/nimeshabuddhika/credit-approval-web/pkg/utils"
	"go.uber.org/zap"
)

// TraceID returns Gin middleware that attaches a trace ID to every request.
// An inbound X-Trace-Id is reused, otherwise a new UUID is minted.
func TraceID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.Request.Header.Get(pkg.HeaderTraceId)
		if utils.IsEmpty(traceID) {
			traceID = uuid.New().String()
		}
		c.Set(pkg.TraceId, traceID)
		c.Writer.Header().Set(pkg.HeaderTraceId, traceID)

		c.Next()

		logger.Debug("request served",
			zap.String(pkg.TraceId, traceID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
