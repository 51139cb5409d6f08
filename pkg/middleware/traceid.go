package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const traceIDHeader = "X-Trace-ID"

// TraceIDMiddleware tags every request with a trace id. An id supplied by the
// caller is reused so a streaming turn and its follow-up state polls can be
// correlated in the logs.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(traceIDHeader, traceID)
		c.Next()
	}
}
