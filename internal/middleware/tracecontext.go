package middleware

import (
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "go.opentelemetry.io/otel/trace"
)

const (
  headerTraceID   = "X-Trace-Id"
  headerRequestID = "X-Request-Id"
)

// AttachTraceContext echoes trace and request IDs back to the caller so a
// failed API call can be correlated with server traces. The trace ID comes
// from the active span when one exists.
func AttachTraceContext() gin.HandlerFunc {
  return func(c *gin.Context) {
    reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
    if reqID == "" {
      reqID = uuid.New().String()
    }
    traceID := strings.TrimSpace(c.GetHeader(headerTraceID))
    if traceID == "" {
      spanCtx := trace.SpanContextFromContext(c.Request.Context())
      if spanCtx.HasTraceID() {
        traceID = spanCtx.TraceID().String()
      }
    }
    if traceID == "" {
      traceID = uuid.New().String()
    }
    c.Set("trace_id", traceID)
    c.Set("request_id", reqID)
    c.Writer.Header().Set(headerTraceID, traceID)
    c.Writer.Header().Set(headerRequestID, reqID)
    c.Next()
  }
}
