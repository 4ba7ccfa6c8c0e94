package logger

import (
	"time"

	"earlywrapped/pkg/idgen"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestLogger tags each request with an id, picks up the active trace
// context when tracing is on, and logs one line when the request completes.
func RequestLogger(log Logger, ids idgen.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = ids.GenerateID()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		fields := []Field{{Key: RequestIDKey, Value: requestID}}
		span := trace.SpanFromContext(c.Request.Context())
		if sc := span.SpanContext(); sc.IsValid() {
			c.Set("trace_id", sc.TraceID().String())
			c.Set("span_id", sc.SpanID().String())
			fields = append(fields,
				Field{Key: "trace_id", Value: sc.TraceID().String()},
				Field{Key: "span_id", Value: sc.SpanID().String()},
			)
		}

		c.Next()

		fields = append(fields,
			Field{Key: "method", Value: c.Request.Method},
			Field{Key: "path", Value: c.Request.URL.Path},
			Field{Key: "status", Value: c.Writer.Status()},
			Field{Key: "latency", Value: time.Since(start)},
		)

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request completed", fields...)
		case c.Writer.Status() >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	}
}
