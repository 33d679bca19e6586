package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/common/logger"
	"launchthat.app/portal/common/metrics"
)

// Logger logs every request and records it in the HTTP metrics. The route
// label is the matched pattern so ids do not blow up cardinality. When
// traceHeader is set, the request's trace id is echoed under that name.
func Logger(traceHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		if traceHeader != "" {
			if traceID := logger.TraceID(c.Request.Context()); traceID != "" {
				c.Header(traceHeader, traceID)
			}
		}
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		ctx := c.Request.Context()

		route := c.FullPath()
		metrics.ObserveHTTP(c.Request.Method, route, status, latency)

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"route", route,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "request failed", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "request error", attrs...)
		default:
			slog.InfoContext(ctx, "request", attrs...)
		}
	}
}
