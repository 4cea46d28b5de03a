package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userHTTP "github.com/allisson/users/internal/user/http"
)

// CustomLoggerMiddleware logs every request through slog once it completes.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", requestid.Get(c)),
			slog.String("correlation_id", c.GetHeader(userHTTP.HeaderCorrelationID)),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("http request", attrs...)
		case c.Writer.Status() >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}

// CorrelationIDMiddleware makes sure every request carries a correlation id and
// a request id header. A caller-supplied correlation id is kept; otherwise one is
// generated. Must run after the requestid middleware.
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(userHTTP.HeaderCorrelationID) == "" {
			c.Request.Header.Set(userHTTP.HeaderCorrelationID, uuid.Must(uuid.NewV7()).String())
		}
		if rid := requestid.Get(c); rid != "" {
			c.Request.Header.Set(userHTTP.HeaderRequestID, rid)
		}
		c.Next()
	}
}
