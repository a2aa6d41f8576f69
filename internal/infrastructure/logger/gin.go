package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Request areas used to split access logs
const (
	AreaStorefront = "storefront"
	AreaAdmin      = "admin"
	AreaSystem     = "system"
)

// GinMiddleware attaches a request logger to the request context and writes
// one access entry per request. Cart session and user IDs added by later
// middleware end up on the entry. It must run after RequestID.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		reqLogger := base.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		if id := GetRequestID(ctx); id != "" {
			reqLogger = reqLogger.With(zap.String(FieldRequestID, id))
		}
		c.Request = c.Request.WithContext(WithContext(ctx, reqLogger))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("area", Area(c.FullPath())),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		l := L(c.Request.Context())
		switch {
		case status >= http.StatusInternalServerError:
			l.Error("HTTP Request", fields...)
		case status >= http.StatusBadRequest:
			l.Warn("HTTP Request", fields...)
		default:
			l.Info("HTTP Request", fields...)
		}
	}
}

// Area classifies a route template as admin, storefront or system traffic
func Area(route string) string {
	switch {
	case strings.Contains(route, "/admin"):
		return AreaAdmin
	case strings.Contains(route, "/api/"):
		return AreaStorefront
	default:
		return AreaSystem
	}
}

// Recovery turns a panic into a 500 envelope and logs it with whatever
// request, session and user IDs the request had collected.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				base.With(Fields(ctx)...).Error("Panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success":    false,
					"request_id": GetRequestID(ctx),
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "An unexpected error occurred",
					},
				})
			}
		}()
		c.Next()
	}
}

// FromGin returns the request logger of c
func FromGin(c *gin.Context) *zap.Logger {
	return L(c.Request.Context())
}
