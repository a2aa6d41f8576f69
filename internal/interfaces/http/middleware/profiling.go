package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shop/storefront/internal/infrastructure/telemetry"
)

const adminPathPrefix = "/api/v1/admin"

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are matched exactly (health checks)
	SkipPaths []string
	// SkipPathPrefixes are matched by prefix (swagger UI)
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig attaches pyroscope labels to the goroutine serving the
// request so CPU profiles can be split by route, method and area
// (storefront or admin back-office).
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipProfiling(cfg, path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(cfg ProfilingConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{
		telemetry.LabelMethod: c.Request.Method,
		telemetry.LabelArea:   areaForPath(c.Request.URL.Path),
	}
	// route pattern, never the raw path
	if route := c.FullPath(); route != "" {
		labels[telemetry.LabelRoute] = route
	}
	return labels
}

func areaForPath(path string) string {
	if path == adminPathPrefix || strings.HasPrefix(path, adminPathPrefix+"/") {
		return "admin"
	}
	return "storefront"
}
