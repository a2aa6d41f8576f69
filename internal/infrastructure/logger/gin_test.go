package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// shopRouter mimics the server chain: request id, recovery, access log,
// then the cart session and identity middleware
func shopRouter(base *zap.Logger, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
		c.Next()
	})
	r.Use(Recovery(base), GinMiddleware(base))

	api := r.Group("/api/v1", func(c *gin.Context) {
		ctx := WithSessionID(c.Request.Context(), "sess-42")
		if userID != "" {
			ctx = WithUserID(ctx, userID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	api.GET("/cart", func(c *gin.Context) {
		FromGin(c).Info("cart viewed")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	api.POST("/checkout", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"success": false})
	})
	api.GET("/admin/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})
	api.GET("/orders/:id", func(c *gin.Context) {
		panic("order view exploded")
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func accessEntry(t *testing.T, logs *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := logs.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_AccessEntry(t *testing.T) {
	t.Run("carries request, cart session and user", func(t *testing.T) {
		base, logs := observed()
		w := httptest.NewRecorder()
		shopRouter(base, "user-7").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cart?coupon=x", nil))

		entry := accessEntry(t, logs)
		fields := entry.ContextMap()
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		assert.Equal(t, "req-42", fields[FieldRequestID])
		assert.Equal(t, "sess-42", fields[FieldSessionID])
		assert.Equal(t, "user-7", fields[FieldUserID])
		assert.Equal(t, AreaStorefront, fields["area"])
		assert.Equal(t, "/api/v1/cart", fields["route"])
		assert.Equal(t, "coupon=x", fields["query"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	})

	t.Run("handler log lines share the request fields", func(t *testing.T) {
		base, logs := observed()
		shopRouter(base, "").ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		entries := logs.FilterMessage("cart viewed").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "sess-42", fields[FieldSessionID])
		assert.NotContains(t, fields, FieldUserID)
	})

	tests := []struct {
		name   string
		method string
		path   string
		level  zapcore.Level
		area   string
	}{
		{"refused checkout is a warning", http.MethodPost, "/api/v1/checkout", zapcore.WarnLevel, AreaStorefront},
		{"admin failure is an error", http.MethodGet, "/api/v1/admin/dashboard", zapcore.ErrorLevel, AreaAdmin},
		{"health check is system traffic", http.MethodGet, "/health", zapcore.InfoLevel, AreaSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, logs := observed()
			shopRouter(base, "").ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))

			entry := accessEntry(t, logs)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.area, entry.ContextMap()["area"])
		})
	}
}

func TestArea(t *testing.T) {
	assert.Equal(t, AreaAdmin, Area("/api/v1/admin/products/:id"))
	assert.Equal(t, AreaStorefront, Area("/api/v1/products/:id"))
	assert.Equal(t, AreaSystem, Area("/images/*path"))
	assert.Equal(t, AreaSystem, Area(""))
}

func TestRecovery(t *testing.T) {
	base, logs := observed()
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		shopRouter(base, "user-9").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders/abc", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.Contains(t, w.Body.String(), `"request_id":"req-42"`)

	panics := logs.FilterMessage("Panic recovered").All()
	require.Len(t, panics, 1)
	fields := panics[0].ContextMap()
	assert.Equal(t, "req-42", fields[FieldRequestID])
	assert.Equal(t, "sess-42", fields[FieldSessionID])
	assert.Equal(t, "user-9", fields[FieldUserID])
	assert.Equal(t, "order view exploded", fields["error"])
}

func TestFromGin_OutsideRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	assert.NotPanics(t, func() { FromGin(c).Info("dropped") })
}
