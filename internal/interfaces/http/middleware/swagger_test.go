package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg config.SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return r
}

func swaggerGet(r *gin.Engine, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	t.Run("disabled answers 404", func(t *testing.T) {
		w := swaggerGet(swaggerRouter(config.SwaggerConfig{}, nil), "10.0.0.1:1234")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})

	t.Run("enabled without restrictions", func(t *testing.T) {
		w := swaggerGet(swaggerRouter(config.SwaggerConfig{Enabled: true}, nil), "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("allow list", func(t *testing.T) {
		r := swaggerRouter(config.SwaggerConfig{
			Enabled:    true,
			AllowedIPs: []string{"192.168.1.10", "10.1.0.0/16", "not-an-ip"},
		}, nil)

		assert.Equal(t, http.StatusOK, swaggerGet(r, "192.168.1.10:5000").Code)
		assert.Equal(t, http.StatusOK, swaggerGet(r, "10.1.200.3:5000").Code)
		assert.Equal(t, http.StatusForbidden, swaggerGet(r, "10.2.0.1:5000").Code)
	})

	t.Run("require auth delegates to the jwt middleware", func(t *testing.T) {
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) }
		allow := func(c *gin.Context) {}

		assert.Equal(t, http.StatusUnauthorized,
			swaggerGet(swaggerRouter(config.SwaggerConfig{Enabled: true, RequireAuth: true}, deny), "10.0.0.1:1").Code)
		assert.Equal(t, http.StatusOK,
			swaggerGet(swaggerRouter(config.SwaggerConfig{Enabled: true, RequireAuth: true}, allow), "10.0.0.1:1").Code)
	})
}

func TestParseAllowList(t *testing.T) {
	prefixes := parseAllowList([]string{" 127.0.0.1 ", "::1", "172.16.0.0/12", "bogus", "300.1.1.1/8"})
	assert.Len(t, prefixes, 3)
	assert.True(t, ipAllowed("172.20.1.1", prefixes))
	assert.True(t, ipAllowed("::1", prefixes))
	assert.False(t, ipAllowed("", prefixes))
}
