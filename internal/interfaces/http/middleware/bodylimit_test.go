package middleware

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imageUpload builds an admin product form with an image of size bytes
func imageUpload(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	require.NoError(t, form.WriteField("data", `{"name":"Sencha","price":"12.50"}`))
	part, err := form.CreateFormFile("image", "sencha.jpg")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, size))
	require.NoError(t, err)
	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

func bodyLimitRouter(jsonMax, uploadMax int64) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), BodyLimit(jsonMax, uploadMax))
	read := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusRequestEntityTooLarge, "body too large")
			return
		}
		c.String(http.StatusOK, "ok")
	}
	router.POST("/contact", read)
	router.POST("/admin/products", read)
	router.GET("/products", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return router
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("contact message within the JSON limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contact",
			strings.NewReader(`{"name":"Ann","email":"ann@example.com","subject":"Hi","message":"Hello"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		bodyLimitRouter(1024, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized JSON is refused before the handler with the request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(strings.Repeat("x", 200)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-413")
		w := httptest.NewRecorder()
		bodyLimitRouter(100, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
		assert.Contains(t, w.Body.String(), "req-413")
	})

	t.Run("image upload larger than the JSON limit passes under the upload limit", func(t *testing.T) {
		body, contentType := imageUpload(t, 2048)
		req := httptest.NewRequest(http.MethodPost, "/admin/products", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		bodyLimitRouter(1024, 8192).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("image upload over the upload limit is refused", func(t *testing.T) {
		body, contentType := imageUpload(t, 8192)
		req := httptest.NewRequest(http.MethodPost, "/admin/products", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		bodyLimitRouter(1<<20, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("chunked body is cut off while streaming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		bodyLimitRouter(50, 4096).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "body too large", w.Body.String())
	})

	t.Run("catalog browsing without a body is untouched", func(t *testing.T) {
		w := httptest.NewRecorder()
		bodyLimitRouter(1, 1).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("zero limit disables the cap", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(strings.Repeat("x", 500)))
		w := httptest.NewRecorder()
		bodyLimitRouter(0, 0).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
