package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/infrastructure/auth"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestToken(t *testing.T, svc *auth.JWTService, roles ...string) (*auth.TokenPair, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: userID,
		Email:  "shopper@example.com",
		Roles:  roles,
	})
	require.NoError(t, err)
	return pair, userID
}

func authRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/me", func(c *gin.Context) {
		id, ok := GetUserUUID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String(), "authenticated": ok, "manager": CanManageStore(c)})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService()

	t.Run("valid token", func(t *testing.T) {
		pair, userID := newTestToken(t, svc, "Customer")
		w := doGet(authRouter(JWTAuth(svc, nil, nil)), pair.AccessToken)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), `"manager":false`)
	})

	t.Run("missing header", func(t *testing.T) {
		w := doGet(authRouter(JWTAuth(svc, nil, nil)), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doGet(authRouter(JWTAuth(svc, nil, nil)), "not-a-jwt")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, _ := newTestToken(t, svc, "Customer")
		w := doGet(authRouter(JWTAuth(svc, nil, nil)), pair.RefreshToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-chars",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "test-issuer",
		})
		pair, _ := newTestToken(t, expired, "Customer")
		w := doGet(authRouter(JWTAuth(svc, nil, nil)), pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})
}

func TestJWTAuth_Revocation(t *testing.T) {
	svc := newTestJWTService()
	ctx := context.Background()

	t.Run("revoked jti", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		pair, _ := newTestToken(t, svc, "Customer")
		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		require.NoError(t, bl.Revoke(ctx, claims.ID, time.Minute))

		w := doGet(authRouter(JWTAuth(svc, bl, nil)), pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_REVOKED")
	})

	t.Run("revoked user", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		pair, userID := newTestToken(t, svc, "Customer")
		require.NoError(t, bl.RevokeUser(ctx, userID.String(), time.Hour))

		w := doGet(authRouter(JWTAuth(svc, bl, nil)), pair.AccessToken)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unrelated revocation", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.RevokeUser(ctx, uuid.NewString(), time.Hour))
		pair, _ := newTestToken(t, svc, "Customer")

		w := doGet(authRouter(JWTAuth(svc, bl, nil)), pair.AccessToken)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService()
	r := authRouter(OptionalJWTAuth(svc, nil, nil))

	t.Run("anonymous", func(t *testing.T) {
		w := doGet(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("bad token is ignored", func(t *testing.T) {
		w := doGet(r, "garbage")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("valid token", func(t *testing.T) {
		pair, userID := newTestToken(t, svc, "Manager")
		w := doGet(r, pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), `"manager":true`)
	})
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name     string
		roles    []string
		guard    gin.HandlerFunc
		expected int
	}{
		{"admin in back office", []string{"Admin"}, RequireStoreManager(), http.StatusOK},
		{"manager in back office", []string{"Manager"}, RequireStoreManager(), http.StatusOK},
		{"customer in back office", []string{"Customer"}, RequireStoreManager(), http.StatusForbidden},
		{"manager in user admin", []string{"Manager"}, RequireAdmin(), http.StatusForbidden},
		{"admin in user admin", []string{"Admin", "Customer"}, RequireAdmin(), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, _ := newTestToken(t, svc, tt.roles...)
			w := doGet(authRouter(JWTAuth(svc, nil, nil), tt.guard), pair.AccessToken)
			assert.Equal(t, tt.expected, w.Code)
		})
	}

	t.Run("without authentication", func(t *testing.T) {
		w := doGet(authRouter(RequireAdmin()), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetJWTClaims_NotFound(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetJWTClaims(c))
	assert.Empty(t, GetJWTUserID(c))
	_, ok := GetUserUUID(c)
	assert.False(t, ok)
	assert.False(t, CanManageStore(c))
}
