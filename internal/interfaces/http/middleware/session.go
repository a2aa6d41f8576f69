package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/shop/storefront/internal/infrastructure/logger"
)

// SessionIDKey is the gin context key holding the cart session ID
const SessionIDKey = "session_id"

// CartSession makes sure every request carries a cart session ID.
// A missing or malformed cookie gets a fresh random ID; the cookie lives
// as long as the cart does.
func CartSession(cookie config.CookieConfig, ttlSeconds int) gin.HandlerFunc {
	name := cookie.CartSessionName
	if name == "" {
		name = "storefront_cart"
	}
	sameSite := parseSameSite(cookie.SameSite)

	return func(c *gin.Context) {
		sid, err := c.Cookie(name)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
		}
		// refresh on every request so the expiry slides with activity
		c.SetSameSite(sameSite)
		c.SetCookie(name, sid, ttlSeconds, cookiePath(cookie), cookie.Domain, cookie.Secure, true)

		c.Set(SessionIDKey, sid)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sid))
		c.Next()
	}
}

// GetSessionID returns the cart session ID set by CartSession
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

func cookiePath(cookie config.CookieConfig) string {
	if cookie.Path == "" {
		return "/"
	}
	return cookie.Path
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SetRefreshCookie stores the refresh token as an HttpOnly cookie scoped to the auth routes
func SetRefreshCookie(c *gin.Context, cookie config.CookieConfig, token string, maxAge int) {
	if cookie.RefreshTokenName == "" {
		return
	}
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(cookie.RefreshTokenName, token, maxAge, "/api/v1/auth", cookie.Domain, cookie.Secure, true)
}

// ClearRefreshCookie expires the refresh token cookie
func ClearRefreshCookie(c *gin.Context, cookie config.CookieConfig) {
	SetRefreshCookie(c, cookie, "", -1)
}

// RefreshTokenFromCookie reads the refresh token cookie, or "" when absent
func RefreshTokenFromCookie(c *gin.Context, cookie config.CookieConfig) string {
	if cookie.RefreshTokenName == "" {
		return ""
	}
	token, err := c.Cookie(cookie.RefreshTokenName)
	if err != nil {
		return ""
	}
	return token
}
