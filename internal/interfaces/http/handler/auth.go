package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/application/identity"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/shop/storefront/internal/interfaces/http/middleware"
)

// AuthService signs users in and out and manages their own account
type AuthService interface {
	Register(ctx context.Context, req identity.RegisterRequest) (*identity.AuthResult, error)
	Login(ctx context.Context, req identity.LoginRequest) (*identity.AuthResult, error)
	Refresh(ctx context.Context, req identity.RefreshRequest) (*identity.TokenResponse, error)
	Logout(ctx context.Context, input identity.LogoutInput) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*identity.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req identity.ProfileFields) (*identity.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req identity.ChangePasswordRequest) (*shared.Result, error)
}

// AuthHandler handles authentication endpoints. The refresh token is
// returned in the body and, when a cookie name is configured, also set as
// an HttpOnly cookie scoped to /api/v1/auth.
type AuthHandler struct {
	BaseHandler
	auth   AuthService
	cookie config.CookieConfig
	now    func() time.Time
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, cookie config.CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie, now: time.Now}
}

// Register godoc
// @ID           register
// @Summary      Create a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RegisterRequest true "Account details"
// @Success      201 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setRefreshCookie(c, result.TokenResponse)
	h.Created(c, result)
}

// Login godoc
// @ID           login
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identity.AuthResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setRefreshCookie(c, result.TokenResponse)
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Rotate the token pair
// @Description  The refresh token is read from the body, or from the cookie when the body has none
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest false "Refresh token"
// @Success      200 {object} APIResponse[identity.TokenResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	// an empty body is allowed when the cookie carries the token
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = middleware.RefreshTokenFromCookie(c, h.cookie)
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setRefreshCookie(c, *tokens)
	h.Success(c, tokens)
}

// Logout godoc
// @ID           logout
// @Summary      Sign out
// @Description  Revokes the access token and the refresh token, if one is sent
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest false "Refresh token to revoke"
// @Success      200 {object} ResultResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identity.RefreshRequest
	if c.Request.ContentLength != 0 {
		if !h.bindJSON(c, &req) {
			return
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = middleware.RefreshTokenFromCookie(c, h.cookie)
	}

	err := h.auth.Logout(c.Request.Context(), identity.LogoutInput{
		AccessJTI:    claims.ID,
		AccessTTL:    claims.GetRemainingTTL(),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	middleware.ClearRefreshCookie(c, h.cookie)
	h.Result(c, shared.Ok("Logged out successfully"), nil)
}

// LogoutAll godoc
// @ID           logoutAll
// @Summary      Sign out everywhere
// @Description  Revokes every token issued to the caller so far
// @Tags         auth
// @Produce      json
// @Success      200 {object} ResultResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	if err := h.auth.LogoutAll(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	middleware.ClearRefreshCookie(c, h.cookie)
	h.Result(c, shared.Ok("Signed out of all sessions"), nil)
}

// Me godoc
// @ID           getMe
// @Summary      The signed-in user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateProfile godoc
// @ID           updateProfile
// @Summary      Edit the caller's profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ProfileFields true "Profile"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req identity.ProfileFields
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change the caller's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.ChangePasswordRequest true "Passwords"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req identity.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.ChangePassword(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, tokens identity.TokenResponse) {
	maxAge := int(tokens.RefreshTokenExpiresAt.Sub(h.now()).Seconds())
	if maxAge <= 0 {
		return
	}
	middleware.SetRefreshCookie(c, h.cookie, tokens.RefreshToken, maxAge)
}
