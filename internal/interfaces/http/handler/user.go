package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/application/identity"
	"github.com/shop/storefront/internal/domain/shared"
)

// UserService is the Admin-only user administration
type UserService interface {
	List(ctx context.Context, query identity.UserListQuery) (*identity.UserListView, error)
	Get(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error)
	Update(ctx context.Context, actorID, id uuid.UUID, req identity.UpdateUserRequest) (*shared.Result, error)
	SetRoles(ctx context.Context, actorID, id uuid.UUID, req identity.SetRolesRequest) (*shared.Result, error)
}

// UserHandler handles user management HTTP requests
type UserHandler struct {
	BaseHandler
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List godoc
// @ID           adminListUsers
// @Summary      List users with their roles
// @Tags         admin-users
// @Produce      json
// @Param        search query string false "Search in email and name"
// @Param        role   query string false "Admin, Manager or Customer"
// @Param        page   query int    false "Page number"
// @Success      200 {object} APIResponse[identity.UserListView]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	view, err := h.users.List(c.Request.Context(), identity.UserListQuery{
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Page:   pageQuery(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Get godoc
// @ID           adminGetUser
// @Summary      User details
// @Tags         admin-users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[identity.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update godoc
// @ID           adminUpdateUser
// @Summary      Edit a user's profile and, optionally, roles
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "User ID"
// @Param        request body identity.UpdateUserRequest true "Profile and roles"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.users.Update(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}

// SetRoles godoc
// @ID           adminSetUserRoles
// @Summary      Replace a user's roles
// @Description  An admin cannot remove their own Admin role
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "User ID"
// @Param        request body identity.SetRolesRequest true "Roles"
// @Success      200 {object} ResultResponse
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/users/{id}/roles [put]
func (h *UserHandler) SetRoles(c *gin.Context) {
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req identity.SetRolesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.users.SetRoles(c.Request.Context(), actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}
