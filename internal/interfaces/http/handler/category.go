package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shop/storefront/internal/application/catalog"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/shared"
)

// CategoryService is the back-office category management
type CategoryService interface {
	List(ctx context.Context, search string, page int) (shared.Paginated[appcatalog.CategoryResponse], error)
	ListAll(ctx context.Context, activeOnly bool) ([]appcatalog.CategoryResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*appcatalog.CategoryResponse, error)
	Create(ctx context.Context, req appcatalog.CategoryRequest, image *appshared.ImageUpload) (*appcatalog.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appcatalog.CategoryRequest, image *appshared.ImageUpload) (*appcatalog.CategoryResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*appcatalog.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (shared.Result, error)
}

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	categories CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Public godoc
// @ID           listCategories
// @Summary      Active categories in display order
// @Tags         storefront
// @Produce      json
// @Success      200 {object} APIResponse[[]appcatalog.CategoryResponse]
// @Router       /categories [get]
func (h *CategoryHandler) Public(c *gin.Context) {
	categories, err := h.categories.ListAll(c.Request.Context(), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// List godoc
// @ID           adminListCategories
// @Summary      List categories
// @Tags         admin-categories
// @Produce      json
// @Param        search query string false "Search in name and description"
// @Param        page   query int    false "Page number"
// @Success      200 {object} APIResponse[[]appcatalog.CategoryResponse]
// @Security     BearerAuth
// @Router       /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	page, err := h.categories.List(c.Request.Context(), c.Query("search"), pageQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get godoc
// @ID           adminGetCategory
// @Summary      Category details
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} APIResponse[appcatalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create godoc
// @ID           adminCreateCategory
// @Summary      Create a category
// @Description  JSON body, or multipart with the JSON in "data" and an optional "image" file
// @Tags         admin-categories
// @Accept       json,mpfd
// @Produce      json
// @Param        request body appcatalog.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[appcatalog.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req appcatalog.CategoryRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update godoc
// @ID           adminUpdateCategory
// @Summary      Edit a category
// @Description  A new image replaces the stored one
// @Tags         admin-categories
// @Accept       json,mpfd
// @Produce      json
// @Param        id      path string                     true "Category ID"
// @Param        request body appcatalog.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[appcatalog.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appcatalog.CategoryRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), id, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Activate godoc
// @ID           adminActivateCategory
// @Summary      Show a category in the shop
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} APIResponse[appcatalog.CategoryResponse]
// @Security     BearerAuth
// @Router       /admin/categories/{id}/activate [post]
func (h *CategoryHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate godoc
// @ID           adminDeactivateCategory
// @Summary      Hide a category from the shop
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} APIResponse[appcatalog.CategoryResponse]
// @Security     BearerAuth
// @Router       /admin/categories/{id}/deactivate [post]
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *CategoryHandler) setActive(c *gin.Context, active bool) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	category, err := h.categories.SetActive(c.Request.Context(), id, active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           adminDeleteCategory
// @Summary      Delete a category
// @Description  Refused while products are filed under it
// @Tags         admin-categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.categories.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result, nil)
}
