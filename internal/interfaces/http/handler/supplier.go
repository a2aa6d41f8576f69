package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shop/storefront/internal/application/catalog"
	"github.com/shop/storefront/internal/domain/shared"
)

// SupplierService is the back-office supplier management
type SupplierService interface {
	List(ctx context.Context, search string, page int) (shared.Paginated[appcatalog.SupplierResponse], error)
	Options(ctx context.Context) ([]appcatalog.Option, error)
	Get(ctx context.Context, id uuid.UUID) (*appcatalog.SupplierResponse, error)
	Create(ctx context.Context, req appcatalog.SupplierRequest) (*appcatalog.SupplierResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appcatalog.SupplierRequest) (*appcatalog.SupplierResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (shared.Result, error)
}

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	BaseHandler
	suppliers SupplierService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(suppliers SupplierService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

// List godoc
// @ID           adminListSuppliers
// @Summary      List suppliers
// @Tags         admin-suppliers
// @Produce      json
// @Param        search query string false "Search in name, contact and email"
// @Param        page   query int    false "Page number"
// @Success      200 {object} APIResponse[[]appcatalog.SupplierResponse]
// @Security     BearerAuth
// @Router       /admin/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	page, err := h.suppliers.List(c.Request.Context(), c.Query("search"), pageQuery(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Options godoc
// @ID           adminSupplierOptions
// @Summary      Supplier id/name pairs for pickers
// @Tags         admin-suppliers
// @Produce      json
// @Success      200 {object} APIResponse[[]appcatalog.Option]
// @Security     BearerAuth
// @Router       /admin/suppliers/options [get]
func (h *SupplierHandler) Options(c *gin.Context) {
	options, err := h.suppliers.Options(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, options)
}

// Get godoc
// @ID           adminGetSupplier
// @Summary      Supplier details
// @Tags         admin-suppliers
// @Produce      json
// @Param        id path string true "Supplier ID"
// @Success      200 {object} APIResponse[appcatalog.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/suppliers/{id} [get]
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	supplier, err := h.suppliers.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Create godoc
// @ID           adminCreateSupplier
// @Summary      Create a supplier
// @Tags         admin-suppliers
// @Accept       json
// @Produce      json
// @Param        request body appcatalog.SupplierRequest true "Supplier"
// @Success      201 {object} APIResponse[appcatalog.SupplierResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req appcatalog.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.suppliers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// Update godoc
// @ID           adminUpdateSupplier
// @Summary      Edit a supplier
// @Tags         admin-suppliers
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Supplier ID"
// @Param        request body appcatalog.SupplierRequest true "Supplier"
// @Success      200 {object} APIResponse[appcatalog.SupplierResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appcatalog.SupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	supplier, err := h.suppliers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// Delete godoc
// @ID           adminDeleteSupplier
// @Summary      Delete a supplier
// @Description  Refused while products or inventory receipts reference it
// @Tags         admin-suppliers
// @Produce      json
// @Param        id path string true "Supplier ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.suppliers.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result, nil)
}
