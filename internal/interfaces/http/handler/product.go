package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/shop/storefront/internal/application/catalog"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/shared"
)

// ProductService is the back-office product management
type ProductService interface {
	List(ctx context.Context, query appcatalog.ProductListQuery) (*appcatalog.ProductListView, error)
	Get(ctx context.Context, id uuid.UUID) (*appcatalog.ProductResponse, error)
	Create(ctx context.Context, req appcatalog.CreateProductRequest, image *appshared.ImageUpload) (*appcatalog.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req appcatalog.UpdateProductRequest, image *appshared.ImageUpload) (*appcatalog.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID, force bool) (shared.Result, error)
	ToggleFlag(ctx context.Context, id uuid.UUID, flag string) (*appcatalog.ToggleResponse, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*appcatalog.ToggleResponse, error)
	ExportCSV(ctx context.Context, query appcatalog.ProductListQuery, w io.Writer) (string, error)
}

// ProductHandler handles back-office product endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// listQuery builds the admin filters shared by the listing and the export
func (h *ProductHandler) listQuery(c *gin.Context) (appcatalog.ProductListQuery, bool) {
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return appcatalog.ProductListQuery{}, false
	}
	supplierID, ok := h.optionalUUIDQuery(c, "supplier_id")
	if !ok {
		return appcatalog.ProductListQuery{}, false
	}
	query := appcatalog.ProductListQuery{
		CategoryID: categoryID,
		SupplierID: supplierID,
		SearchTerm: c.Query("search"),
		ActiveOnly: boolQuery(c, "active_only"),
		SortOrder:  c.Query("sort"),
		Page:       pageQuery(c),
	}
	if !h.validateQuery(c, &query) {
		return appcatalog.ProductListQuery{}, false
	}
	return query, true
}

// List godoc
// @ID           adminListProducts
// @Summary      List products
// @Description  10 per page with category and supplier options for the filters
// @Tags         admin-products
// @Produce      json
// @Param        category_id query string false "Category ID"
// @Param        supplier_id query string false "Supplier ID"
// @Param        search      query string false "Search in name and description"
// @Param        active_only query bool   false "Only active products"
// @Param        sort        query string false "name_desc, price, price_desc, date, date_desc"
// @Param        page        query int    false "Page number"
// @Success      200 {object} APIResponse[appcatalog.ProductListView]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	query, ok := h.listQuery(c)
	if !ok {
		return
	}
	view, err := h.products.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Get godoc
// @ID           adminGetProduct
// @Summary      Product details
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[appcatalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @ID           adminCreateProduct
// @Summary      Create a product
// @Description  JSON body, or multipart with the JSON in "data" and an optional "image" file
// @Tags         admin-products
// @Accept       json,mpfd
// @Produce      json
// @Param        request body appcatalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[appcatalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req appcatalog.CreateProductRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	product, err := h.products.Create(c.Request.Context(), req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @ID           adminUpdateProduct
// @Summary      Edit a product
// @Description  Send the version read earlier to detect concurrent edits
// @Tags         admin-products
// @Accept       json,mpfd
// @Produce      json
// @Param        id      path string                          true "Product ID"
// @Param        request body appcatalog.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[appcatalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appcatalog.UpdateProductRequest
	image, release, ok := h.bindWithImage(c, &req)
	defer release()
	if !ok {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req, image)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           adminDeleteProduct
// @Summary      Delete a product
// @Description  Refused while order lines reference it unless force=true
// @Tags         admin-products
// @Produce      json
// @Param        id    path  string true  "Product ID"
// @Param        force query bool   false "Delete even when ordered"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.products.Delete(c.Request.Context(), id, boolQuery(c, "force"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result, nil)
}

// ToggleFlag godoc
// @ID           adminToggleProductFlag
// @Summary      Flip a merchandising flag
// @Tags         admin-products
// @Produce      json
// @Param        id   path string true "Product ID"
// @Param        flag path string true "featured, new_arrival, on_sale or best_seller"
// @Success      200 {object} APIResponse[appcatalog.ToggleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/toggle/{flag} [post]
func (h *ProductHandler) ToggleFlag(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resp, err := h.products.ToggleFlag(c.Request.Context(), id, c.Param("flag"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, resp.Result, gin.H{"value": resp.Value})
}

// ToggleActive godoc
// @ID           adminToggleProductActive
// @Summary      Show or hide a product on the storefront
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[appcatalog.ToggleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/toggle-active [post]
func (h *ProductHandler) ToggleActive(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	resp, err := h.products.ToggleActive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, resp.Result, gin.H{"value": resp.Value})
}

// ExportCSV godoc
// @ID           adminExportProducts
// @Summary      Export products as CSV
// @Description  Every product matching the filters, ignoring paging and active_only
// @Tags         admin-products
// @Produce      text/csv
// @Param        category_id query string false "Category ID"
// @Param        supplier_id query string false "Supplier ID"
// @Param        search      query string false "Search in name and description"
// @Param        sort        query string false "Sort key"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/export [get]
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	query, ok := h.listQuery(c)
	if !ok {
		return
	}
	// buffered so a failed export can still answer with a JSON error
	var buf bytes.Buffer
	filename, err := h.products.ExportCSV(c.Request.Context(), query, &buf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
