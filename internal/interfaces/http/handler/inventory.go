package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinventory "github.com/shop/storefront/internal/application/inventory"
	"github.com/shop/storefront/internal/domain/shared"
)

// LedgerService records stock received from suppliers
type LedgerService interface {
	List(ctx context.Context, query appinventory.ReceiptListQuery) (shared.Paginated[appinventory.ReceiptResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*appinventory.ReceiptResponse, error)
	Receive(ctx context.Context, req appinventory.ReceiveRequest) (*appinventory.LedgerResult, error)
	Amend(ctx context.Context, id uuid.UUID, req appinventory.AmendRequest) (*appinventory.LedgerResult, error)
	Retract(ctx context.Context, id uuid.UUID) (*appinventory.LedgerResult, error)
}

// InventoryHandler handles the inventory receipt ledger
type InventoryHandler struct {
	BaseHandler
	ledger LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// List godoc
// @ID           adminListReceipts
// @Summary      List inventory receipts, newest received first
// @Tags         admin-inventory
// @Produce      json
// @Param        product_id  query string false "Product ID"
// @Param        supplier_id query string false "Supplier ID"
// @Param        search      query string false "Search in product, supplier and notes"
// @Param        page        query int    false "Page number"
// @Success      200 {object} APIResponse[[]appinventory.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	productID, ok := h.optionalUUIDQuery(c, "product_id")
	if !ok {
		return
	}
	supplierID, ok := h.optionalUUIDQuery(c, "supplier_id")
	if !ok {
		return
	}
	page, err := h.ledger.List(c.Request.Context(), appinventory.ReceiptListQuery{
		ProductID:  productID,
		SupplierID: supplierID,
		Search:     c.Query("search"),
		Page:       pageQuery(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get godoc
// @ID           adminGetReceipt
// @Summary      Receipt details
// @Tags         admin-inventory
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} APIResponse[appinventory.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	receipt, err := h.ledger.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// Receive godoc
// @ID           adminReceiveStock
// @Summary      Record received stock
// @Description  Adds the quantity to the product's stock in the same transaction
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        request body appinventory.ReceiveRequest true "Receipt"
// @Success      201 {object} APIResponse[appinventory.LedgerResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory [post]
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req appinventory.ReceiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Amend godoc
// @ID           adminAmendReceipt
// @Summary      Correct a receipt
// @Description  Stock moves by the difference between the new and old quantity
// @Tags         admin-inventory
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Receipt ID"
// @Param        request body appinventory.AmendRequest true "Receipt"
// @Success      200 {object} APIResponse[appinventory.LedgerResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{id} [put]
func (h *InventoryHandler) Amend(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req appinventory.AmendRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.ledger.Amend(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result.Result, result)
}

// Retract godoc
// @ID           adminRetractReceipt
// @Summary      Delete a receipt
// @Description  Takes the quantity back out of stock, clamping at zero
// @Tags         admin-inventory
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} APIResponse[appinventory.LedgerResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{id} [delete]
func (h *InventoryHandler) Retract(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.ledger.Retract(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result.Result, result)
}
