package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apporder "github.com/shop/storefront/internal/application/order"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/interfaces/http/middleware"
)

// CheckoutService turns a session cart into an order
type CheckoutService interface {
	Form(ctx context.Context, userID uuid.UUID, sessionID string) (*apporder.CheckoutView, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, sessionID string, req apporder.CheckoutRequest) (*apporder.CheckoutResult, error)
}

// OrderService serves customer and back-office order operations
type OrderService interface {
	MyOrders(ctx context.Context, userID uuid.UUID) ([]apporder.OrderResponse, error)
	Get(ctx context.Context, viewer apporder.Viewer, id uuid.UUID) (*apporder.OrderResponse, error)
	Cancel(ctx context.Context, userID, id uuid.UUID) (*shared.Result, error)
	AdminList(ctx context.Context, query apporder.AdminListQuery) (*apporder.AdminListView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req apporder.UpdateStatusRequest) (*shared.Result, error)
}

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	BaseHandler
	checkout CheckoutService
	orders   OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout CheckoutService, orders OrderService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

// CheckoutForm godoc
// @ID           getCheckout
// @Summary      Checkout form
// @Description  The cart with a shipping form pre-filled from the profile
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[apporder.CheckoutView]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout [get]
func (h *OrderHandler) CheckoutForm(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	view, err := h.checkout.Form(c.Request.Context(), userID, middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Place an order from the cart
// @Description  All or nothing: a line without enough stock refuses the whole order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body apporder.CheckoutRequest true "Shipping details"
// @Success      200 {object} APIResponse[apporder.CheckoutResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /checkout [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req apporder.CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.checkout.PlaceOrder(c.Request.Context(), userID, middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	var data any
	if result.OrderID != nil {
		data = gin.H{"order_id": result.OrderID}
	}
	h.Result(c, result.Result, data)
}

// MyOrders godoc
// @ID           listMyOrders
// @Summary      The caller's orders, newest first
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]apporder.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.MyOrders(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// Get godoc
// @ID           getOrder
// @Summary      Order details
// @Description  Customers see only their own orders; store staff see any
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[apporder.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	viewer := apporder.Viewer{UserID: userID, CanManage: middleware.CanManageStore(c)}
	resp, err := h.orders.Get(c.Request.Context(), viewer, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Only pending or processing orders can be cancelled; stock is returned
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	result, err := h.orders.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}

// AdminList godoc
// @ID           adminListOrders
// @Summary      List orders
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "Order status"
// @Param        search query string false "Order id, shipping name or customer"
// @Param        page   query int    false "Page number"
// @Success      200 {object} APIResponse[apporder.AdminListView]
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) AdminList(c *gin.Context) {
	view, err := h.orders.AdminList(c.Request.Context(), apporder.AdminListQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   pageQuery(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// UpdateStatus godoc
// @ID           adminUpdateOrderStatus
// @Summary      Set an order's status
// @Description  Delivered also completes the payment
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Order ID"
// @Param        request body apporder.UpdateStatusRequest true "New status"
// @Success      200 {object} ResultResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req apporder.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, *result, nil)
}
