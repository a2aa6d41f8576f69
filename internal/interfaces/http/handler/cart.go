package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/shop/storefront/internal/application/cart"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/interfaces/http/middleware"
)

// CartService manages the session cart
type CartService interface {
	Get(ctx context.Context, sessionID string) (appcart.CartView, error)
	Add(ctx context.Context, sessionID string, req appcart.AddItemRequest) (*appcart.CartResult, error)
	UpdateQuantities(ctx context.Context, sessionID string, req appcart.UpdateQuantitiesRequest) (*appcart.CartResult, error)
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*appcart.CartResult, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartHandler serves the anonymous cart, keyed by the cart session cookie
type CartHandler struct {
	BaseHandler
	carts CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get godoc
// @ID           getCart
// @Summary      View the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[appcart.CartView]
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.carts.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Add godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Refused with success=false when stock does not cover the cart quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.AddItemRequest true "Product and quantity (default 1)"
// @Success      200 {object} APIResponse[appcart.CartView]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	var req appcart.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.carts.Add(c.Request.Context(), middleware.GetSessionID(c), req)
	h.respond(c, result, err)
}

// Update godoc
// @ID           updateCart
// @Summary      Set line quantities
// @Description  A quantity of zero or less removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body appcart.UpdateQuantitiesRequest true "New quantities"
// @Success      200 {object} APIResponse[appcart.CartView]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/items [put]
func (h *CartHandler) Update(c *gin.Context) {
	var req appcart.UpdateQuantitiesRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.carts.UpdateQuantities(c.Request.Context(), middleware.GetSessionID(c), req)
	h.respond(c, result, err)
}

// Remove godoc
// @ID           removeCartItem
// @Summary      Remove a product from the cart
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} APIResponse[appcart.CartView]
// @Failure      400 {object} ErrorResponse
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "productId")
	if !ok {
		return
	}
	result, err := h.carts.Remove(c.Request.Context(), middleware.GetSessionID(c), productID)
	h.respond(c, result, err)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} ResultResponse
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, shared.Ok("Cart cleared"), appcart.ToCartView(cart.New()))
}

func (h *CartHandler) respond(c *gin.Context, result *appcart.CartResult, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Result(c, result.Result, result.Cart)
}
