package cart

import (
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a product to the session cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" form:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" form:"quantity" binding:"omitempty,min=1"`
}

// LineQuantity is one entry of a bulk quantity update
type LineQuantity struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// UpdateQuantitiesRequest sets quantities for several lines at once.
// A quantity of zero or less removes the line.
type UpdateQuantitiesRequest struct {
	Lines []LineQuantity `json:"lines" binding:"required,dive"`
}

// ItemResponse is a cart line with its subtotal
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartView is the cart page model
type CartView struct {
	Items     []ItemResponse  `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// CartResult is a cart command outcome with the resulting cart
type CartResult struct {
	shared.Result
	Cart CartView `json:"cart"`
}

// ToCartView converts a cart to its page model
func ToCartView(c cart.Cart) CartView {
	items := c.Items()
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = ItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			ImageURL:    it.ImageURL,
			Subtotal:    it.Subtotal(),
		}
	}
	return CartView{Items: out, ItemCount: c.Count(), Total: c.Total()}
}
