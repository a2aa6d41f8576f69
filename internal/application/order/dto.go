package order

import (
	"time"

	"github.com/google/uuid"
	appcart "github.com/shop/storefront/internal/application/cart"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CheckoutRequest is the checkout form
type CheckoutRequest struct {
	ShippingName       string `json:"shipping_name" form:"shipping_name" binding:"required,max=100"`
	ShippingAddress    string `json:"shipping_address" form:"shipping_address" binding:"required,max=500"`
	ShippingCity       string `json:"shipping_city" form:"shipping_city" binding:"required,max=100"`
	ShippingPostalCode string `json:"shipping_postal_code" form:"shipping_postal_code" binding:"max=20"`
	ShippingCountry    string `json:"shipping_country" form:"shipping_country" binding:"required,max=100"`
	ShippingPhone      string `json:"shipping_phone" form:"shipping_phone" binding:"required,max=50"`
	PaymentMethod      string `json:"payment_method" form:"payment_method" binding:"max=50"`
	Notes              string `json:"notes" form:"notes" binding:"max=1000"`
}

func (r CheckoutRequest) shipping() order.Shipping {
	return order.Shipping{
		Name:       r.ShippingName,
		Address:    r.ShippingAddress,
		City:       r.ShippingCity,
		PostalCode: r.ShippingPostalCode,
		Country:    r.ShippingCountry,
		Phone:      r.ShippingPhone,
	}
}

// CheckoutView is the checkout page: the cart and a form pre-filled from the profile
type CheckoutView struct {
	Cart appcart.CartView `json:"cart"`
	Form CheckoutRequest  `json:"form"`
}

func prefill(u *identity.User) CheckoutRequest {
	if u == nil {
		return CheckoutRequest{}
	}
	name := u.FullName()
	if name == u.Email {
		name = ""
	}
	return CheckoutRequest{
		ShippingName:       name,
		ShippingAddress:    u.Address,
		ShippingCity:       u.City,
		ShippingPostalCode: u.PostalCode,
		ShippingCountry:    u.Country,
		ShippingPhone:      u.Phone,
	}
}

// CheckoutResult reports a checkout attempt. OrderID is set on success.
type CheckoutResult struct {
	shared.Result
	OrderID *uuid.UUID `json:"order_id,omitempty"`
}

// ItemResponse is an order line
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is an order with its lines
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	UserID             uuid.UUID           `json:"user_id"`
	CustomerEmail      string              `json:"customer_email,omitempty"`
	CustomerName       string              `json:"customer_name,omitempty"`
	OrderDate          time.Time           `json:"order_date"`
	TotalAmount        decimal.Decimal     `json:"total_amount"`
	Status             order.Status        `json:"status"`
	PaymentStatus      order.PaymentStatus `json:"payment_status"`
	PaymentMethod      string              `json:"payment_method,omitempty"`
	ShippingName       string              `json:"shipping_name"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingPostalCode string              `json:"shipping_postal_code,omitempty"`
	ShippingCountry    string              `json:"shipping_country"`
	ShippingPhone      string              `json:"shipping_phone"`
	Notes              string              `json:"notes,omitempty"`
	ItemCount          int                 `json:"item_count"`
	CanCancel          bool                `json:"can_cancel"`
	Items              []ItemResponse      `json:"items"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
	}
	return OrderResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		CustomerEmail:      o.CustomerEmail,
		CustomerName:       o.CustomerName,
		OrderDate:          o.OrderDate,
		TotalAmount:        o.TotalAmount,
		Status:             o.Status,
		PaymentStatus:      o.PaymentStatus,
		PaymentMethod:      o.PaymentMethod,
		ShippingName:       o.Shipping.Name,
		ShippingAddress:    o.Shipping.Address,
		ShippingCity:       o.Shipping.City,
		ShippingPostalCode: o.Shipping.PostalCode,
		ShippingCountry:    o.Shipping.Country,
		ShippingPhone:      o.Shipping.Phone,
		Notes:              o.Notes,
		ItemCount:          o.ItemCount(),
		CanCancel:          o.CanCancel(),
		Items:              items,
	}
}

// AdminListQuery holds the back-office order list parameters
type AdminListQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Page   int    `form:"page"`
}

// AdminListView is the back-office order list with the status options
type AdminListView struct {
	Orders   shared.Paginated[OrderResponse] `json:"orders"`
	Statuses []order.Status                  `json:"statuses"`
	Query    AdminListQuery                  `json:"query"`
}

// UpdateStatusRequest is the back-office status override
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}
