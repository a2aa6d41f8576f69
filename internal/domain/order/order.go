// Package order models customer orders and their fulfilment lifecycle.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is an immutable order line with the price captured at purchase time
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// Shipping is the delivery address of an order
type Shipping struct {
	Name       string
	Address    string
	City       string
	PostalCode string
	Country    string
	Phone      string
}

// Validate checks required shipping fields
func (s Shipping) Validate() error {
	required := []struct{ field, value string }{
		{"name", s.Name},
		{"address", s.Address},
		{"city", s.City},
		{"country", s.Country},
		{"phone", s.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return shared.NewDomainError("INVALID_SHIPPING", fmt.Sprintf("Shipping %s is required", r.field))
		}
	}
	for _, c := range s.Phone {
		if !strings.ContainsRune("0123456789 +-()", c) {
			return shared.NewDomainError("INVALID_SHIPPING", "Invalid shipping phone format")
		}
	}
	return nil
}

// Order is the aggregate root for a placed purchase
type Order struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID
	OrderDate     time.Time
	TotalAmount   decimal.Decimal
	Status        Status
	PaymentStatus PaymentStatus
	PaymentMethod string
	Shipping      Shipping
	Notes         string
	Items         []Item

	// Read-side customer details filled by repositories
	CustomerEmail string
	CustomerName  string

	placed bool
}

// New starts a pending order for userID. Items are added before Place.
func New(userID uuid.UUID, shipping Shipping, paymentMethod, notes string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Order owner is required")
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OrderDate:         time.Now(),
		TotalAmount:       decimal.Zero,
		Status:            StatusPending,
		PaymentStatus:     PaymentPending,
		PaymentMethod:     paymentMethod,
		Shipping:          shipping,
		Notes:             notes,
	}, nil
}

// Rehydrate marks an order loaded from storage as already placed
func Rehydrate(o *Order) *Order {
	o.placed = true
	return o
}

// AddItem appends a line priced at unitPrice. Lines cannot be added once placed.
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) error {
	if o.placed {
		return shared.NewDomainError("INVALID_STATE", "Items cannot be added to a placed order")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	o.Items = append(o.Items, Item{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})
	return nil
}

// Place totals the lines and seals the order
func (o *Order) Place() error {
	if o.placed {
		return shared.NewDomainError("INVALID_STATE", "Order already placed")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal)
	}
	o.TotalAmount = total
	o.placed = true
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return nil
}

// IsPlaced reports whether the order is sealed
func (o *Order) IsPlaced() bool {
	return o.placed
}

// CanCancel reports whether the owner may cancel the order
func (o *Order) CanCancel() bool {
	return o.Status.IsCancellable()
}

// IsOwnedBy reports whether userID placed the order
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// Cancel is the customer-initiated cancellation. Callers restore stock from Items.
func (o *Order) Cancel() error {
	if !o.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in status %s cannot be cancelled", o.Status))
	}
	previous := o.Status
	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o, previous))
	return nil
}

// SetStatus is the back-office override. Any valid status is accepted;
// Delivered also marks the payment Completed. Stock is not touched.
func (o *Order) SetStatus(status Status) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(status))
	}
	previous := o.Status
	o.Status = status
	if status == StatusDelivered {
		o.PaymentStatus = PaymentCompleted
	}
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	if previous != status {
		o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous))
	}
	return nil
}

// ItemCount is the number of units across all lines
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ProductIDs lists the distinct products ordered, in line order
func (o *Order) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, it := range o.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
