// Package inventory models stock receipts: records of units delivered by a
// supplier. Each receipt is mirrored in the product's stock level.
package inventory

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Receipt documents stock received from a supplier
type Receipt struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID
	SupplierID   uuid.UUID
	Quantity     int
	ReceivedDate time.Time
	Notes        string

	ProductName  string
	SupplierName string
}

// NewReceipt creates a receipt. A zero receivedDate defaults to now.
func NewReceipt(productID, supplierID uuid.UUID, quantity int, receivedDate time.Time, notes string) (*Receipt, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}
	if err := validateNotes(notes); err != nil {
		return nil, err
	}
	if receivedDate.IsZero() {
		receivedDate = time.Now()
	}

	r := &Receipt{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		SupplierID:        supplierID,
		Quantity:          quantity,
		ReceivedDate:      receivedDate,
		Notes:             notes,
	}
	r.AddDomainEvent(NewStockReceivedEvent(r, quantity))
	return r, nil
}

// Amend changes the receipt and returns the signed stock delta to apply to
// the product (new quantity minus old quantity).
func (r *Receipt) Amend(supplierID uuid.UUID, quantity int, receivedDate time.Time, notes string) (delta int, err error) {
	if supplierID == uuid.Nil {
		return 0, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if err := validateQuantity(quantity); err != nil {
		return 0, err
	}
	if err := validateNotes(notes); err != nil {
		return 0, err
	}

	delta = quantity - r.Quantity
	r.SupplierID = supplierID
	r.Quantity = quantity
	if !receivedDate.IsZero() {
		r.ReceivedDate = receivedDate
	}
	r.Notes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	if delta != 0 {
		r.AddDomainEvent(NewStockReceivedEvent(r, delta))
	}
	return delta, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	return nil
}

func validateNotes(notes string) error {
	if utf8.RuneCountInString(notes) > 500 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 500 characters")
	}
	return nil
}

// Filter keys understood by ReceiptRepository.FindAll / Count
const (
	FilterProductID  = "product_id"
	FilterSupplierID = "supplier_id"
)

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)
	// FindAll lists receipts newest received first
	FindAll(ctx context.Context, filter shared.Filter) ([]Receipt, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, receipt *Receipt) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Aggregate type constant
const AggregateTypeReceipt = "InventoryReceipt"

// EventTypeStockReceived is published when a receipt changes stock
const EventTypeStockReceived = "StockReceived"

// StockReceivedEvent carries the signed stock change caused by a receipt
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ReceiptID uuid.UUID `json:"receipt_id"`
	ProductID uuid.UUID `json:"product_id"`
	Delta     int       `json:"delta"`
}

// NewStockReceivedEvent creates a new StockReceivedEvent
func NewStockReceivedEvent(r *Receipt, delta int) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeReceipt, r.ID),
		ReceiptID:       r.ID,
		ProductID:       r.ProductID,
		Delta:           delta,
	}
}
