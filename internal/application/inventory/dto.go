package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/shared"
)

// ReceiveRequest records a stock delivery
type ReceiveRequest struct {
	ProductID    uuid.UUID  `json:"product_id" binding:"required"`
	SupplierID   uuid.UUID  `json:"supplier_id" binding:"required"`
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	ReceivedDate *time.Time `json:"received_date"`
	Notes        string     `json:"notes" binding:"max=500"`
}

// AmendRequest changes a recorded delivery. The product cannot change.
type AmendRequest struct {
	SupplierID   uuid.UUID  `json:"supplier_id" binding:"required"`
	Quantity     int        `json:"quantity" binding:"required,min=1"`
	ReceivedDate *time.Time `json:"received_date"`
	Notes        string     `json:"notes" binding:"max=500"`
}

// ReceiptListQuery holds the receipt list parameters
type ReceiptListQuery struct {
	ProductID  *uuid.UUID `form:"product_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	Quantity     int       `json:"quantity"`
	ReceivedDate time.Time `json:"received_date"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToReceiptResponse converts a domain Receipt to ReceiptResponse
func ToReceiptResponse(r *inventory.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		SupplierID:   r.SupplierID,
		SupplierName: r.SupplierName,
		Quantity:     r.Quantity,
		ReceivedDate: r.ReceivedDate,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
	}
}

// LedgerResult is the outcome of a ledger write
type LedgerResult struct {
	shared.Result
	Receipt   *ReceiptResponse `json:"receipt,omitempty"`
	Shortfall int              `json:"shortfall,omitempty"`
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
