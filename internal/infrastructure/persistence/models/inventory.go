package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/inventory"
)

// ReceiptModel is the persistence model for an inventory receipt.
type ReceiptModel struct {
	AggregateModel
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SupplierID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity     int       `gorm:"not null"`
	ReceivedDate time.Time `gorm:"not null;index"`
	Notes        string    `gorm:"type:varchar(500)"`

	ProductName  string `gorm:"->;-:migration"`
	SupplierName string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "inventory_receipts"
}

// ToDomain converts the persistence model to a domain Receipt.
func (m *ReceiptModel) ToDomain() *inventory.Receipt {
	return &inventory.Receipt{
		BaseAggregateRoot: m.ToAggregateRoot(),
		ProductID:         m.ProductID,
		SupplierID:        m.SupplierID,
		Quantity:          m.Quantity,
		ReceivedDate:      m.ReceivedDate,
		Notes:             m.Notes,
		ProductName:       m.ProductName,
		SupplierName:      m.SupplierName,
	}
}

// FromDomain populates the persistence model from a domain Receipt.
func (m *ReceiptModel) FromDomain(r *inventory.Receipt) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ProductID = r.ProductID
	m.SupplierID = r.SupplierID
	m.Quantity = r.Quantity
	m.ReceivedDate = r.ReceivedDate
	m.Notes = r.Notes
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt.
func ReceiptModelFromDomain(r *inventory.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(r)
	return m
}
