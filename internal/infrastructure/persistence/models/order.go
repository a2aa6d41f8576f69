package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
type OrderModel struct {
	AggregateModel
	UserID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	OrderDate          time.Time           `gorm:"not null;index"`
	TotalAmount        decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	OrderStatus        order.Status        `gorm:"type:varchar(20);not null;index"`
	PaymentStatus      order.PaymentStatus `gorm:"type:varchar(20);not null"`
	PaymentMethod      string              `gorm:"type:varchar(50)"`
	ShippingName       string              `gorm:"type:varchar(100);not null"`
	ShippingAddress    string              `gorm:"type:varchar(500);not null"`
	ShippingCity       string              `gorm:"type:varchar(100);not null"`
	ShippingPostalCode string              `gorm:"type:varchar(20)"`
	ShippingCountry    string              `gorm:"type:varchar(100);not null"`
	ShippingPhone      string              `gorm:"type:varchar(50);not null"`
	Notes              string              `gorm:"type:text"`
	Items              []OrderItemModel    `gorm:"foreignKey:OrderID"`

	CustomerEmail     string `gorm:"->;-:migration"`
	CustomerFirstName string `gorm:"->;-:migration"`
	CustomerLastName  string `gorm:"->;-:migration"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a placed domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		OrderDate:         m.OrderDate,
		TotalAmount:       m.TotalAmount,
		Status:            m.OrderStatus,
		PaymentStatus:     m.PaymentStatus,
		PaymentMethod:     m.PaymentMethod,
		Shipping: order.Shipping{
			Name:       m.ShippingName,
			Address:    m.ShippingAddress,
			City:       m.ShippingCity,
			PostalCode: m.ShippingPostalCode,
			Country:    m.ShippingCountry,
			Phone:      m.ShippingPhone,
		},
		Notes:         m.Notes,
		CustomerEmail: m.CustomerEmail,
		Items:         make([]order.Item, 0, len(m.Items)),
	}
	if name := joinName(m.CustomerFirstName, m.CustomerLastName); name != "" {
		o.CustomerName = name
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return order.Rehydrate(o)
}

// FromDomain populates the persistence model from a domain Order, items included.
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.UserID = o.UserID
	m.OrderDate = o.OrderDate
	m.TotalAmount = o.TotalAmount
	m.OrderStatus = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.PaymentMethod = o.PaymentMethod
	m.ShippingName = o.Shipping.Name
	m.ShippingAddress = o.Shipping.Address
	m.ShippingCity = o.Shipping.City
	m.ShippingPostalCode = o.Shipping.PostalCode
	m.ShippingCountry = o.Shipping.Country
	m.ShippingPhone = o.Shipping.Phone
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(o.Items[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:          m.ID,
		OrderID:     m.OrderID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
	}
}

// FromDomain populates the persistence model from a domain order Item.
func (m *OrderItemModel) FromDomain(it order.Item) {
	m.ID = it.ID
	m.OrderID = it.OrderID
	m.ProductID = it.ProductID
	m.ProductName = it.ProductName
	m.Quantity = it.Quantity
	m.UnitPrice = it.UnitPrice
	m.Subtotal = it.Subtotal
}
