package catalog

import (
	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated     = "ProductCreated"
	EventTypeProductFlagToggled = "ProductFlagToggled"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	CategoryID uuid.UUID `json:"category_id"`
	Stock      int       `json:"stock"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Name:            product.Name,
		CategoryID:      product.CategoryID,
		Stock:           product.Stock,
	}
}

// ProductFlagToggledEvent is published when a merchandising flag changes
type ProductFlagToggledEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID   `json:"product_id"`
	Flag      ProductFlag `json:"flag"`
	Value     bool        `json:"value"`
}

// NewProductFlagToggledEvent creates a new ProductFlagToggledEvent
func NewProductFlagToggledEvent(product *Product, flag ProductFlag, value bool) *ProductFlagToggledEvent {
	return &ProductFlagToggledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductFlagToggled, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Flag:            flag,
		Value:           value,
	}
}
