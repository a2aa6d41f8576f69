package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Filter keys understood by Repository.FindAll / Count
const (
	FilterStatus = "status"
	FilterUserID = "user_id"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders newest first. Search matches order id text,
	// shipping name and customer email/first/last name.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create inserts the order and all of its items
	Create(ctx context.Context, o *Order) error

	// UpdateStatus persists status and payment status with a version check
	UpdateStatus(ctx context.Context, o *Order) error
}
