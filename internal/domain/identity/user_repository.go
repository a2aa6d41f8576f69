package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Filter keys understood by UserRepository.FindAll
const (
	FilterRole = "role"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID loads a user with roles
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll lists users with roles, searching email and names
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save upserts the user and replaces its role set
	Save(ctx context.Context, user *User) error
}
