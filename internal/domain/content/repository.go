package content

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Filter keys understood by content repositories
const (
	FilterPublished = "is_published"
	FilterActive    = "is_active"
	FilterUnread    = "unread"
	FilterExcludeID = "exclude_id"
)

// NewsRepository lists news newest publish date first
type NewsRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*News, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]News, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, n *News) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SliderRepository lists sliders by display order
type SliderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Slider, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Slider, error)
	Save(ctx context.Context, s *Slider) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository lists contacts newest first
type ContactRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contact, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}
