package catalog

import (
	"time"

	"github.com/shop/storefront/internal/domain/shared"
)

// Category groups products for browsing. Listing order is DisplayOrder.
type Category struct {
	shared.BaseEntity
	Name         string
	Description  string
	ImageURL     string
	IsActive     bool
	DisplayOrder int
}

// NewCategory creates a new active category
func NewCategory(name, description string, displayOrder int) (*Category, error) {
	if err := validateName("Category", name, 100); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         name,
		Description:  description,
		IsActive:     true,
		DisplayOrder: displayOrder,
	}, nil
}

// Update replaces the editable fields
func (c *Category) Update(name, description string, displayOrder int, isActive bool) error {
	if err := validateName("Category", name, 100); err != nil {
		return err
	}
	c.Name = name
	c.Description = description
	c.DisplayOrder = displayOrder
	c.IsActive = isActive
	c.UpdatedAt = time.Now()
	return nil
}

// SetImage sets the public image path and returns the previous one
func (c *Category) SetImage(url string) (previous string) {
	previous = c.ImageURL
	c.ImageURL = url
	c.UpdatedAt = time.Now()
	return previous
}

// Activate makes the category visible on the storefront
func (c *Category) Activate() {
	c.IsActive = true
	c.UpdatedAt = time.Now()
}

// Deactivate hides the category from the storefront
func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}
