package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultSaleRatio is applied to Price when a product goes on sale without a discount
var DefaultSaleRatio = decimal.NewFromFloat(0.9)

// ProductFlag is one of the merchandising flags an admin can toggle
type ProductFlag string

const (
	FlagFeatured   ProductFlag = "featured"
	FlagNewArrival ProductFlag = "new_arrival"
	FlagOnSale     ProductFlag = "on_sale"
	FlagBestSeller ProductFlag = "best_seller"
)

// ParseProductFlag validates a flag name against the closed set
func ParseProductFlag(s string) (ProductFlag, error) {
	switch f := ProductFlag(s); f {
	case FlagFeatured, FlagNewArrival, FlagOnSale, FlagBestSeller:
		return f, nil
	}
	return "", shared.NewDomainError("INVALID_FLAG", "Unknown product flag: "+s)
}

// Product represents a sellable item in the catalog.
// Stock is never written through Product methods once persisted; repositories
// mutate it atomically.
type Product struct {
	shared.BaseAggregateRoot
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Stock         int
	ImageURL      string
	IsActive      bool
	IsFeatured    bool
	IsNewArrival  bool
	IsOnSale      bool
	IsBestSeller  bool
	CategoryID    uuid.UUID
	SupplierID    *uuid.UUID

	// Read-side denormalisation filled by repositories
	CategoryName string
	SupplierName string
}

// ProductFlags bundles the merchandising booleans of a product
type ProductFlags struct {
	IsActive     bool
	IsFeatured   bool
	IsNewArrival bool
	IsOnSale     bool
	IsBestSeller bool
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, discount *decimal.Decimal, stock int, categoryID uuid.UUID, supplierID *uuid.UUID) (*Product, error) {
	if err := validateName("Product", name, 200); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if err := validatePricing(price, discount); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price,
		DiscountPrice:     discount,
		Stock:             stock,
		IsActive:          true,
		CategoryID:        categoryID,
		SupplierID:        supplierID,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the editable details of a product. Stock is not editable here.
func (p *Product) Update(name, description string, price decimal.Decimal, discount *decimal.Decimal, categoryID uuid.UUID, supplierID *uuid.UUID, flags ProductFlags) error {
	if err := validateName("Product", name, 200); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if err := validatePricing(price, discount); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.DiscountPrice = discount
	p.CategoryID = categoryID
	p.SupplierID = supplierID
	p.IsActive = flags.IsActive
	p.IsFeatured = flags.IsFeatured
	p.IsNewArrival = flags.IsNewArrival
	p.IsBestSeller = flags.IsBestSeller
	p.IsOnSale = flags.IsOnSale
	if p.IsOnSale && !p.hasPositiveDiscount() {
		p.applyDefaultDiscount()
	}
	p.touch()
	return nil
}

// SetPricing replaces price and discount. A discount must be positive and below price.
func (p *Product) SetPricing(price decimal.Decimal, discount *decimal.Decimal) error {
	if err := validatePricing(price, discount); err != nil {
		return err
	}
	p.Price = price
	p.DiscountPrice = discount
	p.touch()
	return nil
}

// SetImage sets the public image path and returns the previous one
func (p *Product) SetImage(url string) (previous string) {
	previous = p.ImageURL
	p.ImageURL = url
	p.touch()
	return previous
}

// EffectivePrice is the price a customer pays per unit
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasStock reports whether quantity units can be taken from stock
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// ToggleActive flips the active flag
func (p *Product) ToggleActive() bool {
	p.IsActive = !p.IsActive
	p.touch()
	return p.IsActive
}

// ToggleFeatured flips the featured flag
func (p *Product) ToggleFeatured() bool {
	p.IsFeatured = !p.IsFeatured
	p.flagToggled(FlagFeatured, p.IsFeatured)
	return p.IsFeatured
}

// ToggleNewArrival flips the new-arrival flag
func (p *Product) ToggleNewArrival() bool {
	p.IsNewArrival = !p.IsNewArrival
	p.flagToggled(FlagNewArrival, p.IsNewArrival)
	return p.IsNewArrival
}

// ToggleBestSeller flips the best-seller flag
func (p *Product) ToggleBestSeller() bool {
	p.IsBestSeller = !p.IsBestSeller
	p.flagToggled(FlagBestSeller, p.IsBestSeller)
	return p.IsBestSeller
}

// ToggleOnSale flips the on-sale flag. Going on sale without a positive
// discount assigns 90% of Price; leaving the sale clears the discount.
func (p *Product) ToggleOnSale() bool {
	p.IsOnSale = !p.IsOnSale
	if p.IsOnSale {
		if !p.hasPositiveDiscount() {
			p.applyDefaultDiscount()
		}
	} else {
		p.DiscountPrice = nil
	}
	p.flagToggled(FlagOnSale, p.IsOnSale)
	return p.IsOnSale
}

// Toggle dispatches to the named toggle operation
func (p *Product) Toggle(flag ProductFlag) (bool, error) {
	switch flag {
	case FlagFeatured:
		return p.ToggleFeatured(), nil
	case FlagNewArrival:
		return p.ToggleNewArrival(), nil
	case FlagOnSale:
		return p.ToggleOnSale(), nil
	case FlagBestSeller:
		return p.ToggleBestSeller(), nil
	}
	return false, shared.NewDomainError("INVALID_FLAG", "Unknown product flag: "+string(flag))
}

func (p *Product) hasPositiveDiscount() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.IsPositive()
}

func (p *Product) applyDefaultDiscount() {
	d := p.Price.Mul(DefaultSaleRatio).Round(2)
	p.DiscountPrice = &d
}

func (p *Product) flagToggled(flag ProductFlag, value bool) {
	p.touch()
	p.AddDomainEvent(NewProductFlagToggledEvent(p, flag, value))
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validatePricing(price decimal.Decimal, discount *decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	if discount == nil {
		return nil
	}
	if !discount.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Discount price must be greater than zero")
	}
	if !discount.LessThan(price) {
		return shared.NewDomainError("INVALID_PRICE", "Discount price must be lower than price")
	}
	return nil
}
