package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name         string `json:"name" form:"name" binding:"required,min=1,max=100"`
	Description  string `json:"description" form:"description" binding:"max=500"`
	DisplayOrder int    `json:"display_order" form:"display_order"`
	IsActive     *bool  `json:"is_active" form:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		IsActive:     c.IsActive,
		DisplayOrder: c.DisplayOrder,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// SupplierRequest represents a request to create or update a supplier
type SupplierRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

func (r SupplierRequest) contact() catalog.SupplierContact {
	return catalog.SupplierContact{
		ContactName: r.ContactName,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
	}
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *catalog.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
	}
}

// Option is a select-list entry
type Option struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	ProductFields
	Stock int `json:"stock" form:"stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product.
// Version, when sent, must match the stored version.
type UpdateProductRequest struct {
	ProductFields
	Version *int `json:"version" form:"version"`
}

// ProductFields are the editable fields shared by create and update
type ProductFields struct {
	Name          string           `json:"name" form:"name" binding:"required,min=1,max=200"`
	Description   string           `json:"description" form:"description" binding:"max=2000"`
	Price         decimal.Decimal  `json:"price" form:"price" binding:"required,decimal_positive"`
	DiscountPrice *decimal.Decimal `json:"discount_price" form:"discount_price" binding:"omitempty,decimal_positive"`
	CategoryID    uuid.UUID        `json:"category_id" form:"category_id" binding:"required"`
	SupplierID    *uuid.UUID       `json:"supplier_id" form:"supplier_id"`
	IsActive      *bool            `json:"is_active" form:"is_active"`
	IsFeatured    bool             `json:"is_featured" form:"is_featured"`
	IsNewArrival  bool             `json:"is_new_arrival" form:"is_new_arrival"`
	IsOnSale      bool             `json:"is_on_sale" form:"is_on_sale"`
	IsBestSeller  bool             `json:"is_best_seller" form:"is_best_seller"`
}

func (f ProductFields) flags() catalog.ProductFlags {
	return catalog.ProductFlags{
		IsActive:     f.IsActive == nil || *f.IsActive,
		IsFeatured:   f.IsFeatured,
		IsNewArrival: f.IsNewArrival,
		IsOnSale:     f.IsOnSale,
		IsBestSeller: f.IsBestSeller,
	}
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Stock          int              `json:"stock"`
	ImageURL       string           `json:"image_url"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	IsNewArrival   bool             `json:"is_new_arrival"`
	IsOnSale       bool             `json:"is_on_sale"`
	IsBestSeller   bool             `json:"is_best_seller"`
	CategoryID     uuid.UUID        `json:"category_id"`
	CategoryName   string           `json:"category_name"`
	SupplierID     *uuid.UUID       `json:"supplier_id,omitempty"`
	SupplierName   string           `json:"supplier_name,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.EffectivePrice(),
		Stock:          p.Stock,
		ImageURL:       p.ImageURL,
		IsActive:       p.IsActive,
		IsFeatured:     p.IsFeatured,
		IsNewArrival:   p.IsNewArrival,
		IsOnSale:       p.IsOnSale,
		IsBestSeller:   p.IsBestSeller,
		CategoryID:     p.CategoryID,
		CategoryName:   p.CategoryName,
		SupplierID:     p.SupplierID,
		SupplierName:   p.SupplierName,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// ProductListQuery holds the admin product list parameters
type ProductListQuery struct {
	CategoryID *uuid.UUID `form:"category_id"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	SearchTerm string     `form:"search"`
	ActiveOnly bool       `form:"active_only"`
	SortOrder  string     `form:"sort" binding:"omitempty,sort_key"`
	Page       int        `form:"page"`
}

// ProductListView is the admin product list with its filter options
type ProductListView struct {
	Products   shared.Paginated[ProductResponse] `json:"products"`
	Categories []Option                          `json:"categories"`
	Suppliers  []Option                          `json:"suppliers"`
	Query      ProductListQuery                  `json:"query"`
}

// ToggleResponse reports the outcome of a flag toggle and the new value
type ToggleResponse struct {
	shared.Result
	Value bool `json:"value"`
}

// CatalogQuery holds the public catalog parameters
type CatalogQuery struct {
	CategoryID *uuid.UUID `form:"category_id"`
	Search     string     `form:"search"`
	Sort       string     `form:"sort" binding:"omitempty,sort_key"`
	Page       int        `form:"page"`
}

// CatalogView is one page of the public catalog
type CatalogView struct {
	Products     shared.Paginated[ProductResponse] `json:"products"`
	Categories   []CategoryResponse                `json:"categories"`
	CategoryName string                            `json:"category_name,omitempty"`
	Query        CatalogQuery                      `json:"query"`
}

// SliderResponse represents a home page slider
type SliderResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	ImageURL     string    `json:"image_url"`
	LinkURL      string    `json:"link_url"`
	DisplayOrder int       `json:"display_order"`
}

// HomeView is the storefront landing page
type HomeView struct {
	Sliders     []SliderResponse   `json:"sliders"`
	Categories  []CategoryResponse `json:"categories"`
	Featured    []ProductResponse  `json:"featured"`
	NewArrivals []ProductResponse  `json:"new_arrivals"`
	BestSellers []ProductResponse  `json:"best_sellers"`
	OnSale      []ProductResponse  `json:"on_sale"`
}

// ProductDetailsView is a product page with related products
type ProductDetailsView struct {
	Product ProductResponse   `json:"product"`
	Related []ProductResponse `json:"related"`
}
