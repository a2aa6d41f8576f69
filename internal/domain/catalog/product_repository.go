package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/shared"
)

// Filter keys understood by ProductRepository.FindAll / Count
const (
	FilterCategoryID  = "category_id"
	FilterSupplierID  = "supplier_id"
	FilterActive      = "is_active"
	FilterFeatured    = "is_featured"
	FilterNewArrival  = "is_new_arrival"
	FilterOnSale      = "is_on_sale"
	FilterBestSeller  = "is_best_seller"
	FilterHasDiscount = "has_discount"
	FilterExcludeID   = "exclude_id"
	FilterStockAtMost = "stock_lte"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds a page of products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindAllUnpaged finds every product matching the filter, ignoring paging
	FindAllUnpaged(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product. Stock is only written on insert.
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByCategory counts products referencing a category
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountBySupplier counts products referencing a supplier
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// CountOrderItems counts order lines referencing a product
	CountOrderItems(ctx context.Context, productID uuid.UUID) (int64, error)

	StockMutator
}

// StockMutator applies atomic stock changes. Each call is a single
// conditional UPDATE so concurrent writers on one product serialize in the database.
type StockMutator interface {
	// IncreaseStock adds quantity to stock
	IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// DecreaseStock takes quantity from stock, failing with ErrInsufficientStock
	// when fewer units remain
	DecreaseStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// DecreaseStockClamped takes up to quantity from stock, flooring at zero.
	// It returns how many units could not be taken.
	DecreaseStockClamped(ctx context.Context, productID uuid.UUID, quantity int) (shortfall int, err error)
}
