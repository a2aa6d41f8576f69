package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// maxClampRetries bounds the compare-and-set loop in DecreaseStockClamped
const maxClampRetries = 5

// productUpdateColumns are written on update. Stock is absent: it only
// changes through the StockMutator methods.
var productUpdateColumns = []string{
	"name", "description", "price", "discount_price", "image_url",
	"is_active", "is_featured", "is_new_arrival", "is_on_sale", "is_best_seller",
	"category_id", "supplier_id", "version", "updated_at",
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// selectWithNames selects products joined with their category and supplier names
func (r *GormProductRepository) selectWithNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Select("products.*, categories.name AS category_name, suppliers.name AS supplier_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.supplier_id")
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.selectWithNames(ctx).Where("products.id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.selectWithNames(ctx).Where("products.id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAll finds a page of products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := paginate(r.applyFilter(r.selectWithNames(ctx), filter), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAllUnpaged finds every product matching the filter, ignoring paging
func (r *GormProductRepository) FindAllUnpaged(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.applyFilter(r.selectWithNames(ctx), filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutOrder(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product.
// An update only applies when the stored version is older than the product's,
// so two editors saving from the same read cannot both win.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	db := r.db.WithContext(ctx)

	result := db.Model(&models.ProductModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Select(productUpdateColumns).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, model.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.ErrConcurrencyConflict
	}
	return db.Create(model).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByCategory counts products referencing a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// CountBySupplier counts products referencing a supplier
func (r *GormProductRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).Error
	return count, err
}

// CountOrderItems counts order lines referencing a product
func (r *GormProductRepository) CountOrderItems(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderItemModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// IncreaseStock adds quantity to stock
func (r *GormProductRepository) IncreaseStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return invalidQuantity()
	}
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DecreaseStock takes quantity from stock in one conditional UPDATE
func (r *GormProductRepository) DecreaseStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return invalidQuantity()
	}
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, productID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

// DecreaseStockClamped takes up to quantity from stock, flooring at zero.
// When stock is short it zeroes the row with a compare-and-set on the
// observed value and retries if another writer got there first.
func (r *GormProductRepository) DecreaseStockClamped(ctx context.Context, productID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, invalidQuantity()
	}
	for attempt := 0; attempt < maxClampRetries; attempt++ {
		err := r.DecreaseStock(ctx, productID, quantity)
		if err == nil {
			return 0, nil
		}
		if !errors.Is(err, shared.ErrInsufficientStock) {
			return 0, err
		}

		var current []int
		if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
			Where("id = ?", productID).
			Pluck("stock", &current).Error; err != nil {
			return 0, err
		}
		if len(current) == 0 {
			return 0, shared.ErrNotFound
		}

		result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
			Where("id = ? AND stock = ?", productID, current[0]).
			UpdateColumn("stock", 0)
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected > 0 {
			return quantity - current[0], nil
		}
	}
	return 0, shared.ErrConcurrencyConflict
}

func (r *GormProductRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options and ordering to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutOrder(query, filter)
	return query.Order(orderClause(filter, ProductSortFields, "products.created_at DESC")).Order("products.id")
}

// applyFilterWithoutOrder applies search and filter keys only
func (r *GormProductRepository) applyFilterWithoutOrder(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "products.name", "products.description")

	for key, value := range filter.Filters {
		switch key {
		case catalog.FilterCategoryID:
			query = query.Where("products.category_id = ?", value)
		case catalog.FilterSupplierID:
			query = query.Where("products.supplier_id = ?", value)
		case catalog.FilterExcludeID:
			query = query.Where("products.id <> ?", value)
		case catalog.FilterStockAtMost:
			query = query.Where("products.stock <= ?", value)
		case catalog.FilterHasDiscount:
			if b, ok := boolFilter(value); ok && b {
				query = query.Where("products.discount_price IS NOT NULL AND products.discount_price > 0")
			}
		case catalog.FilterActive, catalog.FilterFeatured, catalog.FilterNewArrival,
			catalog.FilterOnSale, catalog.FilterBestSeller:
			if b, ok := boolFilter(value); ok {
				query = query.Where("products."+key+" = ?", b)
			}
		}
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

func invalidQuantity() error {
	return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
