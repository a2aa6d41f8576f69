package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) selectWithNames(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.ReceiptModel{}).
		Select("inventory_receipts.*, products.name AS product_name, suppliers.name AS supplier_name").
		Joins("LEFT JOIN products ON products.id = inventory_receipts.product_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = inventory_receipts.supplier_id")
}

// FindByID finds a receipt by its ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Receipt, error) {
	var model models.ReceiptModel
	if err := r.selectWithNames(ctx).Where("inventory_receipts.id = ?", id).First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists receipts newest received first
func (r *GormReceiptRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Receipt, error) {
	var rows []models.ReceiptModel
	query := r.applyFilter(r.selectWithNames(ctx), filter).
		Order("inventory_receipts.received_date DESC").
		Order("inventory_receipts.created_at DESC")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	receipts := make([]inventory.Receipt, len(rows))
	for i := range rows {
		receipts[i] = *rows[i].ToDomain()
	}
	return receipts, nil
}

// Count counts receipts matching the filter
func (r *GormReceiptRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ReceiptModel{}).
		Joins("LEFT JOIN products ON products.id = inventory_receipts.product_id")
	err := r.applyFilter(query, filter).Count(&count).Error
	return count, err
}

// Save creates or updates a receipt
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *inventory.Receipt) error {
	return r.db.WithContext(ctx).Save(models.ReceiptModelFromDomain(receipt)).Error
}

// Delete deletes a receipt
func (r *GormReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReceiptModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormReceiptRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "products.name", "inventory_receipts.notes")
	if v, ok := filter.Filters[inventory.FilterProductID]; ok {
		query = query.Where("inventory_receipts.product_id = ?", v)
	}
	if v, ok := filter.Filters[inventory.FilterSupplierID]; ok {
		query = query.Where("inventory_receipts.supplier_id = ?", v)
	}
	return query
}

// Ensure GormReceiptRepository implements ReceiptRepository
var _ inventory.ReceiptRepository = (*GormReceiptRepository)(nil)
