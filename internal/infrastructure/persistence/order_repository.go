package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// selectWithCustomer selects orders joined with the placing user's details
func (r *GormOrderRepository) selectWithCustomer(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("orders.*, users.email AS customer_email, users.first_name AS customer_first_name, users.last_name AS customer_last_name").
		Joins("LEFT JOIN users ON users.id = orders.user_id")
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.selectWithCustomer(ctx).
		Preload("Items").
		Where("orders.id = ?", id).
		First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	var rows []models.OrderModel
	query := r.applyFilter(r.selectWithCustomer(ctx).Preload("Items"), filter).
		Order(orderClause(filter, OrderSortFields, "orders.order_date DESC")).
		Order("orders.id")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]order.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Joins("LEFT JOIN users ON users.id = orders.user_id")
	err := r.applyFilter(query, filter).Count(&count).Error
	return count, err
}

// Create inserts the order and all of its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error
}

// UpdateStatus persists status and payment status.
// The write applies only while the stored version is older than the order's.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version < ?", o.ID, o.Version).
		Updates(map[string]interface{}{
			"order_status":   o.Status,
			"payment_status": o.PaymentStatus,
			"version":        o.Version,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search,
		"CAST(orders.id AS CHAR(36))",
		"orders.shipping_name",
		"users.email",
		"users.first_name",
		"users.last_name",
	)
	if v, ok := filter.Filters[order.FilterStatus]; ok {
		query = query.Where("orders.order_status = ?", v)
	}
	if v, ok := filter.Filters[order.FilterUserID]; ok {
		query = query.Where("orders.user_id = ?", v)
	}
	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
