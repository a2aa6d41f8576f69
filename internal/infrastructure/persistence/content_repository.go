package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNewsRepository implements NewsRepository using GORM
type GormNewsRepository struct {
	db *gorm.DB
}

// NewGormNewsRepository creates a new GormNewsRepository
func NewGormNewsRepository(db *gorm.DB) *GormNewsRepository {
	return &GormNewsRepository{db: db}
}

// FindByID finds a news post by its ID
func (r *GormNewsRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.News, error) {
	var model models.NewsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists news newest publish date first
func (r *GormNewsRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.News, error) {
	var rows []models.NewsModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NewsModel{}), filter).
		Order("publish_date DESC").
		Order("id")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	news := make([]content.News, len(rows))
	for i := range rows {
		news[i] = *rows[i].ToDomain()
	}
	return news, nil
}

// Count counts news posts matching the filter
func (r *GormNewsRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.NewsModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a news post
func (r *GormNewsRepository) Save(ctx context.Context, n *content.News) error {
	model := &models.NewsModel{}
	model.FromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a news post
func (r *GormNewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.NewsModel{}, id)
}

func (r *GormNewsRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "title", "content")
	if b, ok := boolFilter(filter.Filters[content.FilterPublished]); ok {
		query = query.Where("is_published = ?", b)
	}
	if v, ok := filter.Filters[content.FilterExcludeID]; ok {
		query = query.Where("id <> ?", v)
	}
	return query
}

// GormSliderRepository implements SliderRepository using GORM
type GormSliderRepository struct {
	db *gorm.DB
}

// NewGormSliderRepository creates a new GormSliderRepository
func NewGormSliderRepository(db *gorm.DB) *GormSliderRepository {
	return &GormSliderRepository{db: db}
}

// FindByID finds a slider by its ID
func (r *GormSliderRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Slider, error) {
	var model models.SliderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists sliders by display order
func (r *GormSliderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Slider, error) {
	var rows []models.SliderModel
	query := r.db.WithContext(ctx).Model(&models.SliderModel{})
	if b, ok := boolFilter(filter.Filters[content.FilterActive]); ok {
		query = query.Where("is_active = ?", b)
	}
	query = query.Order("display_order ASC").Order("created_at ASC")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	sliders := make([]content.Slider, len(rows))
	for i := range rows {
		sliders[i] = *rows[i].ToDomain()
	}
	return sliders, nil
}

// Save creates or updates a slider
func (r *GormSliderRepository) Save(ctx context.Context, s *content.Slider) error {
	model := &models.SliderModel{}
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a slider
func (r *GormSliderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.SliderModel{}, id)
}

// GormContactRepository implements ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact message by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*content.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists contacts newest first
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]content.Contact, error) {
	var rows []models.ContactModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter).
		Order("created_at DESC").
		Order("id")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	contacts := make([]content.Contact, len(rows))
	for i := range rows {
		contacts[i] = *rows[i].ToDomain()
	}
	return contacts, nil
}

// Count counts contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContactModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a contact message
func (r *GormContactRepository) Save(ctx context.Context, c *content.Contact) error {
	model := &models.ContactModel{}
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a contact message
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &models.ContactModel{}, id)
}

func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchAny(query, filter.Search, "name", "email", "subject")
	if b, ok := boolFilter(filter.Filters[content.FilterUnread]); ok && b {
		query = query.Where("is_read = ?", false)
	}
	return query
}

// deleteByID deletes one row by primary key, mapping a miss to ErrNotFound
func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ content.NewsRepository    = (*GormNewsRepository)(nil)
	_ content.SliderRepository  = (*GormSliderRepository)(nil)
	_ content.ContactRepository = (*GormContactRepository)(nil)
)
