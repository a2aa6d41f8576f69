package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category administration
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	images       appshared.ImageStore
	limits       appshared.Limits
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	images appshared.ImageStore,
	limits appshared.Limits,
	logger *zap.Logger,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		images:       images,
		limits:       limits,
		logger:       logger,
	}
}

// List returns a page of categories by display order, then name
func (s *CategoryService) List(ctx context.Context, search string, page int) (shared.Paginated[CategoryResponse], error) {
	filter := shared.Filter{Page: page, PageSize: s.limits.AdminPageSize, Search: search}
	result, err := appshared.FetchPage(ctx, filter, s.categoryRepo.Count, s.categoryRepo.FindAll)
	if err != nil {
		return shared.Paginated[CategoryResponse]{}, err
	}
	return appshared.MapPage(result, ToCategoryResponse), nil
}

// ListAll returns every category, optionally only active ones
func (s *CategoryService) ListAll(ctx context.Context, activeOnly bool) ([]CategoryResponse, error) {
	filter := shared.Filter{Filters: map[string]interface{}{}}
	if activeOnly {
		filter.Filters[catalog.FilterActive] = true
	}
	categories, err := s.categoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// Get returns a category by ID
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Create creates a category, storing its image first when one is sent
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest, image *appshared.ImageUpload) (*CategoryResponse, error) {
	category, err := catalog.NewCategory(req.Name, req.Description, req.DisplayOrder)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		category.Deactivate()
	}

	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderCategories, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		category.SetImage(path)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		appshared.DiscardImage(ctx, s.images, s.logger, category.ImageURL)
		return nil, err
	}

	s.logger.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)
	response := ToCategoryResponse(category)
	return &response, nil
}

// Update replaces a category's details. A new image replaces the old one,
// which is deleted once the category is saved.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest, image *appshared.ImageUpload) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isActive := category.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	if err := category.Update(req.Name, req.Description, req.DisplayOrder, isActive); err != nil {
		return nil, err
	}

	var previous string
	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderCategories, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		previous = category.SetImage(path)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		if image != nil {
			appshared.DiscardImage(ctx, s.images, s.logger, category.ImageURL)
		}
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, previous)

	response := ToCategoryResponse(category)
	return &response, nil
}

// SetActive shows or hides a category on the storefront
func (s *CategoryService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		category.Activate()
	} else {
		category.Deactivate()
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete removes a category that no product references
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (shared.Result, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}
	if count > 0 {
		return shared.Fail(fmt.Sprintf("Category '%s' has %d products and cannot be deleted", category.Name, count)), nil
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return shared.Result{}, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, category.ImageURL)

	s.logger.Info("category deleted", zap.String("category_id", id.String()))
	return shared.Ok(fmt.Sprintf("Category '%s' was deleted", category.Name)), nil
}
