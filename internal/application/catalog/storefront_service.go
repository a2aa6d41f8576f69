package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/shared"
)

// StorefrontService serves the public product pages
type StorefrontService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	sliderRepo   content.SliderRepository
	limits       appshared.Limits
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	sliderRepo content.SliderRepository,
	limits appshared.Limits,
) *StorefrontService {
	return &StorefrontService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		sliderRepo:   sliderRepo,
		limits:       limits,
	}
}

// Home assembles the landing page: active sliders and categories plus
// the newest products of each merchandising section
func (s *StorefrontService) Home(ctx context.Context) (*HomeView, error) {
	sliders, err := s.sliderRepo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{content.FilterActive: true}})
	if err != nil {
		return nil, err
	}
	categories, err := s.activeCategories(ctx)
	if err != nil {
		return nil, err
	}

	view := &HomeView{
		Sliders:    make([]SliderResponse, len(sliders)),
		Categories: categories,
	}
	for i, sl := range sliders {
		view.Sliders[i] = SliderResponse{
			ID:           sl.ID,
			Title:        sl.Title,
			Subtitle:     sl.Subtitle,
			ImageURL:     sl.ImageURL,
			LinkURL:      sl.LinkURL,
			DisplayOrder: sl.DisplayOrder,
		}
	}

	sections := []struct {
		target  *[]ProductResponse
		filters map[string]interface{}
	}{
		{&view.Featured, map[string]interface{}{catalog.FilterFeatured: true}},
		{&view.NewArrivals, map[string]interface{}{catalog.FilterNewArrival: true}},
		{&view.BestSellers, map[string]interface{}{catalog.FilterBestSeller: true}},
		{&view.OnSale, map[string]interface{}{catalog.FilterOnSale: true, catalog.FilterHasDiscount: true}},
	}
	for _, section := range sections {
		section.filters[catalog.FilterActive] = true
		products, err := s.productRepo.FindAll(ctx, shared.Filter{
			Page:     1,
			PageSize: s.limits.HomeSectionSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Filters:  section.filters,
		})
		if err != nil {
			return nil, err
		}
		*section.target = ToProductResponses(products)
	}
	return view, nil
}

// Catalog returns one page of active products
func (s *StorefrontService) Catalog(ctx context.Context, query CatalogQuery) (*CatalogView, error) {
	sort := resolveSort(query.Sort, storefrontSorts, storefrontDefaultSort)
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: s.limits.StorefrontPageSize,
		Search:   query.Search,
		OrderBy:  sort.orderBy,
		OrderDir: sort.orderDir,
		Filters:  map[string]interface{}{catalog.FilterActive: true},
	}

	view := &CatalogView{}
	if query.CategoryID != nil {
		filter.Filters[catalog.FilterCategoryID] = *query.CategoryID
		category, err := s.categoryRepo.FindByID(ctx, *query.CategoryID)
		switch {
		case err == nil:
			view.CategoryName = category.Name
		case !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	page, err := appshared.FetchPage(ctx, filter, s.productRepo.Count, s.productRepo.FindAll)
	if err != nil {
		return nil, err
	}
	categories, err := s.activeCategories(ctx)
	if err != nil {
		return nil, err
	}

	query.Page = page.Page
	view.Products = appshared.MapPage(page, ToProductResponse)
	view.Categories = categories
	view.Query = query
	return view, nil
}

// ProductDetails returns a product with other active products of its category
func (s *StorefrontService) ProductDetails(ctx context.Context, id uuid.UUID) (*ProductDetailsView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	related, err := s.productRepo.FindAll(ctx, shared.Filter{
		Page:     1,
		PageSize: s.limits.RelatedProducts,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters: map[string]interface{}{
			catalog.FilterActive:     true,
			catalog.FilterCategoryID: product.CategoryID,
			catalog.FilterExcludeID:  product.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	return &ProductDetailsView{
		Product: ToProductResponse(product),
		Related: ToProductResponses(related),
	}, nil
}

func (s *StorefrontService) activeCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{catalog.FilterActive: true},
	})
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}
