package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product administration
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo catalog.SupplierRepository
	images       appshared.ImageStore
	events       shared.EventPublisher
	limits       appshared.Limits
	logger       *zap.Logger
	now          func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo catalog.SupplierRepository,
	images appshared.ImageStore,
	events shared.EventPublisher,
	limits appshared.Limits,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		images:       images,
		events:       events,
		limits:       limits,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns a page of products for the admin list together with the
// category and supplier options of its filter form
func (s *ProductService) List(ctx context.Context, query ProductListQuery) (*ProductListView, error) {
	filter := s.adminFilter(query)
	filter.Page = query.Page
	filter.PageSize = s.limits.AdminPageSize

	page, err := appshared.FetchPage(ctx, filter, s.productRepo.Count, s.productRepo.FindAll)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryOptions(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierOptions(ctx)
	if err != nil {
		return nil, err
	}

	query.Page = page.Page
	return &ProductListView{
		Products:   appshared.MapPage(page, ToProductResponse),
		Categories: categories,
		Suppliers:  suppliers,
		Query:      query,
	}, nil
}

// adminFilter translates list parameters into a repository filter without paging
func (s *ProductService) adminFilter(query ProductListQuery) shared.Filter {
	sort := resolveSort(query.SortOrder, adminProductSorts, adminDefaultSort)
	filter := shared.Filter{
		Search:   query.SearchTerm,
		OrderBy:  sort.orderBy,
		OrderDir: sort.orderDir,
		Filters:  map[string]interface{}{},
	}
	if query.CategoryID != nil {
		filter.Filters[catalog.FilterCategoryID] = *query.CategoryID
	}
	if query.SupplierID != nil {
		filter.Filters[catalog.FilterSupplierID] = *query.SupplierID
	}
	if query.ActiveOnly {
		filter.Filters[catalog.FilterActive] = true
	}
	return filter
}

func (s *ProductService) categoryOptions(ctx context.Context) ([]Option, error) {
	categories, err := s.categoryRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]Option, len(categories))
	for i, c := range categories {
		out[i] = Option{ID: c.ID, Name: c.Name}
	}
	sortOptions(out)
	return out, nil
}

func (s *ProductService) supplierOptions(ctx context.Context) ([]Option, error) {
	suppliers, err := s.supplierRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	out := make([]Option, len(suppliers))
	for i, sup := range suppliers {
		out[i] = Option{ID: sup.ID, Name: sup.Name}
	}
	sortOptions(out)
	return out, nil
}

func sortOptions(options []Option) {
	slices.SortStableFunc(options, func(a, b Option) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// Get returns a product by ID, active or not
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Create creates a product, storing its image first when one is sent
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest, image *appshared.ImageUpload) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.DiscountPrice, req.Stock, req.CategoryID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.Description, req.Price, req.DiscountPrice, req.CategoryID, req.SupplierID, req.flags()); err != nil {
		return nil, err
	}
	if err := s.resolveNames(ctx, product); err != nil {
		return nil, err
	}

	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderProducts, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		product.SetImage(path)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		appshared.DiscardImage(ctx, s.images, s.logger, product.ImageURL)
		return nil, err
	}
	s.publish(ctx, product)

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
	)
	response := ToProductResponse(product)
	return &response, nil
}

// Update replaces a product's editable details. Stock is untouched.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, image *appshared.ImageUpload) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != product.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	if err := product.Update(req.Name, req.Description, req.Price, req.DiscountPrice, req.CategoryID, req.SupplierID, req.flags()); err != nil {
		return nil, err
	}
	if err := s.resolveNames(ctx, product); err != nil {
		return nil, err
	}

	var previous string
	if image != nil {
		path, err := s.images.Save(ctx, appshared.FolderProducts, image.Filename, image.Content)
		if err != nil {
			return nil, err
		}
		previous = product.SetImage(path)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		if image != nil {
			appshared.DiscardImage(ctx, s.images, s.logger, product.ImageURL)
		}
		return nil, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, previous)
	s.publish(ctx, product)

	s.logger.Info("product updated", zap.String("product_id", product.ID.String()))
	response := ToProductResponse(product)
	return &response, nil
}

// resolveNames rejects unknown category and supplier IDs and copies their
// names onto the product for the response
func (s *ProductService) resolveNames(ctx context.Context, product *catalog.Product) error {
	category, err := s.categoryRepo.FindByID(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	product.CategoryName = category.Name
	product.SupplierName = ""
	if product.SupplierID == nil {
		return nil
	}
	supplier, err := s.supplierRepo.FindByID(ctx, *product.SupplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_SUPPLIER", "Supplier not found")
		}
		return err
	}
	product.SupplierName = supplier.Name
	return nil
}

// Delete removes a product. Products referenced by order lines are kept
// unless force is set; order lines keep their name snapshot either way.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, force bool) (shared.Result, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}

	count, err := s.productRepo.CountOrderItems(ctx, id)
	if err != nil {
		return shared.Result{}, err
	}
	if count > 0 && !force {
		return shared.Fail(fmt.Sprintf(
			"Product '%s' has %d order items and cannot be deleted. Use force delete to remove it anyway.",
			product.Name, count)), nil
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return shared.Result{}, err
	}
	appshared.DiscardImage(ctx, s.images, s.logger, product.ImageURL)

	s.logger.Info("product deleted",
		zap.String("product_id", id.String()),
		zap.String("name", product.Name),
		zap.Bool("forced", count > 0),
	)
	return shared.Ok(fmt.Sprintf("Product '%s' was deleted", product.Name)), nil
}

// ToggleFlag flips one merchandising flag of a product
func (s *ProductService) ToggleFlag(ctx context.Context, id uuid.UUID, flag string) (*ToggleResponse, error) {
	parsed, err := catalog.ParseProductFlag(flag)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value, err := product.Toggle(parsed)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	return &ToggleResponse{
		Result: shared.Ok(flagMessage(product.Name, parsed, value)),
		Value:  value,
	}, nil
}

// ToggleActive shows or hides a product on the storefront
func (s *ProductService) ToggleActive(ctx context.Context, id uuid.UUID) (*ToggleResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	value := product.ToggleActive()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	state := "deactivated"
	if value {
		state = "activated"
	}
	s.logger.Info("product "+state, zap.String("product_id", id.String()))
	return &ToggleResponse{
		Result: shared.Ok(fmt.Sprintf("Product '%s' was %s", product.Name, state)),
		Value:  value,
	}, nil
}

var flagLabels = map[catalog.ProductFlag]string{
	catalog.FlagFeatured:   "featured",
	catalog.FlagNewArrival: "a new arrival",
	catalog.FlagOnSale:     "on sale",
	catalog.FlagBestSeller: "a best seller",
}

func flagMessage(name string, flag catalog.ProductFlag, value bool) string {
	if value {
		return fmt.Sprintf("Product '%s' is now %s", name, flagLabels[flag])
	}
	return fmt.Sprintf("Product '%s' is no longer %s", name, flagLabels[flag])
}

// ExportCSV writes every product matching the admin filters as CSV and
// returns the attachment file name
func (s *ProductService) ExportCSV(ctx context.Context, query ProductListQuery, w io.Writer) (string, error) {
	query.ActiveOnly = false
	products, err := s.productRepo.FindAllUnpaged(ctx, s.adminFilter(query))
	if err != nil {
		return "", err
	}
	if err := writeProductsCSV(w, products); err != nil {
		return "", err
	}

	s.logger.Info("products exported", zap.Int("count", len(products)))
	return ExportFileName(s.now()), nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
