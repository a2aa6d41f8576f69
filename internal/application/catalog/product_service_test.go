package catalog

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productServiceFixture struct {
	products   *testutil.MockProductRepository
	categories *testutil.MockCategoryRepository
	suppliers  *testutil.MockSupplierRepository
	images     *testutil.MockImageStore
	events     *testutil.MockEventPublisher
	service    *ProductService
}

func newProductServiceFixture() *productServiceFixture {
	f := &productServiceFixture{
		products:   new(testutil.MockProductRepository),
		categories: new(testutil.MockCategoryRepository),
		suppliers:  new(testutil.MockSupplierRepository),
		images:     new(testutil.MockImageStore),
		events:     new(testutil.MockEventPublisher),
	}
	f.service = NewProductService(f.products, f.categories, f.suppliers, f.images, f.events,
		appshared.DefaultLimits(), zap.NewNop())
	return f
}

func newTestProduct(t *testing.T, name string, price string, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", decimal.RequireFromString(price), nil, stock, uuid.New(), nil)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func newTestCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, "", 0)
	require.NoError(t, err)
	return c
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("maps admin sort keys and clamps the page", func(t *testing.T) {
		f := newProductServiceFixture()
		categoryID := uuid.New()

		f.products.On("Count", ctx, mock.Anything).Return(int64(15), nil)
		f.products.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.Page == 2 &&
				filter.PageSize == 10 &&
				filter.OrderBy == "list_price" &&
				filter.OrderDir == "desc" &&
				filter.Filters[catalog.FilterCategoryID] == categoryID &&
				filter.Filters[catalog.FilterActive] == true
		})).Return([]catalog.Product{*newTestProduct(t, "Lamp", "20", 3)}, nil)
		f.categories.On("FindAll", ctx, shared.Filter{}).Return([]catalog.Category{
			*newTestCategory(t, "Tables"), *newTestCategory(t, "chairs"),
		}, nil)
		f.suppliers.On("FindAll", ctx, shared.Filter{}).Return([]catalog.Supplier{}, nil)

		view, err := f.service.List(ctx, ProductListQuery{
			CategoryID: &categoryID,
			ActiveOnly: true,
			SortOrder:  "price_desc",
			Page:       99,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, view.Products.Page)
		assert.Equal(t, 2, view.Query.Page)
		assert.Len(t, view.Products.Items, 1)
		require.Len(t, view.Categories, 2)
		assert.Equal(t, "chairs", view.Categories[0].Name)
		f.products.AssertExpectations(t)
	})

	t.Run("unknown sort key falls back to name ascending", func(t *testing.T) {
		f := newProductServiceFixture()
		f.products.On("Count", ctx, mock.Anything).Return(int64(0), nil)
		f.products.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
			return filter.OrderBy == "name" && filter.OrderDir == "asc" && filter.Page == 1
		})).Return([]catalog.Product{}, nil)
		f.categories.On("FindAll", ctx, shared.Filter{}).Return([]catalog.Category{}, nil)
		f.suppliers.On("FindAll", ctx, shared.Filter{}).Return([]catalog.Supplier{}, nil)

		view, err := f.service.List(ctx, ProductListQuery{SortOrder: "stock; DROP TABLE products"})
		require.NoError(t, err)
		assert.Equal(t, 1, view.Products.TotalPages)
		assert.Empty(t, view.Products.Items)
	})
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	category := newTestCategory(t, "Hats")

	req := CreateProductRequest{
		ProductFields: ProductFields{
			Name:       "Sun cap",
			Price:      decimal.NewFromInt(20),
			CategoryID: category.ID,
			IsOnSale:   true,
		},
		Stock: 5,
	}

	t.Run("stores image and publishes creation", func(t *testing.T) {
		f := newProductServiceFixture()
		image := &appshared.ImageUpload{Filename: "cap.png", Content: strings.NewReader("png")}

		f.categories.On("FindByID", ctx, category.ID).Return(category, nil)
		f.images.On("Save", ctx, appshared.FolderProducts, "cap.png", image.Content).
			Return("/images/products/abc_cap.png", nil)

		f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.Create(ctx, req, image)
		require.NoError(t, err)
		assert.Equal(t, "/images/products/abc_cap.png", resp.ImageURL)
		assert.Equal(t, 5, resp.Stock)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.IsOnSale)
		assert.Equal(t, "Hats", resp.CategoryName)
		require.NotNil(t, resp.DiscountPrice)
		assert.Equal(t, "18.00", resp.DiscountPrice.StringFixed(2))
		f.events.AssertCalled(t, "Publish", ctx, mock.Anything)
	})

	t.Run("unknown category is rejected before any write", func(t *testing.T) {
		f := newProductServiceFixture()
		f.categories.On("FindByID", ctx, category.ID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Create(ctx, req, nil)
		assert.Equal(t, "INVALID_CATEGORY", shared.CodeOf(err))
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed save discards the uploaded image", func(t *testing.T) {
		f := newProductServiceFixture()
		image := &appshared.ImageUpload{Filename: "cap.png", Content: strings.NewReader("png")}

		f.categories.On("FindByID", ctx, category.ID).Return(category, nil)
		f.images.On("Save", ctx, appshared.FolderProducts, "cap.png", image.Content).
			Return("/images/products/abc_cap.png", nil)
		f.images.On("Delete", ctx, "/images/products/abc_cap.png").Return(nil)
		f.products.On("Save", ctx, mock.Anything).Return(assert.AnError)

		_, err := f.service.Create(ctx, req, image)
		assert.ErrorIs(t, err, assert.AnError)
		f.images.AssertExpectations(t)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	category := newTestCategory(t, "Hats")

	t.Run("stale version is a conflict", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "10", 1)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)

		stale := product.Version - 1
		_, err := f.service.Update(ctx, product.ID, UpdateProductRequest{
			ProductFields: ProductFields{Name: "Cap", Price: decimal.NewFromInt(10), CategoryID: category.ID},
			Version:       &stale,
		}, nil)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("new image replaces and deletes the old one", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "10", 7)
		product.SetImage("/images/products/old_cap.png")
		image := &appshared.ImageUpload{Filename: "new.png", Content: strings.NewReader("png")}

		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.categories.On("FindByID", ctx, category.ID).Return(category, nil)
		f.images.On("Save", ctx, appshared.FolderProducts, "new.png", image.Content).
			Return("/images/products/x_new.png", nil)
		f.images.On("Delete", ctx, "/images/products/old_cap.png").Return(assert.AnError)
		f.products.On("Save", ctx, product).Return(nil)

		resp, err := f.service.Update(ctx, product.ID, UpdateProductRequest{
			ProductFields: ProductFields{Name: "Cap v2", Price: decimal.NewFromInt(12), CategoryID: category.ID},
		}, image)
		require.NoError(t, err, "old image deletion failures are tolerated")
		assert.Equal(t, "Cap v2", resp.Name)
		assert.Equal(t, "/images/products/x_new.png", resp.ImageURL)
		assert.Equal(t, 7, resp.Stock)
		f.images.AssertExpectations(t)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced product is kept without force", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "10", 1)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.products.On("CountOrderItems", ctx, product.ID).Return(int64(3), nil)

		result, err := f.service.Delete(ctx, product.ID, false)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "3 order items")
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("force deletes and removes the image", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "10", 1)
		product.SetImage("/images/products/a_cap.png")
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.products.On("CountOrderItems", ctx, product.ID).Return(int64(3), nil)
		f.products.On("Delete", ctx, product.ID).Return(nil)
		f.images.On("Delete", ctx, "/images/products/a_cap.png").Return(nil)

		result, err := f.service.Delete(ctx, product.ID, true)
		require.NoError(t, err)
		assert.True(t, result.Success)
		f.images.AssertExpectations(t)
	})

	t.Run("missing product", func(t *testing.T) {
		f := newProductServiceFixture()
		id := uuid.New()
		f.products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Delete(ctx, id, false)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_ToggleFlag(t *testing.T) {
	ctx := context.Background()

	t.Run("on sale assigns the default discount", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "50", 1)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.products.On("Save", ctx, product).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := f.service.ToggleFlag(ctx, product.ID, "on_sale")
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.True(t, resp.Value)
		require.NotNil(t, product.DiscountPrice)
		assert.Equal(t, "45.00", product.DiscountPrice.StringFixed(2))
	})

	t.Run("unknown flag", func(t *testing.T) {
		f := newProductServiceFixture()
		_, err := f.service.ToggleFlag(ctx, uuid.New(), "clearance")
		assert.Equal(t, "INVALID_FLAG", shared.CodeOf(err))
	})

	t.Run("publish failure does not fail the toggle", func(t *testing.T) {
		f := newProductServiceFixture()
		product := newTestProduct(t, "Cap", "50", 1)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.products.On("Save", ctx, product).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(assert.AnError)

		resp, err := f.service.ToggleFlag(ctx, product.ID, "featured")
		require.NoError(t, err)
		assert.True(t, resp.Value)
	})
}

func TestProductService_ToggleActive(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture()
	product := newTestProduct(t, "Cap", "10", 1)
	f.products.On("FindByID", ctx, product.ID).Return(product, nil)
	f.products.On("Save", ctx, product).Return(nil)

	resp, err := f.service.ToggleActive(ctx, product.ID)
	require.NoError(t, err)
	assert.False(t, resp.Value)
	assert.Contains(t, resp.Message, "deactivated")
}

func TestProductService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	f := newProductServiceFixture()
	f.service.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

	product := newTestProduct(t, "Cap", "10", 4)
	f.products.On("FindAllUnpaged", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		_, active := filter.Filters[catalog.FilterActive]
		return filter.Search == "cap" && !active && filter.Page == 0
	})).Return([]catalog.Product{*product}, nil)

	var buf bytes.Buffer
	name, err := f.service.ExportCSV(ctx, ProductListQuery{SearchTerm: "cap", ActiveOnly: true}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "products_20240309140507.csv", name)
	assert.Contains(t, buf.String(), product.ID.String())
}
