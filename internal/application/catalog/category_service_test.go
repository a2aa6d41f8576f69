package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	categories := new(testutil.MockCategoryRepository)
	images := new(testutil.MockImageStore)
	svc := NewCategoryService(categories, new(testutil.MockProductRepository), images, appshared.DefaultLimits(), zap.NewNop())

	image := &appshared.ImageUpload{Filename: "hats.jpg", Content: strings.NewReader("jpg")}
	images.On("Save", ctx, appshared.FolderCategories, "hats.jpg", image.Content).
		Return("/images/categories/1_hats.jpg", nil)
	categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

	inactive := false
	resp, err := svc.Create(ctx, CategoryRequest{Name: "Hats", DisplayOrder: 2, IsActive: &inactive}, image)
	require.NoError(t, err)
	assert.Equal(t, "/images/categories/1_hats.jpg", resp.ImageURL)
	assert.False(t, resp.IsActive)
	assert.Equal(t, 2, resp.DisplayOrder)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked while products exist", func(t *testing.T) {
		categories := new(testutil.MockCategoryRepository)
		products := new(testutil.MockProductRepository)
		svc := NewCategoryService(categories, products, new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())

		category := newTestCategory(t, "Hats")
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		products.On("CountByCategory", ctx, category.ID).Return(int64(2), nil)

		result, err := svc.Delete(ctx, category.ID)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "2 products")
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes empty category and its image", func(t *testing.T) {
		categories := new(testutil.MockCategoryRepository)
		products := new(testutil.MockProductRepository)
		images := new(testutil.MockImageStore)
		svc := NewCategoryService(categories, products, images, appshared.DefaultLimits(), zap.NewNop())

		category := newTestCategory(t, "Hats")
		category.SetImage("/images/categories/1_hats.jpg")
		categories.On("FindByID", ctx, category.ID).Return(category, nil)
		products.On("CountByCategory", ctx, category.ID).Return(int64(0), nil)
		categories.On("Delete", ctx, category.ID).Return(nil)
		images.On("Delete", ctx, "/images/categories/1_hats.jpg").Return(nil)

		result, err := svc.Delete(ctx, category.ID)
		require.NoError(t, err)
		assert.True(t, result.Success)
		images.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		categories := new(testutil.MockCategoryRepository)
		svc := NewCategoryService(categories, new(testutil.MockProductRepository), new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())
		id := uuid.New()
		categories.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Delete(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCategoryService_SetActive(t *testing.T) {
	ctx := context.Background()
	categories := new(testutil.MockCategoryRepository)
	svc := NewCategoryService(categories, new(testutil.MockProductRepository), new(testutil.MockImageStore), appshared.DefaultLimits(), zap.NewNop())

	category := newTestCategory(t, "Hats")
	categories.On("FindByID", ctx, category.ID).Return(category, nil)
	categories.On("Save", ctx, category).Return(nil)

	resp, err := svc.SetActive(ctx, category.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestSupplierService_Delete(t *testing.T) {
	ctx := context.Background()
	newSupplier := func(t *testing.T) *catalog.Supplier {
		s, err := catalog.NewSupplier("Acme", catalog.SupplierContact{Email: "sales@acme.test"})
		require.NoError(t, err)
		return s
	}

	t.Run("blocked by products", func(t *testing.T) {
		suppliers := new(testutil.MockSupplierRepository)
		products := new(testutil.MockProductRepository)
		svc := NewSupplierService(suppliers, products, appshared.DefaultLimits(), zap.NewNop())

		s := newSupplier(t)
		suppliers.On("FindByID", ctx, s.ID).Return(s, nil)
		products.On("CountBySupplier", ctx, s.ID).Return(int64(1), nil)

		result, err := svc.Delete(ctx, s.ID)
		require.NoError(t, err)
		assert.False(t, result.Success)
		suppliers.AssertNotCalled(t, "CountReceipts", mock.Anything, mock.Anything)
	})

	t.Run("blocked by inventory receipts", func(t *testing.T) {
		suppliers := new(testutil.MockSupplierRepository)
		products := new(testutil.MockProductRepository)
		svc := NewSupplierService(suppliers, products, appshared.DefaultLimits(), zap.NewNop())

		s := newSupplier(t)
		suppliers.On("FindByID", ctx, s.ID).Return(s, nil)
		products.On("CountBySupplier", ctx, s.ID).Return(int64(0), nil)
		suppliers.On("CountReceipts", ctx, s.ID).Return(int64(4), nil)

		result, err := svc.Delete(ctx, s.ID)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "4 inventory receipts")
	})

	t.Run("deletes unreferenced supplier", func(t *testing.T) {
		suppliers := new(testutil.MockSupplierRepository)
		products := new(testutil.MockProductRepository)
		svc := NewSupplierService(suppliers, products, appshared.DefaultLimits(), zap.NewNop())

		s := newSupplier(t)
		suppliers.On("FindByID", ctx, s.ID).Return(s, nil)
		products.On("CountBySupplier", ctx, s.ID).Return(int64(0), nil)
		suppliers.On("CountReceipts", ctx, s.ID).Return(int64(0), nil)
		suppliers.On("Delete", ctx, s.ID).Return(nil)

		result, err := svc.Delete(ctx, s.ID)
		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}

func TestSupplierService_Update(t *testing.T) {
	ctx := context.Background()
	suppliers := new(testutil.MockSupplierRepository)
	svc := NewSupplierService(suppliers, new(testutil.MockProductRepository), appshared.DefaultLimits(), zap.NewNop())

	s, err := catalog.NewSupplier("Acme", catalog.SupplierContact{})
	require.NoError(t, err)
	suppliers.On("FindByID", ctx, s.ID).Return(s, nil)

	_, err = svc.Update(ctx, s.ID, SupplierRequest{Name: "Acme", Email: "not-an-email"})
	assert.Equal(t, "INVALID_EMAIL", shared.CodeOf(err))
	suppliers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
