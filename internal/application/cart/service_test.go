package cart_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appcart "github.com/shop/storefront/internal/application/cart"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const session = "sess-1"

func newProduct(t *testing.T, name string, price int64, discount *decimal.Decimal, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", decimal.NewFromInt(price), discount, stock, uuid.New(), nil)
	require.NoError(t, err)
	return p
}

func savedCart(fn func(c cart.Cart) bool) interface{} {
	return mock.MatchedBy(fn)
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots the effective price", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		products := new(testutil.MockProductRepository)
		svc := appcart.NewService(store, products, 0, zap.NewNop())

		discount := decimal.NewFromInt(40)
		p := newProduct(t, "Mug", 50, &discount, 2)
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		store.On("Load", ctx, session).Return(cart.Cart{}, nil)
		store.On("Save", ctx, session, savedCart(func(c cart.Cart) bool {
			return c.Quantity(p.ID) == 2 && c.Total().Equal(decimal.NewFromInt(80))
		})).Return(nil)

		result, err := svc.Add(ctx, session, appcart.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.Cart.ItemCount)
		assert.True(t, result.Cart.Items[0].Price.Equal(decimal.NewFromInt(40)))
		store.AssertExpectations(t)
	})

	t.Run("quantity beyond stock is refused", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		products := new(testutil.MockProductRepository)
		svc := appcart.NewService(store, products, 0, zap.NewNop())

		p := newProduct(t, "Mug", 50, nil, 1)
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		store.On("Load", ctx, session).Return(cart.Cart{}, nil)

		result, err := svc.Add(ctx, session, appcart.AddItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "Mug")
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("repeat add sums and keeps the first snapshot", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		products := new(testutil.MockProductRepository)
		svc := appcart.NewService(store, products, 0, zap.NewNop())

		p := newProduct(t, "Renamed", 70, nil, 10)
		existing := cart.New(cart.Item{ProductID: p.ID, ProductName: "Mug", Price: decimal.NewFromInt(50), Quantity: 1})
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		store.On("Load", ctx, session).Return(existing, nil)
		store.On("Save", ctx, session, mock.Anything).Return(nil)

		result, err := svc.Add(ctx, session, appcart.AddItemRequest{ProductID: p.ID})
		require.NoError(t, err)
		require.Len(t, result.Cart.Items, 1)
		assert.Equal(t, 2, result.Cart.Items[0].Quantity)
		assert.Equal(t, "Mug", result.Cart.Items[0].ProductName)
		assert.True(t, result.Cart.Total.Equal(decimal.NewFromInt(100)))
	})

	t.Run("line cap", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		products := new(testutil.MockProductRepository)
		svc := appcart.NewService(store, products, 5, zap.NewNop())

		p := newProduct(t, "Mug", 50, nil, 100)
		existing := cart.New(cart.Item{ProductID: p.ID, ProductName: "Mug", Price: decimal.NewFromInt(50), Quantity: 4})
		products.On("FindByID", ctx, p.ID).Return(p, nil)
		store.On("Load", ctx, session).Return(existing, nil)

		result, err := svc.Add(ctx, session, appcart.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		assert.False(t, result.Success)
	})

	t.Run("unknown product", func(t *testing.T) {
		products := new(testutil.MockProductRepository)
		svc := appcart.NewService(new(testutil.MockCartStore), products, 0, zap.NewNop())
		id := uuid.New()
		products.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Add(ctx, session, appcart.AddItemRequest{ProductID: id, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_UpdateQuantities(t *testing.T) {
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	existing := cart.New(
		cart.Item{ProductID: a, ProductName: "A", Price: decimal.NewFromInt(10), Quantity: 1},
		cart.Item{ProductID: b, ProductName: "B", Price: decimal.NewFromInt(20), Quantity: 1},
	)

	t.Run("zero removes and unknown is ignored", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		svc := appcart.NewService(store, new(testutil.MockProductRepository), 0, zap.NewNop())
		store.On("Load", ctx, session).Return(existing, nil)
		store.On("Save", ctx, session, savedCart(func(c cart.Cart) bool {
			return len(c.Items()) == 1 && c.Quantity(b) == 3
		})).Return(nil)

		result, err := svc.UpdateQuantities(ctx, session, appcart.UpdateQuantitiesRequest{Lines: []appcart.LineQuantity{
			{ProductID: a, Quantity: 0},
			{ProductID: b, Quantity: 3},
			{ProductID: uuid.New(), Quantity: 9},
		}})
		require.NoError(t, err)
		assert.Equal(t, "Cart updated", result.Message)
		assert.True(t, result.Cart.Total.Equal(decimal.NewFromInt(60)))
		store.AssertExpectations(t)
	})

	t.Run("no change skips the write", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		svc := appcart.NewService(store, new(testutil.MockProductRepository), 0, zap.NewNop())
		store.On("Load", ctx, session).Return(existing, nil)

		result, err := svc.UpdateQuantities(ctx, session, appcart.UpdateQuantitiesRequest{Lines: []appcart.LineQuantity{{ProductID: a, Quantity: 1}}})
		require.NoError(t, err)
		assert.Equal(t, "Cart unchanged", result.Message)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_Remove(t *testing.T) {
	ctx := context.Background()
	a := uuid.New()
	existing := cart.New(cart.Item{ProductID: a, ProductName: "A", Price: decimal.NewFromInt(10), Quantity: 2})

	t.Run("removes the line", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		svc := appcart.NewService(store, new(testutil.MockProductRepository), 0, zap.NewNop())
		store.On("Load", ctx, session).Return(existing, nil)
		store.On("Save", ctx, session, savedCart(func(c cart.Cart) bool { return c.IsEmpty() })).Return(nil)

		result, err := svc.Remove(ctx, session, a)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.Cart.Items)
	})

	t.Run("missing line", func(t *testing.T) {
		store := new(testutil.MockCartStore)
		svc := appcart.NewService(store, new(testutil.MockProductRepository), 0, zap.NewNop())
		store.On("Load", ctx, session).Return(existing, nil)

		result, err := svc.Remove(ctx, session, uuid.New())
		require.NoError(t, err)
		assert.False(t, result.Success)
	})
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()
	store := new(testutil.MockCartStore)
	store.On("Delete", ctx, session).Return(nil)

	svc := appcart.NewService(store, new(testutil.MockProductRepository), 0, zap.NewNop())
	require.NoError(t, svc.Clear(ctx, session))
	store.AssertExpectations(t)
}
