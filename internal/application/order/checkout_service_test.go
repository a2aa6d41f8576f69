package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	apporder "github.com/shop/storefront/internal/application/order"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sessionID = "sess-42"

type checkoutFixture struct {
	carts    *testutil.MockCartStore
	products *testutil.MockProductRepository
	orders   *testutil.MockOrderRepository
	users    *testutil.MockUserRepository
	events   *testutil.RecordingPublisher
	rejected []apporder.CheckoutRejection
	service  *apporder.CheckoutService
}

func (f *checkoutFixture) CheckoutRejected(_ context.Context, reason apporder.CheckoutRejection) {
	f.rejected = append(f.rejected, reason)
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:    new(testutil.MockCartStore),
		products: new(testutil.MockProductRepository),
		orders:   new(testutil.MockOrderRepository),
		users:    new(testutil.MockUserRepository),
		events:   testutil.NewRecordingPublisher(),
	}
	scope := appshared.NewNoOpTransactionScope(f.products, nil, f.orders)
	f.service = apporder.NewCheckoutService(scope, f.carts, f.products, f.users, f.events, zap.NewNop()).WithObserver(f)
	return f
}

func product(t *testing.T, name string, price int64, discount *decimal.Decimal, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(name, "", decimal.NewFromInt(price), discount, stock, uuid.New(), nil)
	require.NoError(t, err)
	return p
}

func line(p *catalog.Product, qty int) cart.Item {
	return cart.Item{ProductID: p.ID, ProductName: p.Name, Price: p.Price, Quantity: qty}
}

func validRequest() apporder.CheckoutRequest {
	return apporder.CheckoutRequest{
		ShippingName:    "Lan Tran",
		ShippingAddress: "12 Nguyen Hue",
		ShippingCity:    "Ho Chi Minh City",
		ShippingCountry: "Vietnam",
		ShippingPhone:   "+84 90 123 4567",
		PaymentMethod:   "COD",
	}
}

func TestCheckoutService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("prices from current products and decrements every line", func(t *testing.T) {
		f := newCheckoutFixture()
		discount := decimal.NewFromInt(40)
		a := product(t, "A", 100, nil, 5)
		b := product(t, "B", 50, &discount, 2)

		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(a, 3), line(b, 2)), nil)
		f.products.On("FindByIDs", ctx, []uuid.UUID{a.ID, b.ID}).Return([]catalog.Product{*a, *b}, nil)
		f.products.On("DecreaseStock", ctx, a.ID, 3).Return(nil)
		f.products.On("DecreaseStock", ctx, b.ID, 2).Return(nil)
		f.orders.On("Create", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.TotalAmount.Equal(decimal.NewFromInt(380)) &&
				o.Status == order.StatusPending &&
				o.PaymentStatus == order.PaymentPending &&
				len(o.Items) == 2
		})).Return(nil)
		f.carts.On("Delete", ctx, sessionID).Return(nil)

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.NotNil(t, result.OrderID)

		placed := f.events.EventsOfType(order.EventTypeOrderPlaced)
		require.Len(t, placed, 1)
		assert.Equal(t, []uuid.UUID{a.ID, b.ID}, placed[0].(*order.OrderPlacedEvent).ProductIDs)
		f.products.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.carts.AssertExpectations(t)
	})

	t.Run("one short line rejects the whole order before any write", func(t *testing.T) {
		f := newCheckoutFixture()
		a := product(t, "A", 100, nil, 5)
		b := product(t, "B", 50, nil, 1)

		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(a, 3), line(b, 2)), nil)
		f.products.On("FindByIDs", ctx, []uuid.UUID{a.ID, b.ID}).Return([]catalog.Product{*a, *b}, nil)

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Insufficient stock for product 'B'", result.Message)
		assert.Equal(t, []apporder.CheckoutRejection{apporder.RejectInsufficientStock}, f.rejected)

		f.products.AssertNotCalled(t, "DecreaseStock", mock.Anything, mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("stock taken by a concurrent checkout rolls back", func(t *testing.T) {
		f := newCheckoutFixture()
		a := product(t, "A", 100, nil, 5)
		b := product(t, "B", 50, nil, 2)

		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(a, 1), line(b, 2)), nil)
		f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*a, *b}, nil)
		f.products.On("DecreaseStock", ctx, a.ID, 1).Return(nil)
		f.products.On("DecreaseStock", ctx, b.ID, 2).Return(shared.ErrInsufficientStock)

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "'B'")
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.Events())
	})

	t.Run("removed product", func(t *testing.T) {
		f := newCheckoutFixture()
		gone := product(t, "Gone", 10, nil, 5)

		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(gone, 1)), nil)
		f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{}, nil)

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, []apporder.CheckoutRejection{apporder.RejectUnavailable}, f.rejected)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newCheckoutFixture()
		f.carts.On("Load", ctx, sessionID).Return(cart.Cart{}, nil)

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Your cart is empty", result.Message)
	})

	t.Run("invalid shipping", func(t *testing.T) {
		f := newCheckoutFixture()
		a := product(t, "A", 100, nil, 5)
		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(a, 1)), nil)

		req := validRequest()
		req.ShippingPhone = "call me"
		_, err := f.service.PlaceOrder(ctx, userID, sessionID, req)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_SHIPPING", domainErr.Code)
	})

	t.Run("cart clear failure does not fail the order", func(t *testing.T) {
		f := newCheckoutFixture()
		a := product(t, "A", 100, nil, 5)

		f.carts.On("Load", ctx, sessionID).Return(cart.New(line(a, 1)), nil)
		f.products.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*a}, nil)
		f.products.On("DecreaseStock", ctx, a.ID, 1).Return(nil)
		f.orders.On("Create", ctx, mock.Anything).Return(nil)
		f.carts.On("Delete", ctx, sessionID).Return(errors.New("redis down"))

		result, err := f.service.PlaceOrder(ctx, userID, sessionID, validRequest())
		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}

func TestCheckoutService_Form(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()

	user, err := identity.NewCustomer("lan@example.com", "secret123", identity.Profile{
		FirstName: "Lan", LastName: "Tran", City: "Hue", Phone: "0901",
	})
	require.NoError(t, err)

	f.carts.On("Load", ctx, sessionID).Return(cart.Cart{}, nil)
	f.users.On("FindByID", ctx, user.ID).Return(user, nil)

	view, err := f.service.Form(ctx, user.ID, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "Lan Tran", view.Form.ShippingName)
	assert.Equal(t, "Hue", view.Form.ShippingCity)
	assert.Equal(t, "0901", view.Form.ShippingPhone)
}
