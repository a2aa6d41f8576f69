package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/content"
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

type dashboardFixture struct {
	products   *testutil.MockProductRepository
	categories *testutil.MockCategoryRepository
	orders     *testutil.MockOrderRepository
	users      *testutil.MockUserRepository
	contacts   *testutil.MockContactRepository
	svc        *Service
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		products:   new(testutil.MockProductRepository),
		categories: new(testutil.MockCategoryRepository),
		orders:     new(testutil.MockOrderRepository),
		users:      new(testutil.MockUserRepository),
		contacts:   new(testutil.MockContactRepository),
	}
	f.svc = NewService(f.products, f.categories, f.orders, f.users, f.contacts, appshared.DefaultLimits(), zap.NewNop())
	return f
}

var (
	unfiltered = mock.MatchedBy(func(f shared.Filter) bool { return len(f.Filters) == 0 })
	lowStock   = mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters[catalog.FilterStockAtMost] == 10 && f.PageSize == 5 && f.OrderBy == "stock"
	})
)

func TestService_Overview(t *testing.T) {
	t.Run("collects totals and lists", func(t *testing.T) {
		f := newDashboardFixture()

		placed, err := order.New(uuid.New(), order.Shipping{
			Name: "Jane", Address: "1 Main St", City: "Hanoi", Country: "VN", Phone: "0900",
		}, "", "")
		require.NoError(t, err)
		require.NoError(t, placed.AddItem(uuid.New(), "Mug", decimal.NewFromInt(12), 2))
		require.NoError(t, placed.Place())

		scarce, err := catalog.NewProduct("Mug", "", decimal.NewFromInt(12), nil, 3, uuid.New(), nil)
		require.NoError(t, err)

		f.products.On("Count", mock.Anything, unfiltered).Return(int64(40), nil)
		f.products.On("FindAll", mock.Anything, lowStock).Return([]catalog.Product{*scarce}, nil)
		f.categories.On("Count", mock.Anything, unfiltered).Return(int64(6), nil)
		f.orders.On("Count", mock.Anything, unfiltered).Return(int64(120), nil)
		f.orders.On("FindAll", mock.Anything, mock.MatchedBy(func(fl shared.Filter) bool {
			return fl.PageSize == 5 && fl.OrderBy == "order_date" && fl.OrderDir == "desc"
		})).Return([]order.Order{*placed}, nil)
		f.users.On("Count", mock.Anything, mock.MatchedBy(func(fl shared.Filter) bool {
			return fl.Filters[identity.FilterRole] == "Customer"
		})).Return(int64(75), nil)
		f.contacts.On("Count", mock.Anything, mock.MatchedBy(func(fl shared.Filter) bool {
			return fl.Filters[content.FilterUnread] == true
		})).Return(int64(2), nil)

		view, err := f.svc.Overview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, Totals{Products: 40, Categories: 6, Orders: 120, Customers: 75}, view.Totals)
		assert.Equal(t, int64(2), view.UnreadContacts)
		assert.Equal(t, 10, view.LowStockLimit)
		require.Len(t, view.RecentOrders, 1)
		assert.True(t, decimal.NewFromInt(24).Equal(view.RecentOrders[0].TotalAmount))
		require.Len(t, view.LowStock, 1)
		assert.Equal(t, 3, view.LowStock[0].Stock)
	})

	t.Run("any failing query fails the overview", func(t *testing.T) {
		f := newDashboardFixture()
		f.products.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.products.On("FindAll", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
		f.categories.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.orders.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
		f.orders.On("FindAll", mock.Anything, mock.Anything).Return([]order.Order{}, nil)
		f.users.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)
		f.contacts.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

		_, err := f.svc.Overview(context.Background())
		assert.EqualError(t, err, "db down")
	})
}
