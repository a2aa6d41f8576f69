// Package dashboard assembles the admin landing page.
package dashboard

import (
	"context"

	appcatalog "github.com/shop/storefront/internal/application/catalog"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/application/order"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/content"
	"github.com/shop/storefront/internal/domain/identity"
	domainorder "github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Totals are the headline counters
type Totals struct {
	Products   int64 `json:"products"`
	Categories int64 `json:"categories"`
	Orders     int64 `json:"orders"`
	Customers  int64 `json:"customers"`
}

// Overview is the admin dashboard view-model
type Overview struct {
	Totals         Totals                       `json:"totals"`
	RecentOrders   []order.OrderResponse        `json:"recent_orders"`
	LowStock       []appcatalog.ProductResponse `json:"low_stock"`
	LowStockLimit  int                          `json:"low_stock_threshold"`
	UnreadContacts int64                        `json:"unread_contacts"`
}

// Service reads the dashboard figures
type Service struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	orders     domainorder.Repository
	users      identity.UserRepository
	contacts   content.ContactRepository
	limits     appshared.Limits
	logger     *zap.Logger
}

// NewService creates a new dashboard Service
func NewService(
	products catalog.ProductRepository,
	categories catalog.CategoryRepository,
	orders domainorder.Repository,
	users identity.UserRepository,
	contacts content.ContactRepository,
	limits appshared.Limits,
	logger *zap.Logger,
) *Service {
	return &Service{
		products:   products,
		categories: categories,
		orders:     orders,
		users:      users,
		contacts:   contacts,
		limits:     limits,
		logger:     logger,
	}
}

// Overview runs the independent queries concurrently and fails if any fails
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var (
		view        = &Overview{LowStockLimit: s.limits.LowStockThreshold}
		recent      []domainorder.Order
		lowStock    []catalog.Product
		g, groupCtx = errgroup.WithContext(ctx)
	)

	g.Go(func() (err error) {
		view.Totals.Products, err = s.products.Count(groupCtx, shared.Filter{})
		return err
	})
	g.Go(func() (err error) {
		view.Totals.Categories, err = s.categories.Count(groupCtx, shared.Filter{})
		return err
	})
	g.Go(func() (err error) {
		view.Totals.Orders, err = s.orders.Count(groupCtx, shared.Filter{})
		return err
	})
	g.Go(func() (err error) {
		view.Totals.Customers, err = s.users.Count(groupCtx, shared.Filter{
			Filters: map[string]interface{}{identity.FilterRole: string(identity.RoleCustomer)},
		})
		return err
	})
	g.Go(func() (err error) {
		view.UnreadContacts, err = s.contacts.Count(groupCtx, shared.Filter{
			Filters: map[string]interface{}{content.FilterUnread: true},
		})
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.orders.FindAll(groupCtx, shared.Filter{
			Page:     1,
			PageSize: s.limits.DashboardRecent,
			OrderBy:  "order_date",
			OrderDir: "desc",
		})
		return err
	})
	g.Go(func() (err error) {
		lowStock, err = s.products.FindAll(groupCtx, shared.Filter{
			Page:     1,
			PageSize: s.limits.DashboardRecent,
			OrderBy:  "stock",
			OrderDir: "asc",
			Filters:  map[string]interface{}{catalog.FilterStockAtMost: s.limits.LowStockThreshold},
		})
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load dashboard", zap.Error(err))
		return nil, err
	}

	view.RecentOrders = make([]order.OrderResponse, len(recent))
	for i := range recent {
		view.RecentOrders[i] = order.ToOrderResponse(&recent[i])
	}
	view.LowStock = appcatalog.ToProductResponses(lowStock)
	return view, nil
}
