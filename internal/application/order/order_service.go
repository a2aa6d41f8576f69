package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Viewer is the authenticated caller of an order query
type Viewer struct {
	UserID    uuid.UUID
	CanManage bool
}

// OrderService serves customer and back-office order operations
type OrderService struct {
	txScope   appshared.TransactionScope
	orderRepo order.Repository
	events    shared.EventPublisher
	limits    appshared.Limits
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope appshared.TransactionScope,
	orderRepo order.Repository,
	events shared.EventPublisher,
	limits appshared.Limits,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		txScope:   txScope,
		orderRepo: orderRepo,
		events:    events,
		limits:    limits,
		logger:    logger,
	}
}

// MyOrders lists the user's orders, newest first
func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{order.FilterUserID: userID},
	})
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, nil
}

// Get returns an order. Customers only see their own orders; someone
// else's order is reported as not found.
func (s *OrderService) Get(ctx context.Context, viewer Viewer, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanManage && !o.IsOwnedBy(viewer.UserID) {
		return nil, shared.ErrNotFound
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel is the customer cancellation. The status change and the return
// of every line's quantity to stock commit together.
func (s *OrderService) Cancel(ctx context.Context, userID, id uuid.UUID) (*shared.Result, error) {
	var (
		o        *order.Order
		rejected bool
	)
	err := s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		var err error
		o, err = repos.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return shared.ErrNotFound
		}
		if !o.CanCancel() {
			rejected = true
			return nil
		}

		if err := o.Cancel(); err != nil {
			return err
		}
		for _, it := range o.Items {
			err := repos.Products().IncreaseStock(ctx, it.ProductID, it.Quantity)
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("cancelled order line references a missing product; stock not restored",
					zap.String("order_id", id.String()),
					zap.String("product_id", it.ProductID.String()),
				)
				continue
			}
			if err != nil {
				return err
			}
		}
		return repos.Orders().UpdateStatus(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	if rejected {
		result := shared.Fail("This order can no longer be cancelled")
		return &result, nil
	}

	s.publish(ctx, o)
	s.logger.Info("order cancelled",
		zap.String("order_id", id.String()),
		zap.Int("restored_units", o.ItemCount()),
	)
	result := shared.Ok("Order cancelled")
	return &result, nil
}

// AdminList returns a page of orders filtered by status and search text
func (s *OrderService) AdminList(ctx context.Context, query AdminListQuery) (*AdminListView, error) {
	filter := shared.Filter{
		Page:     query.Page,
		PageSize: s.limits.AdminPageSize,
		Search:   query.Search,
		Filters:  map[string]interface{}{},
	}
	if query.Status != "" {
		status, err := order.ParseStatus(query.Status)
		if err != nil {
			return nil, err
		}
		filter.Filters[order.FilterStatus] = status
	}

	page, err := appshared.FetchPage(ctx, filter, s.orderRepo.Count, s.orderRepo.FindAll)
	if err != nil {
		return nil, err
	}
	return &AdminListView{
		Orders:   appshared.MapPage(page, ToOrderResponse),
		Statuses: order.AllStatuses,
		Query:    query,
	}, nil
}

// UpdateStatus sets any valid status. Stock is left as it is.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*shared.Result, error) {
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	if err := o.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}
	s.publish(ctx, o)

	s.logger.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	result := shared.Ok(fmt.Sprintf("Order status updated to %s", status))
	return &result, nil
}

func (s *OrderService) publish(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	o.ClearDomainEvents()
}
