// Package order places orders from the session cart and manages them afterwards.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appcart "github.com/shop/storefront/internal/application/cart"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// CheckoutRejection is reported when checkout is refused for a business reason
type CheckoutRejection string

const (
	RejectEmptyCart         CheckoutRejection = "empty_cart"
	RejectUnavailable       CheckoutRejection = "unavailable"
	RejectInsufficientStock CheckoutRejection = "insufficient_stock"
)

// CheckoutObserver is told about refused checkouts
type CheckoutObserver interface {
	CheckoutRejected(ctx context.Context, reason CheckoutRejection)
}

// shortage aborts the checkout transaction when a product ran out
// between validation and the stock decrement
type shortage struct {
	productName string
}

func (e *shortage) Error() string {
	return "insufficient stock for " + e.productName
}

// CheckoutService turns a session cart into an order
type CheckoutService struct {
	txScope     appshared.TransactionScope
	carts       cart.Store
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	events      shared.EventPublisher
	observer    CheckoutObserver
	logger      *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	txScope appshared.TransactionScope,
	carts cart.Store,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txScope:     txScope,
		carts:       carts,
		productRepo: productRepo,
		userRepo:    userRepo,
		events:      events,
		logger:      logger,
	}
}

// WithObserver sets an observer for refused checkouts
func (s *CheckoutService) WithObserver(observer CheckoutObserver) *CheckoutService {
	s.observer = observer
	return s
}

// Form returns the cart and a shipping form pre-filled from the user's profile
func (s *CheckoutService) Form(ctx context.Context, userID uuid.UUID, sessionID string) (*CheckoutView, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return &CheckoutView{Cart: appcart.ToCartView(c), Form: prefill(user)}, nil
}

// PlaceOrder converts the session cart into an order. Every line is
// checked against current stock before anything is written; the stock
// decrements and the order then commit together or not at all. Prices
// come from the current product, not the cart snapshot.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, sessionID string, req CheckoutRequest) (*CheckoutResult, error) {
	c, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return s.reject(ctx, RejectEmptyCart, "Your cart is empty"), nil
	}

	o, err := order.New(userID, req.shipping(), req.PaymentMethod, req.Notes)
	if err != nil {
		return nil, err
	}

	lines := c.Items()
	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.ProductID
	}
	found, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	products := make(map[uuid.UUID]*catalog.Product, len(found))
	for i := range found {
		products[found[i].ID] = &found[i]
	}

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return s.reject(ctx, RejectUnavailable, fmt.Sprintf("Product '%s' is no longer available", line.ProductName)), nil
		}
		if !product.HasStock(line.Quantity) {
			return s.reject(ctx, RejectInsufficientStock, insufficientStockMessage(product.Name)), nil
		}
		if err := o.AddItem(product.ID, product.Name, product.EffectivePrice(), line.Quantity); err != nil {
			return nil, err
		}
	}
	if err := o.Place(); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos appshared.TransactionalRepositories) error {
		for _, it := range o.Items {
			err := repos.Products().DecreaseStock(ctx, it.ProductID, it.Quantity)
			if errors.Is(err, shared.ErrInsufficientStock) {
				return &shortage{productName: it.ProductName}
			}
			if err != nil {
				return err
			}
		}
		return repos.Orders().Create(ctx, o)
	})
	var short *shortage
	if errors.As(err, &short) {
		return s.reject(ctx, RejectInsufficientStock, insufficientStockMessage(short.productName)), nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	if err := s.events.Publish(ctx, o.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish order events", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
	o.ClearDomainEvents()

	s.logger.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total", o.TotalAmount.StringFixed(2)),
		zap.Int("items", o.ItemCount()),
	)
	id := o.ID
	return &CheckoutResult{Result: shared.Ok("Your order has been placed"), OrderID: &id}, nil
}

func (s *CheckoutService) reject(ctx context.Context, reason CheckoutRejection, message string) *CheckoutResult {
	s.logger.Info("checkout rejected", zap.String("reason", string(reason)), zap.String("message", message))
	if s.observer != nil {
		s.observer.CheckoutRejected(ctx, reason)
	}
	return &CheckoutResult{Result: shared.Fail(message)}
}

func insufficientStockMessage(productName string) string {
	return fmt.Sprintf("Insufficient stock for product '%s'", productName)
}
