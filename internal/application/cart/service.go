// Package cart serves the anonymous, session-scoped shopping cart.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/cart"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Service manages the cart held for a session
type Service struct {
	store           cart.Store
	productRepo     catalog.ProductRepository
	maxLineQuantity int
	logger          *zap.Logger
}

// NewService creates a new cart Service. maxLineQuantity <= 0 means no cap.
func NewService(store cart.Store, productRepo catalog.ProductRepository, maxLineQuantity int, logger *zap.Logger) *Service {
	return &Service{
		store:           store,
		productRepo:     productRepo,
		maxLineQuantity: maxLineQuantity,
		logger:          logger,
	}
}

// Get returns the session cart
func (s *Service) Get(ctx context.Context, sessionID string) (CartView, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return CartView{}, err
	}
	return ToCartView(c), nil
}

// Add puts quantity units of a product in the cart. The request is refused
// when it exceeds the product's stock at this moment. Name, price and image
// are captured on the first add only.
func (s *Service) Add(ctx context.Context, sessionID string, req AddItemRequest) (*CartResult, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !product.HasStock(quantity) {
		return &CartResult{
			Result: shared.Fail(fmt.Sprintf("Not enough stock for '%s'", product.Name)),
			Cart:   ToCartView(c),
		}, nil
	}
	if s.maxLineQuantity > 0 && c.Quantity(product.ID)+quantity > s.maxLineQuantity {
		return &CartResult{
			Result: shared.Fail(fmt.Sprintf("At most %d units of a product can be ordered at once", s.maxLineQuantity)),
			Cart:   ToCartView(c),
		}, nil
	}

	c = c.Add(cart.Item{
		ProductID:   product.ID,
		ProductName: product.Name,
		Price:       product.EffectivePrice(),
		Quantity:    quantity,
		ImageURL:    product.ImageURL,
	})
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}

	s.logger.Debug("cart item added",
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", quantity),
	)
	return &CartResult{Result: shared.Ok("Product added to cart"), Cart: ToCartView(c)}, nil
}

// UpdateQuantities applies several quantity changes. Unknown products are ignored.
func (s *Service) UpdateQuantities(ctx context.Context, sessionID string, req UpdateQuantitiesRequest) (*CartResult, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(req.Lines))
	for _, line := range req.Lines {
		q := line.Quantity
		if s.maxLineQuantity > 0 && q > s.maxLineQuantity {
			q = s.maxLineQuantity
		}
		quantities[line.ProductID] = q
	}

	updated := c.UpdateQuantities(quantities)
	if cartsEqual(c, updated) {
		return &CartResult{Result: shared.Ok("Cart unchanged"), Cart: ToCartView(c)}, nil
	}
	if err := s.store.Save(ctx, sessionID, updated); err != nil {
		return nil, err
	}
	return &CartResult{Result: shared.Ok("Cart updated"), Cart: ToCartView(updated)}, nil
}

// Remove drops a product from the cart
func (s *Service) Remove(ctx context.Context, sessionID string, productID uuid.UUID) (*CartResult, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.Quantity(productID) == 0 {
		return &CartResult{Result: shared.Fail("Product is not in the cart"), Cart: ToCartView(c)}, nil
	}

	c = c.Remove(productID)
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return &CartResult{Result: shared.Ok("Product removed from cart"), Cart: ToCartView(c)}, nil
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func cartsEqual(a, b cart.Cart) bool {
	ai, bi := a.Items(), b.Items()
	if len(ai) != len(bi) {
		return false
	}
	for i := range ai {
		if ai[i].ProductID != bi[i].ProductID || ai[i].Quantity != bi[i].Quantity {
			return false
		}
	}
	return true
}
