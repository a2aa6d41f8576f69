package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockHandler raises stock alerts when an order or a receipt
// reduction leaves a product at or below the low-stock threshold
type LowStockHandler struct {
	productRepo catalog.ProductRepository
	threshold   int
	logger      *zap.Logger
	notifier    StockAlertNotifier
}

// StockAlertNotifier is the interface for sending stock alerts
type StockAlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents a stock level alert
type StockAlert struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
	AlertType   string `json:"alert_type"` // "low_stock", "out_of_stock"
}

// NewLowStockHandler creates a new handler for stock-reducing events
func NewLowStockHandler(productRepo catalog.ProductRepository, threshold int, logger *zap.Logger) *LowStockHandler {
	return &LowStockHandler{
		productRepo: productRepo,
		threshold:   threshold,
		logger:      logger,
	}
}

// WithNotifier sets the notifier for sending alerts
func (h *LowStockHandler) WithNotifier(notifier StockAlertNotifier) *LowStockHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPlaced, inventory.EventTypeStockReceived}
}

// Handle checks the stock of every product the event reduced
func (h *LowStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var productIDs []uuid.UUID
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		productIDs = e.ProductIDs
	case *inventory.StockReceivedEvent:
		if e.Delta >= 0 {
			return nil
		}
		productIDs = []uuid.UUID{e.ProductID}
	default:
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}

	products, err := h.productRepo.FindByIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	for i := range products {
		p := &products[i]
		if p.Stock > h.threshold {
			continue
		}

		alertType := "low_stock"
		if p.Stock == 0 {
			alertType = "out_of_stock"
		}
		alert := StockAlert{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Stock:       p.Stock,
			Threshold:   h.threshold,
			AlertType:   alertType,
		}

		h.logger.Warn("stock below threshold detected",
			zap.String("product_id", alert.ProductID),
			zap.Int("stock", alert.Stock),
			zap.Int("threshold", alert.Threshold),
		)

		if h.notifier == nil {
			continue
		}
		if err := h.notifier.SendAlert(ctx, alert); err != nil {
			// notification failure shouldn't fail the event handling
			h.logger.Error("failed to send stock alert notification",
				zap.String("product_id", alert.ProductID),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Ensure LowStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*LowStockHandler)(nil)

// LoggingStockAlertNotifier is a simple notifier that logs alerts
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(ctx context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("type", alert.AlertType),
		zap.String("product_id", alert.ProductID),
		zap.String("product_name", alert.ProductName),
		zap.Int("stock", alert.Stock),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
