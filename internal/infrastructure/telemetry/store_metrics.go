package telemetry

import (
	"context"
	"sync"
	"time"

	apporder "github.com/shop/storefront/internal/application/order"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/identity"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/order"
	"github.com/shop/storefront/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ProductCounter counts products matching a filter
type ProductCounter interface {
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StoreMetricsConfig configures StoreMetrics
type StoreMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	// Products and LowStockThreshold feed the low-stock gauge; Products may be nil
	Products          ProductCounter
	LowStockThreshold int
}

// StoreMetrics records storefront business metrics from domain events and
// checkout outcomes
type StoreMetrics struct {
	ordersPlaced       *Counter
	orderAmount        *Histogram
	orderItems         *Counter
	ordersCancelled    *Counter
	orderStatusChanges *Counter
	checkoutRejections *Counter
	stockReceived      *Counter
	registrations      *Counter
	productsCreated    *Counter
	lowStockProducts   *Gauge

	products  ProductCounter
	threshold int
	logger    *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewStoreMetrics creates the business instruments
func NewStoreMetrics(cfg StoreMetricsConfig) (*StoreMetrics, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	m := &StoreMetrics{
		products:  cfg.Products,
		threshold: cfg.LowStockThreshold,
		logger:    cfg.Logger,
		stop:      make(chan struct{}),
	}
	meter := cfg.Meter

	var err error
	if m.ordersPlaced, err = NewCounter(meter, "store.orders.placed", "Orders placed at checkout", "{order}"); err != nil {
		return nil, err
	}
	if m.orderAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "store.order.amount",
		Description: "Order totals at checkout",
		Unit:        "{currency}",
		Boundaries:  OrderAmountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.orderItems, err = NewCounter(meter, "store.order.items", "Units sold at checkout", "{unit}"); err != nil {
		return nil, err
	}
	if m.ordersCancelled, err = NewCounter(meter, "store.orders.cancelled", "Orders cancelled by customers", "{order}"); err != nil {
		return nil, err
	}
	if m.orderStatusChanges, err = NewCounter(meter, "store.orders.status_changes", "Back-office order status changes", "{change}"); err != nil {
		return nil, err
	}
	if m.checkoutRejections, err = NewCounter(meter, "store.checkout.rejections", "Checkouts refused for a business reason", "{checkout}"); err != nil {
		return nil, err
	}
	if m.stockReceived, err = NewCounter(meter, "store.stock.received", "Units moved by inventory receipts", "{unit}"); err != nil {
		return nil, err
	}
	if m.registrations, err = NewCounter(meter, "store.users.registered", "Customer registrations", "{user}"); err != nil {
		return nil, err
	}
	if m.productsCreated, err = NewCounter(meter, "store.products.created", "Products added to the catalog", "{product}"); err != nil {
		return nil, err
	}
	if m.lowStockProducts, err = NewGauge(meter, "store.products.low_stock", "Products at or below the low-stock threshold", "{product}"); err != nil {
		return nil, err
	}
	return m, nil
}

// EventTypes implements shared.EventHandler
func (m *StoreMetrics) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderStatusChanged,
		inventory.EventTypeStockReceived,
		identity.EventTypeUserRegistered,
		catalog.EventTypeProductCreated,
	}
}

// Handle implements shared.EventHandler
func (m *StoreMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		m.ordersPlaced.Inc(ctx)
		m.orderAmount.Record(ctx, e.TotalAmount.InexactFloat64())
		m.orderItems.Add(ctx, int64(e.ItemCount))
	case *order.OrderCancelledEvent:
		m.ordersCancelled.Inc(ctx)
	case *order.OrderStatusChangedEvent:
		m.orderStatusChanges.Inc(ctx, AttrOrderStatus.String(string(e.Status)))
	case *inventory.StockReceivedEvent:
		direction, units := "in", int64(e.Delta)
		if e.Delta < 0 {
			direction, units = "out", -units
		}
		m.stockReceived.Add(ctx, units, AttrStockDirection.String(direction))
	case *identity.UserRegisteredEvent:
		m.registrations.Inc(ctx)
	case *catalog.ProductCreatedEvent:
		m.productsCreated.Inc(ctx)
	}
	return nil
}

// CheckoutRejected implements order.CheckoutObserver
func (m *StoreMetrics) CheckoutRejected(ctx context.Context, reason apporder.CheckoutRejection) {
	m.checkoutRejections.Inc(ctx, AttrRejectionReason.String(string(reason)))
}

// CollectLowStock records the current low-stock product count
func (m *StoreMetrics) CollectLowStock(ctx context.Context) {
	if m.products == nil {
		return
	}
	count, err := m.products.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{catalog.FilterStockAtMost: m.threshold},
	})
	if err != nil {
		m.logger.Warn("failed to count low-stock products", zap.Error(err))
		return
	}
	m.lowStockProducts.Record(ctx, count)
}

// StartPeriodicCollection samples the low-stock gauge every interval until Stop
func (m *StoreMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if m.products == nil || interval <= 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		m.CollectLowStock(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.CollectLowStock(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends periodic collection. Safe to call more than once.
func (m *StoreMetrics) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	m.wg.Wait()
}

var (
	_ shared.EventHandler       = (*StoreMetrics)(nil)
	_ apporder.CheckoutObserver = (*StoreMetrics)(nil)
)
