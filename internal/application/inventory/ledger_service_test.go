package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/domain/catalog"
	"github.com/shop/storefront/internal/domain/inventory"
	"github.com/shop/storefront/internal/domain/shared"
	"github.com/shop/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type ledgerFixture struct {
	products  *testutil.MockProductRepository
	receipts  *testutil.MockReceiptRepository
	suppliers *testutil.MockSupplierRepository
	events    *testutil.RecordingPublisher
	logs      *observer.ObservedLogs
	service   *LedgerService
}

func newLedgerFixture() *ledgerFixture {
	core, logs := observer.New(zapcore.InfoLevel)
	f := &ledgerFixture{
		products:  new(testutil.MockProductRepository),
		receipts:  new(testutil.MockReceiptRepository),
		suppliers: new(testutil.MockSupplierRepository),
		events:    testutil.NewRecordingPublisher(),
		logs:      logs,
	}
	scope := appshared.NewNoOpTransactionScope(f.products, f.receipts, nil)
	f.service = NewLedgerService(scope, f.receipts, f.suppliers, f.events, appshared.DefaultLimits(), zap.New(core))
	return f
}

func testSupplier(t *testing.T) *catalog.Supplier {
	t.Helper()
	s, err := catalog.NewSupplier("Acme", catalog.SupplierContact{})
	require.NoError(t, err)
	return s
}

func testProduct(t *testing.T, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("Kettle", "", decimal.NewFromInt(30), nil, stock, uuid.New(), nil)
	require.NoError(t, err)
	return p
}

func TestLedgerService_Receive(t *testing.T) {
	ctx := context.Background()

	t.Run("records the receipt and adds stock", func(t *testing.T) {
		f := newLedgerFixture()
		supplier := testSupplier(t)
		product := testProduct(t, 5)

		f.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.receipts.On("Save", ctx, mock.AnythingOfType("*inventory.Receipt")).Return(nil)
		f.products.On("IncreaseStock", ctx, product.ID, 10).Return(nil)

		result, err := f.service.Receive(ctx, ReceiveRequest{ProductID: product.ID, SupplierID: supplier.ID, Quantity: 10})
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "Kettle", result.Receipt.ProductName)
		assert.Equal(t, "Acme", result.Receipt.SupplierName)
		assert.WithinDuration(t, time.Now(), result.Receipt.ReceivedDate, time.Minute)
		assert.Len(t, f.events.EventsOfType(inventory.EventTypeStockReceived), 1)
		f.products.AssertExpectations(t)
	})

	t.Run("missing product is rejected", func(t *testing.T) {
		f := newLedgerFixture()
		supplier := testSupplier(t)
		productID := uuid.New()

		f.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.products.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Receive(ctx, ReceiveRequest{ProductID: productID, SupplierID: supplier.ID, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.receipts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.Events())
	})

	t.Run("missing supplier is rejected", func(t *testing.T) {
		f := newLedgerFixture()
		supplierID := uuid.New()
		f.suppliers.On("FindByID", ctx, supplierID).Return(nil, shared.ErrNotFound)

		_, err := f.service.Receive(ctx, ReceiveRequest{ProductID: uuid.New(), SupplierID: supplierID, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_Amend(t *testing.T) {
	ctx := context.Background()

	newReceipt := func(t *testing.T, productID, supplierID uuid.UUID, qty int) *inventory.Receipt {
		r, err := inventory.NewReceipt(productID, supplierID, qty, time.Now(), "")
		require.NoError(t, err)
		r.ClearDomainEvents()
		return r
	}

	t.Run("lowering quantity removes the difference", func(t *testing.T) {
		f := newLedgerFixture()
		supplier := testSupplier(t)
		product := testProduct(t, 15)
		receipt := newReceipt(t, product.ID, supplier.ID, 10)

		f.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.receipts.On("FindByID", ctx, receipt.ID).Return(receipt, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.receipts.On("Save", ctx, receipt).Return(nil)
		f.products.On("DecreaseStockClamped", ctx, product.ID, 6).Return(0, nil)

		result, err := f.service.Amend(ctx, receipt.ID, AmendRequest{SupplierID: supplier.ID, Quantity: 4})
		require.NoError(t, err)
		assert.Equal(t, "Receipt updated", result.Message)
		assert.Equal(t, 4, result.Receipt.Quantity)
		f.products.AssertExpectations(t)
	})

	t.Run("raising quantity adds the difference", func(t *testing.T) {
		f := newLedgerFixture()
		supplier := testSupplier(t)
		product := testProduct(t, 15)
		receipt := newReceipt(t, product.ID, supplier.ID, 10)

		f.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.receipts.On("FindByID", ctx, receipt.ID).Return(receipt, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.receipts.On("Save", ctx, receipt).Return(nil)
		f.products.On("IncreaseStock", ctx, product.ID, 2).Return(nil)

		_, err := f.service.Amend(ctx, receipt.ID, AmendRequest{SupplierID: supplier.ID, Quantity: 12})
		require.NoError(t, err)
		f.products.AssertExpectations(t)
	})

	t.Run("same quantity leaves stock alone", func(t *testing.T) {
		f := newLedgerFixture()
		supplier := testSupplier(t)
		product := testProduct(t, 15)
		receipt := newReceipt(t, product.ID, supplier.ID, 10)

		f.suppliers.On("FindByID", ctx, supplier.ID).Return(supplier, nil)
		f.receipts.On("FindByID", ctx, receipt.ID).Return(receipt, nil)
		f.products.On("FindByID", ctx, product.ID).Return(product, nil)
		f.receipts.On("Save", ctx, receipt).Return(nil)

		_, err := f.service.Amend(ctx, receipt.ID, AmendRequest{SupplierID: supplier.ID, Quantity: 10, Notes: "recount"})
		require.NoError(t, err)
		f.products.AssertNotCalled(t, "IncreaseStock", mock.Anything, mock.Anything, mock.Anything)
		f.products.AssertNotCalled(t, "DecreaseStockClamped", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerService_Retract(t *testing.T) {
	ctx := context.Background()

	t.Run("clamp is logged and reported", func(t *testing.T) {
		f := newLedgerFixture()
		receipt, err := inventory.NewReceipt(uuid.New(), uuid.New(), 10, time.Now(), "")
		require.NoError(t, err)

		f.receipts.On("FindByID", ctx, receipt.ID).Return(receipt, nil)
		f.receipts.On("Delete", ctx, receipt.ID).Return(nil)
		f.products.On("DecreaseStockClamped", ctx, receipt.ProductID, 10).Return(3, nil)

		result, err := f.service.Retract(ctx, receipt.ID)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 3, result.Shortfall)
		assert.Contains(t, result.Message, "3 units")

		warnings := f.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage("receipt retraction clamped stock at zero")
		require.Equal(t, 1, warnings.Len())
		assert.Equal(t, int64(3), warnings.All()[0].ContextMap()["shortfall"])

		events := f.events.EventsOfType(inventory.EventTypeStockReceived)
		require.Len(t, events, 1)
		assert.Equal(t, -7, events[0].(*inventory.StockReceivedEvent).Delta)
	})

	t.Run("missing product skips the stock update", func(t *testing.T) {
		f := newLedgerFixture()
		receipt, err := inventory.NewReceipt(uuid.New(), uuid.New(), 4, time.Now(), "")
		require.NoError(t, err)

		f.receipts.On("FindByID", ctx, receipt.ID).Return(receipt, nil)
		f.receipts.On("Delete", ctx, receipt.ID).Return(nil)
		f.products.On("DecreaseStockClamped", ctx, receipt.ProductID, 4).Return(0, shared.ErrNotFound)

		result, err := f.service.Retract(ctx, receipt.ID)
		require.NoError(t, err)
		assert.Contains(t, result.Message, "no longer exists")
		assert.Equal(t, 1, f.logs.FilterLevelExact(zapcore.WarnLevel).Len())
		assert.Empty(t, f.events.Events())
	})

	t.Run("unknown receipt", func(t *testing.T) {
		f := newLedgerFixture()
		id := uuid.New()
		f.receipts.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := f.service.Retract(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLedgerService_List(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	productID := uuid.New()

	f.receipts.On("Count", ctx, mock.Anything).Return(int64(0), nil)
	f.receipts.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == 10 && filter.Filters[inventory.FilterProductID] == productID
	})).Return([]inventory.Receipt{}, nil)

	page, err := f.service.List(ctx, ReceiptListQuery{ProductID: &productID, Page: -2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
}
